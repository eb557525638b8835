package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"tillbook/internal/config"
	"tillbook/internal/http/handlers"
	"tillbook/internal/repos"
	"tillbook/internal/services"
)

func postForm(t *testing.T, app *fiber.App, path, form, sid string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestCartAddUpdateCheckout(t *testing.T) {
	db := memdb(t)
	catalog := services.NewCatalogService(repos.NewItemRepo(db))
	ledger := services.NewLedgerService(repos.NewSaleRepo(db))
	deps := handlers.NewDeps(db, config.Config{MediaDir: t.TempDir()})

	app := newApp()
	app.Post("/cart", deps.CartHandler.Add)
	app.Post("/cart/update", deps.CartHandler.Update)
	app.Post("/checkout", deps.CartHandler.Checkout)

	a, _ := catalog.Create("Anvil", mustDec(t, "1.00"), 5, "")
	b, _ := catalog.Create("Bolt", mustDec(t, "2.00"), 5, "")

	sid := "cart-session"
	if resp := postForm(t, app, "/cart", "item_id=1&quantity=2", sid); resp.StatusCode != http.StatusFound {
		t.Fatalf("add: got %d", resp.StatusCode)
	}
	if resp := postForm(t, app, "/cart", "item_id=2&quantity=1", sid); resp.StatusCode != http.StatusFound {
		t.Fatalf("add: got %d", resp.StatusCode)
	}
	if resp := postForm(t, app, "/cart/update", "item_id=2&quantity=3", sid); resp.StatusCode != http.StatusFound {
		t.Fatalf("update: got %d", resp.StatusCode)
	}

	resp := postForm(t, app, "/checkout", "", sid)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("checkout: got %d", resp.StatusCode)
	}
	if fl := cookieValue(resp, "flash"); !strings.Contains(fl, "Checkout+complete") {
		t.Fatalf("flash should confirm checkout, got %q", fl)
	}

	gotA, _ := catalog.Get(a.ID)
	gotB, _ := catalog.Get(b.ID)
	if gotA.Quantity != 3 || gotB.Quantity != 2 {
		t.Fatalf("stock after checkout: %d %d", gotA.Quantity, gotB.Quantity)
	}
	records, _ := ledger.List()
	if len(records) != 2 {
		t.Fatalf("want 2 sales, got %+v", records)
	}
}

func TestCartCheckoutPartialFailureFlash(t *testing.T) {
	db := memdb(t)
	catalog := services.NewCatalogService(repos.NewItemRepo(db))
	deps := handlers.NewDeps(db, config.Config{MediaDir: t.TempDir()})

	app := newApp()
	app.Post("/cart", deps.CartHandler.Add)
	app.Post("/checkout", deps.CartHandler.Checkout)

	catalog.Create("Anvil", mustDec(t, "1.00"), 5, "")
	catalog.Create("Bolt", mustDec(t, "2.00"), 1, "")

	sid := "cart-session"
	postForm(t, app, "/cart", "item_id=1&quantity=2", sid)
	postForm(t, app, "/cart", "item_id=2&quantity=3", sid)

	resp := postForm(t, app, "/checkout", "", sid)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("checkout: got %d", resp.StatusCode)
	}
	fl := cookieValue(resp, "flash")
	if !strings.Contains(fl, "Remaining+lines+not+sold") || !strings.Contains(fl, "Insufficient") {
		t.Fatalf("flash should report the partial failure, got %q", fl)
	}
}

func TestCartCheckoutEmpty(t *testing.T) {
	db := memdb(t)
	deps := handlers.NewDeps(db, config.Config{MediaDir: t.TempDir()})

	app := newApp()
	app.Post("/checkout", deps.CartHandler.Checkout)

	resp := postForm(t, app, "/checkout", "", "cart-session")
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("empty checkout should flash and redirect, got %d", resp.StatusCode)
	}
	if fl := cookieValue(resp, "flash"); !strings.Contains(fl, "cart") {
		t.Fatalf("flash should mention the cart, got %q", fl)
	}
}
