package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2/middleware/csrf"

	"tillbook/internal/config"
	"tillbook/internal/http/handlers"
	"tillbook/internal/repos"
	"tillbook/internal/services"
)

func TestSellFromInventoryPage(t *testing.T) {
	db := memdb(t)
	catalog := services.NewCatalogService(repos.NewItemRepo(db))
	deps := handlers.NewDeps(db, config.Config{MediaDir: t.TempDir()})

	app := newApp()
	app.Use(csrf.New(csrf.Config{KeyLookup: "form:csrf", CookieName: "csrf_", CookieSameSite: "Lax"}))
	app.Get("/", deps.ItemHandler.Index)
	app.Post("/sell", deps.ItemHandler.Sell)

	it, err := catalog.Create("Widget", mustDec(t, "2.00"), 10, "")
	if err != nil {
		t.Fatal(err)
	}

	respIndex, err := app.Test(httptest.NewRequest("GET", "/", nil), 5000)
	if err != nil {
		t.Fatal(err)
	}
	if respIndex.StatusCode != http.StatusOK {
		t.Fatalf("index: got %d", respIndex.StatusCode)
	}
	csrfTok := cookieValue(respIndex, "csrf_")
	if csrfTok == "" {
		t.Fatal("csrf token missing")
	}

	form := strings.NewReader("csrf=" + csrfTok + "&item_id=1&quantity=3")
	req := httptest.NewRequest("POST", "/sell", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: csrfTok})
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/" {
		t.Fatalf("want redirect home, got %d %s", resp.StatusCode, resp.Header.Get("Location"))
	}
	if fl := cookieValue(resp, "flash"); !strings.Contains(fl, "Sold") {
		t.Fatalf("flash should confirm the sale, got %q", fl)
	}

	got, _ := catalog.Get(it.ID)
	if got.Quantity != 7 {
		t.Fatalf("want quantity 7, got %d", got.Quantity)
	}
}

func TestSellWithoutCSRFTokenIsRejected(t *testing.T) {
	db := memdb(t)
	deps := handlers.NewDeps(db, config.Config{MediaDir: t.TempDir()})

	app := newApp()
	app.Use(csrf.New(csrf.Config{KeyLookup: "form:csrf", CookieName: "csrf_", CookieSameSite: "Lax"}))
	app.Post("/sell", deps.ItemHandler.Sell)

	form := strings.NewReader("item_id=1&quantity=3")
	req := httptest.NewRequest("POST", "/sell", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("want 403 without csrf, got %d", resp.StatusCode)
	}
}

func TestSellOversellShowsAvailability(t *testing.T) {
	db := memdb(t)
	catalog := services.NewCatalogService(repos.NewItemRepo(db))
	deps := handlers.NewDeps(db, config.Config{MediaDir: t.TempDir()})

	app := newApp()
	app.Post("/sell", deps.ItemHandler.Sell)

	it, _ := catalog.Create("Widget", mustDec(t, "2.00"), 10, "")

	form := strings.NewReader("item_id=1&quantity=20")
	req := httptest.NewRequest("POST", "/sell", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("oversell should flash and redirect, got %d", resp.StatusCode)
	}
	fl := cookieValue(resp, "flash")
	if !strings.Contains(fl, "Insufficient") || !strings.Contains(fl, "10") {
		t.Fatalf("flash should carry the available quantity, got %q", fl)
	}
	got, _ := catalog.Get(it.ID)
	if got.Quantity != 10 {
		t.Fatalf("stock must be untouched, got %d", got.Quantity)
	}
}
