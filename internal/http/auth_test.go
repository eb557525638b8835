package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"golang.org/x/crypto/bcrypt"

	"tillbook/internal/http/handlers"
	"tillbook/internal/repos"
	"tillbook/internal/services"
)

func TestSeededPasswordIsHashed(t *testing.T) {
	db := memdb(t)
	if err := repos.SeedAdmin(db, "admin@tillbook.test", "Passw0rd!"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var hashes []string
	if err := db.Select(&hashes, `SELECT password_hash FROM users`); err != nil {
		t.Fatalf("select hashes: %v", err)
	}
	if len(hashes) != 1 {
		t.Fatalf("want 1 user, got %d", len(hashes))
	}
	h := hashes[0]
	if strings.Contains(h, "Passw0rd!") {
		t.Fatal("hash contains plaintext password")
	}
	if !strings.HasPrefix(h, "$2") {
		t.Fatalf("unexpected hash format: %s", h)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(h), []byte("Passw0rd!")); err != nil {
		t.Fatalf("seed hash does not validate known password: %v", err)
	}

	// Seeding again must not duplicate or replace the account.
	if err := repos.SeedAdmin(db, "admin@tillbook.test", "Different1!"); err != nil {
		t.Fatalf("re-seed: %v", err)
	}
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM users`); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("re-seed duplicated users: %d", n)
	}
}

func TestLoginSuccessFailAndThrottle(t *testing.T) {
	db := memdb(t)
	if err := repos.SeedAdmin(db, "admin@tillbook.test", "Passw0rd!"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	authSvc := &services.AuthService{Users: repos.NewUserRepo(db)}
	authH := &handlers.AuthHandler{Auth: authSvc}

	app := newApp()
	app.Use(csrf.New(csrf.Config{KeyLookup: "form:csrf", CookieName: "csrf_", CookieSameSite: "Lax"}))
	app.Get("/login", authH.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{Max: 2, Expiration: time.Minute}), authH.Login)

	respForm, err := app.Test(httptest.NewRequest("GET", "/login", nil))
	if err != nil {
		t.Fatal(err)
	}
	csrfTok := cookieValue(respForm, "csrf_")
	if csrfTok == "" {
		t.Fatal("csrf token missing")
	}

	post := func(password string) *http.Response {
		form := strings.NewReader("csrf=" + csrfTok + "&email=admin@tillbook.test&password=" + password)
		req := httptest.NewRequest("POST", "/login", form)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(&http.Cookie{Name: "csrf_", Value: csrfTok})
		resp, err := app.Test(req, 5000)
		if err != nil {
			t.Fatal(err)
		}
		return resp
	}

	if resp := post("Wrongpass1!"); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad creds, got %d", resp.StatusCode)
	}
	if resp := post("Passw0rd!"); resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect on success, got %d", resp.StatusCode)
	}
	if resp := post("Wrongpass1!"); resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after throttle, got %d", resp.StatusCode)
	}
}

func TestLoginRejectsMalformedInputBeforeLookup(t *testing.T) {
	db := memdb(t)
	authSvc := &services.AuthService{Users: repos.NewUserRepo(db)}
	authH := &handlers.AuthHandler{Auth: authSvc}

	app := newApp()
	app.Post("/login", authH.Login)

	for _, form := range []string{
		"email=not-an-email&password=Passw0rd!",
		"email=admin@tillbook.test&password=short",
	} {
		req := httptest.NewRequest("POST", "/login", strings.NewReader(form))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("form %q: expected 401, got %d", form, resp.StatusCode)
		}
	}
}
