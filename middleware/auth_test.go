package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestGatewayAuthMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(GatewayAuthMiddleware("good-token"))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("ok") })

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", fiber.StatusUnauthorized},
		{"wrong token", "Bearer nope", fiber.StatusUnauthorized},
		{"bearer token", "Bearer good-token", fiber.StatusOK},
		{"raw token from older gateway", "good-token", fiber.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest("GET", "/ping", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if resp.StatusCode != tc.want {
			t.Fatalf("%s: status = %d, want %d", tc.name, resp.StatusCode, tc.want)
		}
	}
}

func TestPlayerContextNormalizesIdentity(t *testing.T) {
	app := fiber.New()
	app.Use(PlayerContextMiddleware())
	app.Get("/s/whoami", func(c *fiber.Ctx) error {
		id, _ := c.Locals("user_id").(string)
		return c.SendString(id)
	})

	req := httptest.NewRequest("GET", "/s/whoami", nil)
	req.Header.Set("X-User-ID", "  Player-ABC  ")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	buf := make([]byte, 64)
	n, _ := resp.Body.Read(buf)
	if got := string(buf[:n]); got != "player-abc" {
		t.Fatalf("normalized id = %q, want player-abc", got)
	}
}

func TestPlayerContextRejectsMissingIdentityOnSecuredRoutes(t *testing.T) {
	app := fiber.New()
	app.Use(PlayerContextMiddleware())
	app.Get("/s/whoami", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("GET", "/s/whoami", nil))
	if err != nil {
		t.Fatalf("test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestRequireAdmin(t *testing.T) {
	app := fiber.New()
	app.Use(PlayerContextMiddleware())
	app.Get("/s/admin/ping", RequireAdmin(), func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest("GET", "/s/admin/ping", nil)
	req.Header.Set("X-User-ID", "player-1")
	req.Header.Set("X-User-Roles", "player")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("test: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("non-admin status = %d, want 403", resp.StatusCode)
	}

	req = httptest.NewRequest("GET", "/s/admin/ping", nil)
	req.Header.Set("X-User-ID", "player-1")
	req.Header.Set("X-User-Roles", "player, admin")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("admin status = %d, want 200", resp.StatusCode)
	}
}
