package context

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestGetRequestID(t *testing.T) {
	if got := GetRequestID(context.Background()); got != "unknown" {
		t.Errorf("expected unknown, got %q", got)
	}
	if got := GetRequestID(WithRequestID(context.Background(), "abc")); got != "abc" {
		t.Errorf("expected abc, got %q", got)
	}
	if got := GetRequestID(WithRequestID(context.Background(), "")); got != "unknown" {
		t.Errorf("expected unknown for empty id, got %q", got)
	}
}

func TestFromFiberCtx(t *testing.T) {
	app := fiber.New()
	app.Get("/locals", func(c *fiber.Ctx) error {
		c.Locals(requestIDLocal, "from-locals")
		return c.SendString(GetRequestID(FromFiberCtx(c)))
	})
	app.Get("/header", func(c *fiber.Ctx) error {
		return c.SendString(GetRequestID(FromFiberCtx(c)))
	})

	tests := []struct {
		path     string
		header   string
		expected string
	}{
		{path: "/locals", expected: "from-locals"},
		{path: "/header", header: "from-header", expected: "from-header"},
		{path: "/header", expected: "unknown"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest("GET", tt.path, nil)
		if tt.header != "" {
			req.Header.Set(requestIDLocal, tt.header)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		body, _ := io.ReadAll(resp.Body)
		if string(body) != tt.expected {
			t.Errorf("%s: expected %q, got %q", tt.path, tt.expected, body)
		}
	}
}
