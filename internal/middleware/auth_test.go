package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"movie-catalog/internal/models"
	"movie-catalog/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	cases := map[string]struct {
		header string
		token  string
		ok     bool
	}{
		"bearer":        {"Bearer abc", "abc", true},
		"lower case":    {"bearer abc", "abc", true},
		"extra spaces":  {"  Bearer   abc  ", "abc", true},
		"empty":         {"", "", false},
		"no token":      {"Bearer ", "", false},
		"other scheme":  {"Basic abc", "", false},
		"missing space": {"Bearerabc", "", false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			token, ok := bearerToken(tc.header)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.token, token)
		})
	}
}

func staffApp(writesRequireStaff bool, user *models.User) *fiber.App {
	auth := NewAuth(nil, writesRequireStaff, testutil.NewLogger())
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		if user != nil {
			c.Locals(userLocalsKey, user)
		}
		return c.Next()
	}, auth.RequireStaff(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func TestRequireStaff(t *testing.T) {
	cases := []struct {
		name     string
		required bool
		user     *models.User
		want     int
	}{
		{"not required", false, &models.User{ID: 1}, http.StatusNoContent},
		{"staff", true, &models.User{ID: 1, IsStaff: true}, http.StatusNoContent},
		{"regular user", true, &models.User{ID: 2}, http.StatusForbidden},
		{"no user", true, nil, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := staffApp(tc.required, tc.user).Test(httptest.NewRequest(http.MethodPost, "/", nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}
