package serverutils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, userID uuid.UUID, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID.String(),
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func decodeError(t *testing.T, body io.Reader) ErrorBody {
	t.Helper()
	var out ErrorBody
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

type createRequest struct {
	Slug string `json:"slug" validate:"required"`
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/app", func(c *fiber.Ctx) error { return fmt.Errorf("load: %w", NotFound("post not found")) })
	app.Get("/fiber", func(c *fiber.Ctx) error { return fiber.ErrUnprocessableEntity })
	app.Get("/validation", func(c *fiber.Ctx) error { return ValidateRequest(createRequest{}) })
	app.Get("/plain", func(c *fiber.Ctx) error { return errors.New("db exploded") })

	tests := []struct {
		path    string
		status  int
		message string
	}{
		{"/app", 404, "post not found"},
		{"/fiber", 422, "Unprocessable Entity"},
		{"/validation", 400, "validation failed"},
		{"/plain", 500, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			body := decodeError(t, resp.Body)
			assert.False(t, body.Success)
			assert.Equal(t, tt.message, body.Message)
			if tt.path == "/validation" {
				assert.Contains(t, body.Errors, "slug")
			}
		})
	}
}

func TestJwtMiddleware(t *testing.T) {
	userID := uuid.New()
	app := fiber.New()
	app.Get("/admin", NewJwtMiddleware(testSecret, "admin"), func(c *fiber.Ctx) error {
		id, err := UserID(c)
		if err != nil {
			return err
		}
		return c.SendString(id.String())
	})

	tests := []struct {
		name   string
		header string
		query  string
		status int
	}{
		{"missing", "", "", 401},
		{"bad signature", "Bearer " + signToken(t, "other", userID, "admin"), "", 401},
		{"wrong role", "Bearer " + signToken(t, testSecret, userID, "editor"), "", 403},
		{"header ok", "Bearer " + signToken(t, testSecret, userID, "admin"), "", 200},
		{"query ok", "", signToken(t, testSecret, userID, "admin"), 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/admin"
			if tt.query != "" {
				target += "?token=" + tt.query
			}
			req := httptest.NewRequest("GET", target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.status == 200 {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, userID.String(), string(body))
			}
		})
	}
}

func TestParseTokenRejectsMissingUser(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": "admin"})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, _, err = ParseToken(testSecret, signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
