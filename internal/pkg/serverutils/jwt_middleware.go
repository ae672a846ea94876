package serverutils

import (
	"errors"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	LocalUserID = "user_id"
	LocalRole   = "role"
)

var ErrInvalidToken = errors.New("invalid token")

// ParseToken validates an HS256 token and returns its user id and role.
func ParseToken(secret, tokenStr string) (uuid.UUID, string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, "", ErrInvalidToken
	}
	userIDStr, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, "", ErrInvalidToken
	}
	role, _ := claims["role"].(string)
	return userID, role, nil
}

// BearerToken reads the Authorization header, falling back to the "token"
// query parameter browsers use for WebSocket handshakes.
func BearerToken(ctx *fiber.Ctx) string {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ctx.Query("token")
}

// NewJwtMiddleware rejects requests without a valid token. When roles are
// given the token's role must be one of them.
func NewJwtMiddleware(secret string, roles ...string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := BearerToken(ctx)
		if tokenStr == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
		}

		userID, role, err := ParseToken(secret, tokenStr)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
		}
		if len(roles) > 0 && !slices.Contains(roles, role) {
			return ctx.Status(fiber.StatusForbidden).JSON(ErrorResponse(fiber.StatusForbidden, "Insufficient role"))
		}

		ctx.Locals(LocalUserID, userID)
		ctx.Locals(LocalRole, role)
		return ctx.Next()
	}
}

// UserID returns the authenticated user placed in locals by the middleware.
func UserID(ctx *fiber.Ctx) (uuid.UUID, error) {
	if id, ok := ctx.Locals(LocalUserID).(uuid.UUID); ok {
		return id, nil
	}
	return uuid.Nil, Unauthorized("Unauthorized")
}
