package serverutils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// OptionalJwtMiddleware authenticates the request when it carries a bearer
// token and lets anonymous requests through. A token that is present but
// invalid is rejected. With an empty secret tokens are ignored.
func OptionalJwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if secret == "" || authHeader == "" {
			return ctx.Next()
		}
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid authorization header")
		}
		tokenStr := authHeader[7:]

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.ErrUnauthorized
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid claims")
		}
		userId, ok := claims["user_id"].(string)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Token missing user_id")
		}
		if _, err := uuid.Parse(userId); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID format in token")
		}

		ctx.Locals("user_id", userId)
		return ctx.Next()
	}
}

// UserIdFromLocals returns the authenticated user, or nil for anonymous requests.
func UserIdFromLocals(ctx *fiber.Ctx) *uuid.UUID {
	userIdStr, ok := ctx.Locals("user_id").(string)
	if !ok {
		return nil
	}
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return nil
	}
	return &userId
}
