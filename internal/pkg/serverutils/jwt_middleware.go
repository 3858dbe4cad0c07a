package serverutils

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// UserIdLocal is the fiber local holding the authenticated user id.
const UserIdLocal = "user_id"

// NewJwtMiddleware accepts HS256 bearer tokens signed with secret and stores
// the user_id claim in the request locals. Websocket upgrades may carry the
// token in the "token" query parameter instead.
func NewJwtMiddleware(secret string) fiber.Handler {
	key := []byte(secret)

	return func(ctx *fiber.Ctx) error {
		tokenStr := bearerToken(ctx)
		if tokenStr == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
		}

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid claims"))
		}
		userId, _ := claims["user_id"].(string)
		if userId == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid claims"))
		}

		ctx.Locals(UserIdLocal, userId)
		return ctx.Next()
	}
}

func bearerToken(ctx *fiber.Ctx) string {
	if h := ctx.Get(fiber.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ctx.Query("token")
}

// UserId reads the id stored by the jwt middleware.
func UserId(ctx *fiber.Ctx) string {
	id, _ := ctx.Locals(UserIdLocal).(string)
	return id
}
