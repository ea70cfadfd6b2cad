package auth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"greenhill-schools/app/models"
)

const actorLocal = "actor"

// Claims is the token payload identifying the acting teacher or admin.
type Claims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// RequireActor verifies the bearer token and stores the resulting
// Actor in the request locals. The engine uses the actor for audit
// columns only.
func RequireActor(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return fiber.NewError(fiber.StatusUnauthorized, "Missing bearer token")
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
		}

		c.Locals(actorLocal, models.Actor{
			ID:   claims.Subject,
			Name: claims.Name,
			Role: models.Role(claims.Role),
		})
		return c.Next()
	}
}

// ActorFromCtx returns the actor stored by RequireActor.
func ActorFromCtx(c *fiber.Ctx) models.Actor {
	actor, _ := c.Locals(actorLocal).(models.Actor)
	return actor
}

// IssueToken signs a token for an actor. Used by the mktoken tool and
// by tests; production tokens come from the identity service.
func IssueToken(secret []byte, actor models.Actor, ttl time.Duration) (string, error) {
	claims := Claims{
		Name: actor.Name,
		Role: string(actor.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
