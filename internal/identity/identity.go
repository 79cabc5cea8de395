package identity

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity is the authenticated caller as seen by the safety workflow.
type Identity struct {
	ID  uuid.UUID
	Bot bool
}

// FromContext extracts the caller identity from JWT claims in the Fiber
// context. Tokens are issued with "sub" and "bot" claims at login.
func FromContext(c *fiber.Ctx) (Identity, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return Identity{}, errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return Identity{}, errors.New("missing sub claim")
	}

	id, err := uuid.Parse(sub)
	if err != nil {
		return Identity{}, err
	}

	bot, _ := claims["bot"].(bool)
	return Identity{ID: id, Bot: bot}, nil
}
