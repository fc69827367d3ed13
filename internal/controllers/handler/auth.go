package handler

import (
	"crypto/subtle"
	"strings"

	"portal/internal/appers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/keyauth"
)

// LocalRequestedBy ключ locals с именем владельца токена
const LocalRequestedBy = "requestedBy"

type apiToken struct {
	name  string
	token []byte
}

// ParseTokens разбирает "name:token,name2:token2". Токен без имени получает имя "token".
func ParseTokens(s string) []apiToken {
	var res []apiToken
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, token, ok := strings.Cut(part, ":")
		if !ok {
			name, token = "token", part
		}
		name, token = strings.TrimSpace(name), strings.TrimSpace(token)
		if token == "" {
			continue
		}
		res = append(res, apiToken{name: name, token: []byte(token)})
	}
	return res
}

// Auth проверяет Bearer токен. Сравниваются все токены, чтобы время ответа не зависело от совпадения.
func Auth(tokens []apiToken) fiber.Handler {
	return keyauth.New(keyauth.Config{
		KeyLookup:  "header:" + fiber.HeaderAuthorization,
		AuthScheme: "Bearer",
		Validator: func(c *fiber.Ctx, key string) (bool, error) {
			candidate := []byte(key)
			owner := ""
			for _, t := range tokens {
				if subtle.ConstantTimeCompare(candidate, t.token) == 1 && owner == "" {
					owner = t.name
				}
			}
			if owner == "" {
				return false, keyauth.ErrMissingOrMalformedAPIKey
			}
			c.Locals(LocalRequestedBy, owner)
			return true, nil
		},
		ErrorHandler: func(c *fiber.Ctx, _ error) error {
			return appers.SanitizeError(c, appers.ErrUnauthorized)
		},
	})
}

func requestedBy(c *fiber.Ctx) string {
	by, _ := c.Locals(LocalRequestedBy).(string)
	return by
}
