package middlewares

import (
	"errors"
	"strings"

	"formum.link/configs/configslog"
	"formum.link/pkg/identity"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequireUser istekten kullanıcı token'ını okur, identity servisinde doğrular
// ve kullanıcı ID'sini c.Locals("userID") içine koyar. Token "X-User-Token"
// başlığından, yoksa "Authorization: Bearer ..." başlığından alınır.
func RequireUser(client identity.IClient) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get("X-User-Token")
		if token == "" {
			auth := c.Get(fiber.HeaderAuthorization)
			if strings.HasPrefix(auth, "Bearer ") {
				token = strings.TrimPrefix(auth, "Bearer ")
			}
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "kimlik doğrulama gerekli"})
		}

		userID, err := client.VerifyUserToken(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, identity.ErrInvalidToken) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "geçersiz oturum"})
			}
			configslog.Log.Error("RequireUser: token doğrulanamadı", zap.Error(err))
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "kimlik servisi yanıt vermiyor"})
		}

		c.Locals("userID", userID)
		return c.Next()
	}
}

// OptionalUser token varsa doğrulayıp userID'yi locals'a koyar; token yoksa
// veya doğrulanamazsa isteği anonim olarak devam ettirir. Public endpoint'lerde
// gönderen kullanıcıyı kayıtla ilişkilendirebilmek için kullanılır.
func OptionalUser(client identity.IClient) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get("X-User-Token")
		if token == "" {
			auth := c.Get(fiber.HeaderAuthorization)
			if strings.HasPrefix(auth, "Bearer ") {
				token = strings.TrimPrefix(auth, "Bearer ")
			}
		}
		if token == "" {
			return c.Next()
		}

		userID, err := client.VerifyUserToken(c.UserContext(), token)
		if err != nil {
			if !errors.Is(err, identity.ErrInvalidToken) {
				configslog.SLog.Warnf("OptionalUser: token doğrulanamadı, istek anonim devam ediyor: %v", err)
			}
			return c.Next()
		}

		c.Locals("userID", userID)
		return c.Next()
	}
}
