package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"formum.link/configs/configslog"
	"formum.link/pkg/identity"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	configslog.Log = zap.NewNop()
	configslog.SLog = configslog.Log.Sugar()
	os.Exit(m.Run())
}

type stubIdentityClient struct {
	verifyErr error
}

func (c *stubIdentityClient) VerifyUserToken(ctx context.Context, token string) (string, error) {
	if c.verifyErr != nil {
		return "", c.verifyErr
	}
	return "user-" + token, nil
}

func (c *stubIdentityClient) CheckCompanyAccess(ctx context.Context, userID, companyID string) (identity.AccessLevel, error) {
	return identity.AccessLevelNone, nil
}

func (c *stubIdentityClient) GetUserName(ctx context.Context, userID string) (string, error) {
	return "", nil
}

func newTestApp(handler fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Get("/protected", handler, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("userID").(string)
		return c.JSON(fiber.Map{"user_id": userID})
	})
	return app
}

func TestRequireUserWithHeaderToken(t *testing.T) {
	app := newTestApp(RequireUser(&stubIdentityClient{}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("X-User-Token", "abc")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireUserWithBearerToken(t *testing.T) {
	app := newTestApp(RequireUser(&stubIdentityClient{}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer abc")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireUserWithoutToken(t *testing.T) {
	app := newTestApp(RequireUser(&stubIdentityClient{}))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireUserInvalidToken(t *testing.T) {
	app := newTestApp(RequireUser(&stubIdentityClient{verifyErr: identity.ErrInvalidToken}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("X-User-Token", "expired")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestOptionalUserContinuesAnonymously(t *testing.T) {
	app := newTestApp(OptionalUser(&stubIdentityClient{}))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestOptionalUserIgnoresInvalidToken(t *testing.T) {
	app := newTestApp(OptionalUser(&stubIdentityClient{verifyErr: identity.ErrInvalidToken}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("X-User-Token", "expired")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
