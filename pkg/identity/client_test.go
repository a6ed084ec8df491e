package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/h2non/gock.v1"
)

const testBaseURL = "https://identity.example.com"

func newTestClient() *Client {
	client := NewClient(testBaseURL, "test-api-key", 5*time.Second)
	gock.InterceptClient(client.httpClient)
	return client
}

func TestVerifyUserToken(t *testing.T) {
	defer gock.Off()

	gock.New(testBaseURL).
		Post("/v1/tokens/verify").
		MatchHeader("X-User-Token", "valid-token").
		MatchHeader("Authorization", "Bearer test-api-key").
		Reply(200).
		JSON(map[string]string{"user_id": "user-42"})

	client := newTestClient()
	userID, err := client.VerifyUserToken(context.Background(), "valid-token")
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
	assert.True(t, gock.IsDone())
}

func TestVerifyUserTokenInvalid(t *testing.T) {
	defer gock.Off()

	gock.New(testBaseURL).
		Post("/v1/tokens/verify").
		Reply(401)

	client := newTestClient()
	_, err := client.VerifyUserToken(context.Background(), "expired-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyUserTokenBlank(t *testing.T) {
	client := newTestClient()
	_, err := client.VerifyUserToken(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyUserTokenEmptyUserID(t *testing.T) {
	defer gock.Off()

	gock.New(testBaseURL).
		Post("/v1/tokens/verify").
		Reply(200).
		JSON(map[string]string{"user_id": ""})

	client := newTestClient()
	_, err := client.VerifyUserToken(context.Background(), "weird-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCheckCompanyAccessAdmin(t *testing.T) {
	defer gock.Off()

	gock.New(testBaseURL).
		Get("/v1/users/user-42/access").
		MatchParam("company_id", "company-1").
		Reply(200).
		JSON(map[string]interface{}{"access_level": "admin", "has_access": true})

	client := newTestClient()
	level, err := client.CheckCompanyAccess(context.Background(), "user-42", "company-1")
	require.NoError(t, err)
	assert.Equal(t, AccessLevelAdmin, level)
}

func TestCheckCompanyAccessNoAccessIsNotAnError(t *testing.T) {
	defer gock.Off()

	gock.New(testBaseURL).
		Get("/v1/users/user-42/access").
		Reply(200).
		JSON(map[string]interface{}{"access_level": "no_access", "has_access": false})

	client := newTestClient()
	level, err := client.CheckCompanyAccess(context.Background(), "user-42", "company-1")
	require.NoError(t, err)
	assert.Equal(t, AccessLevelNone, level)
}

func TestCheckCompanyAccessUnknownLevelFallsToNone(t *testing.T) {
	defer gock.Off()

	gock.New(testBaseURL).
		Get("/v1/users/user-42/access").
		Reply(200).
		JSON(map[string]interface{}{"access_level": "owner", "has_access": true})

	client := newTestClient()
	level, err := client.CheckCompanyAccess(context.Background(), "user-42", "company-1")
	require.NoError(t, err)
	assert.Equal(t, AccessLevelNone, level)
}

func TestCheckCompanyAccessUserNotFound(t *testing.T) {
	defer gock.Off()

	gock.New(testBaseURL).
		Get("/v1/users/ghost/access").
		Reply(404)

	client := newTestClient()
	_, err := client.CheckCompanyAccess(context.Background(), "ghost", "company-1")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetUserNamePrefersUsername(t *testing.T) {
	defer gock.Off()

	gock.New(testBaseURL).
		Get("/v1/users/user-42").
		Reply(200).
		JSON(map[string]string{"id": "user-42", "username": "ayse", "name": "Ayşe Yılmaz"})

	client := newTestClient()
	name, err := client.GetUserName(context.Background(), "user-42")
	require.NoError(t, err)
	assert.Equal(t, "ayse", name)
}

func TestGetUserNameFallsBackToName(t *testing.T) {
	defer gock.Off()

	gock.New(testBaseURL).
		Get("/v1/users/user-42").
		Reply(200).
		JSON(map[string]string{"id": "user-42", "name": "Ayşe Yılmaz"})

	client := newTestClient()
	name, err := client.GetUserName(context.Background(), "user-42")
	require.NoError(t, err)
	assert.Equal(t, "Ayşe Yılmaz", name)
}

func TestGetUserNameNotFound(t *testing.T) {
	defer gock.Off()

	gock.New(testBaseURL).
		Get("/v1/users/ghost").
		Reply(404)

	client := newTestClient()
	_, err := client.GetUserName(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
