package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// AccessLevel bir kullanıcının bir şirket içindeki erişim seviyesidir.
type AccessLevel string

const (
	AccessLevelAdmin    AccessLevel = "admin"
	AccessLevelCustomer AccessLevel = "customer"
	AccessLevelNone     AccessLevel = "no_access"
)

// Kimlik sağlayıcısı hataları.
var (
	ErrInvalidToken = errors.New("kimlik doğrulanamadı: geçersiz veya süresi dolmuş token")
	ErrUserNotFound = errors.New("kullanıcı bulunamadı")
)

// IClient platform kimlik sağlayıcısı için arayüz.
// Kimlik doğrulama ve yetkilendirme tamamen bu dış servise devredilmiştir;
// uygulama hiçbir kimlik bilgisi saklamaz.
type IClient interface {
	VerifyUserToken(ctx context.Context, token string) (string, error)
	CheckCompanyAccess(ctx context.Context, userID, companyID string) (AccessLevel, error)
	GetUserName(ctx context.Context, userID string) (string, error)
}

// Client IClient arayüzünün HTTP implementasyonu.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient yeni bir kimlik istemcisi oluşturur. Timeout tüm çağrılar için
// geçerlidir; best-effort çağrılar (GetUserName) aşımda sessizce vazgeçer.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type verifyTokenResponse struct {
	UserID string `json:"user_id"`
}

type companyAccessResponse struct {
	AccessLevel string `json:"access_level"`
	HasAccess   bool   `json:"has_access"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// VerifyUserToken çağıran kimlik bilgisini platform kullanıcı ID'sine çevirir.
func (c *Client) VerifyUserToken(ctx context.Context, token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", ErrInvalidToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/tokens/verify", nil)
	if err != nil {
		return "", err
	}
	c.setHeaders(req)
	req.Header.Set("X-User-Token", token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("kimlik servisi çağrısı başarısız: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", ErrInvalidToken
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("kimlik servisi beklenmeyen durum kodu döndü: %d", resp.StatusCode)
	}

	var payload verifyTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("kimlik servisi yanıtı çözümlenemedi: %w", err)
	}
	if payload.UserID == "" {
		return "", ErrInvalidToken
	}
	return payload.UserID, nil
}

// CheckCompanyAccess kullanıcının şirketteki erişim seviyesini döndürür.
// Erişimi olmayan kullanıcı için hata değil AccessLevelNone döner;
// yetki kararını çağıran katman verir.
func (c *Client) CheckCompanyAccess(ctx context.Context, userID, companyID string) (AccessLevel, error) {
	if userID == "" || companyID == "" {
		return AccessLevelNone, errors.New("geçersiz kullanıcı veya şirket ID")
	}

	endpoint := fmt.Sprintf("%s/v1/users/%s/access?company_id=%s",
		c.baseURL, url.PathEscape(userID), url.QueryEscape(companyID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return AccessLevelNone, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return AccessLevelNone, fmt.Errorf("kimlik servisi çağrısı başarısız: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return AccessLevelNone, ErrUserNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return AccessLevelNone, fmt.Errorf("kimlik servisi beklenmeyen durum kodu döndü: %d", resp.StatusCode)
	}

	var payload companyAccessResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return AccessLevelNone, fmt.Errorf("kimlik servisi yanıtı çözümlenemedi: %w", err)
	}
	if !payload.HasAccess {
		return AccessLevelNone, nil
	}

	switch AccessLevel(payload.AccessLevel) {
	case AccessLevelAdmin:
		return AccessLevelAdmin, nil
	case AccessLevelCustomer:
		return AccessLevelCustomer, nil
	default:
		return AccessLevelNone, nil
	}
}

// GetUserName kullanıcının görünen adını best-effort çözümler.
// Username boşsa Name alanına düşülür; ikisi de yoksa boş string döner.
func (c *Client) GetUserName(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", ErrUserNotFound
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/users/"+url.PathEscape(userID), nil)
	if err != nil {
		return "", err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("kimlik servisi çağrısı başarısız: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrUserNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("kimlik servisi beklenmeyen durum kodu döndü: %d", resp.StatusCode)
	}

	var payload userResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("kimlik servisi yanıtı çözümlenemedi: %w", err)
	}
	if payload.Username != "" {
		return payload.Username, nil
	}
	return payload.Name, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

var _ IClient = (*Client)(nil)
