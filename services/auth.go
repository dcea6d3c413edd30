package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"ttms-analytics/models"

	"github.com/google/uuid"
)

// AuthService меняет логин-сессию на админ-сессию, нужную для массового чтения
type AuthService struct {
	client *UpstreamClient
	cache  *CacheService
	ttl    time.Duration
}

func NewAuthService(client *UpstreamClient, cache *CacheService, ttl time.Duration) *AuthService {
	return &AuthService{client: client, cache: cache, ttl: ttl}
}

// Exchange возвращает админ-сессию для логин-сессии, результат кэшируется на ttl
func (s *AuthService) Exchange(ctx context.Context, loginSessionID string) (string, error) {
	if loginSessionID == "" {
		return "", models.ErrMissingCredentials
	}
	return getOrFetch(ctx, s.cache, "admin_session:"+loginSessionID, s.ttl, func(ctx context.Context) (string, error) {
		var sessions []wireSession
		if err := s.client.GetAdminSession(ctx, loginSessionID, &sessions); err != nil {
			return "", fmt.Errorf("%w: %w", models.ErrUpstreamAuth, err)
		}
		if len(sessions) == 0 || sessions[0].SessionID == "" {
			return "", fmt.Errorf("%w: empty admin session", models.ErrUpstreamAuth)
		}
		return sessions[0].SessionID.String(), nil
	})
}

// Resolve - единое правило: админ-сессия, если передана, иначе выводится из логин-сессии
func (s *AuthService) Resolve(ctx context.Context, creds models.Credentials) (string, error) {
	if creds.AdminSessionID != "" {
		return creds.AdminSessionID, nil
	}
	if creds.LoginSessionID == "" {
		return "", models.ErrMissingCredentials
	}
	return s.Exchange(ctx, creds.LoginSessionID)
}

// Authenticate проверяет логин и пароль через entity=authentication
func (s *AuthService) Authenticate(ctx context.Context, login, password string) (*models.User, error) {
	if login == "" || password == "" {
		return nil, fmt.Errorf("%w: login and password", models.ErrMissingParameter)
	}
	params := url.Values{}
	params.Set("login", login)
	params.Set("password", password)

	var users []wireSession
	if err := s.client.Get(ctx, "authentication", params, &users); err != nil {
		return nil, err
	}
	if len(users) == 0 || users[0].SessionID == "" {
		return nil, fmt.Errorf("%w: invalid credentials", models.ErrUpstreamAuth)
	}
	u := users[0]
	return &models.User{
		Login:       u.Login.String(),
		Name:        u.Name.String(),
		SessionID:   u.SessionID.String(),
		Description: u.Desc.String(),
	}, nil
}

// sessionScope - отпечаток админ-сессии для ключей кэша.
// Массовые списки кэшируются отдельно на каждую сессию, сам токен в ключ не попадает.
func sessionScope(adminSessionID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(adminSessionID)).String()
}
