package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	logger "university-library/loggers"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type AccessDetails struct {
	AccessUuid string
	Email      string
}

type RefreshDetails struct {
	RefreshUuid string
	Email       string
}

type TokenPair struct {
	AccessToken  string
	AccessUuid   string
	AtExpires    int64
	RefreshToken string
	RefreshUuid  string
	RtExpires    int64
}

// TokenStore keeps token uuid -> email with a TTL, so tokens can be revoked
// server-side independently of their JWT expiry.
type TokenStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
}

var ErrTokenNotFound = errors.New("token not found")

type RedisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func (s *RedisTokenStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisTokenStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	return value, err
}

// TokenManager issues and validates the access/refresh token pair. Token
// metadata lives in the store keyed by uuid; a token whose uuid is gone is
// treated as expired no matter what the JWT says.
type TokenManager struct {
	store         TokenStore
	accessSecret  []byte
	refreshSecret []byte
}

func NewTokenManager(store TokenStore, accessSecret, refreshSecret string) *TokenManager {
	return &TokenManager{
		store:         store,
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
	}
}

func (m *TokenManager) CreateTokenPair(email string) (*TokenPair, error) {
	var err error
	token := &TokenPair{
		AtExpires:   time.Now().Add(time.Minute * 15).Unix(),   // Access token expires in 15 mins
		RtExpires:   time.Now().Add(time.Hour * 24 * 7).Unix(), // Refresh token expires in 7 days
		AccessUuid:  uuid.New().String(),
		RefreshUuid: uuid.New().String(),
	}

	atClaims := jwt.MapClaims{
		"authorized":  true,
		"access_uuid": token.AccessUuid,
		"email":       email,
		"exp":         token.AtExpires,
	}
	at := jwt.NewWithClaims(jwt.SigningMethodHS256, atClaims)
	token.AccessToken, err = at.SignedString(m.accessSecret)
	if err != nil {
		logger.Logger.Error("signing of access token failed: ", err)
		return nil, err
	}

	rtClaims := jwt.MapClaims{
		"refresh_uuid": token.RefreshUuid,
		"email":        email,
		"exp":          token.RtExpires,
	}
	rt := jwt.NewWithClaims(jwt.SigningMethodHS256, rtClaims)
	token.RefreshToken, err = rt.SignedString(m.refreshSecret)
	if err != nil {
		logger.Logger.Error("signing of refresh token failed: ", err)
		return nil, err
	}
	return token, nil
}

func (m *TokenManager) SaveTokenPair(ctx context.Context, tokenObj *TokenPair, email string) error {
	at := time.Unix(tokenObj.AtExpires, 0)
	rt := time.Unix(tokenObj.RtExpires, 0)
	now := time.Now()

	if err := m.store.Set(ctx, tokenObj.AccessUuid, email, at.Sub(now)); err != nil {
		logger.Logger.Error("failed to insert access token in store: ", err)
		return err
	}
	if err := m.store.Set(ctx, tokenObj.RefreshUuid, email, rt.Sub(now)); err != nil {
		logger.Logger.Error("failed to insert refresh token in store: ", err)
		return err
	}
	return nil
}

// IssueSession creates a token pair, persists its metadata, and sets the
// session cookies on the response.
func (m *TokenManager) IssueSession(c *gin.Context, email string) (*TokenPair, error) {
	tokenPair, err := m.CreateTokenPair(email)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()
	if err := m.SaveTokenPair(ctx, tokenPair, email); err != nil {
		return nil, err
	}
	c.SetCookie("access_token", tokenPair.AccessToken, 15*60, "/", "", false, true)
	c.SetCookie("refresh_token", tokenPair.RefreshToken, 7*24*3600, "/", "", false, true)
	return tokenPair, nil
}

func (m *TokenManager) extractAccessTokenMetadata(tokenString string) (*AccessDetails, error) {
	claims, err := extractTokenMetadata(tokenString, m.accessSecret, []string{"access_uuid", "email"})
	if err != nil {
		return nil, err
	}
	return &AccessDetails{
		AccessUuid: claims["access_uuid"].(string),
		Email:      claims["email"].(string),
	}, nil
}

func (m *TokenManager) extractRefreshTokenMetadata(refreshString string) (*RefreshDetails, error) {
	claims, err := extractTokenMetadata(refreshString, m.refreshSecret, []string{"refresh_uuid", "email"})
	if err != nil {
		return nil, err
	}
	return &RefreshDetails{
		RefreshUuid: claims["refresh_uuid"].(string),
		Email:       claims["email"].(string),
	}, nil
}

func extractTokenMetadata(tokenString string, secret []byte, expectedClaims []string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	for _, claim := range expectedClaims {
		if _, ok := claims[claim]; !ok {
			return nil, fmt.Errorf("missing required claim: %s", claim)
		}
	}
	return claims, nil
}

// FetchAuth resolves a token uuid to the email it was issued for.
func (m *TokenManager) FetchAuth(ctx context.Context, details *AccessDetails) (string, error) {
	return m.store.Get(ctx, details.AccessUuid)
}
