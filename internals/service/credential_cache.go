package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss means the credential cache has no entry for the email.
var ErrCacheMiss = errors.New("credential cache miss")

// CredentialCache keeps email -> password hash so sign-in does not have to
// hit the database on every attempt. Entries are written on sign-up and on
// cache misses resolved from the database.
type CredentialCache interface {
	Get(ctx context.Context, email string) (string, error)
	Set(ctx context.Context, email, passwordHash string) error
}

type RedisCredentialCache struct {
	client *redis.Client
}

func NewRedisCredentialCache(client *redis.Client) *RedisCredentialCache {
	return &RedisCredentialCache{client: client}
}

func credentialKey(email string) string {
	return fmt.Sprintf("user:%s", email)
}

func (c *RedisCredentialCache) Get(ctx context.Context, email string) (string, error) {
	result, err := c.client.HGetAll(ctx, credentialKey(email)).Result()
	if err != nil {
		return "", err
	}
	hash, ok := result["password"]
	if !ok || hash == "" {
		return "", ErrCacheMiss
	}
	return hash, nil
}

func (c *RedisCredentialCache) Set(ctx context.Context, email, passwordHash string) error {
	return c.client.HSet(ctx, credentialKey(email), map[string]interface{}{
		"email":    email,
		"password": passwordHash,
	}).Err()
}
