package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	AccessTokenPrefix  = "access_token"
	RefreshTokenPrefix = "refresh_token"

	// Keys are scanned and deleted in batches so revoking never loads a whole keyspace.
	revokeBatchSize = 500
)

// TokenStore keeps the allow-list of issued token ids in Redis. A token is valid only
// while its key exists; keys expire with the token.
type TokenStore struct {
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewTokenStore(redisClient *redis.Client, log *logrus.Logger) *TokenStore {
	return &TokenStore{
		redisClient: redisClient,
		log:         log,
	}
}

func AccessKey(userID uint, tokenID string) string {
	return fmt.Sprintf("%s:%d:%s", AccessTokenPrefix, userID, tokenID)
}

func RefreshKey(userID uint, tokenID string) string {
	return fmt.Sprintf("%s:%d:%s", RefreshTokenPrefix, userID, tokenID)
}

// StorePair registers an access and a refresh token in one transaction.
func (s *TokenStore) StorePair(ctx context.Context, userID uint, accessID string, accessTTL time.Duration, refreshID string, refreshTTL time.Duration) error {
	pipe := s.redisClient.TxPipeline()
	pipe.Set(ctx, AccessKey(userID, accessID), "valid", accessTTL)
	pipe.Set(ctx, RefreshKey(userID, refreshID), "valid", refreshTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store token pair for user %d: %w", userID, err)
	}
	return nil
}

func (s *TokenStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.redisClient.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *TokenStore) Revoke(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.redisClient.Del(ctx, keys...).Err()
}

// RevokeAll drops every access and refresh token of the user.
func (s *TokenStore) RevokeAll(ctx context.Context, userID uint) error {
	revoked := 0
	for _, prefix := range []string{AccessTokenPrefix, RefreshTokenPrefix} {
		n, err := s.deleteMatching(ctx, fmt.Sprintf("%s:%d:*", prefix, userID))
		if err != nil {
			return err
		}
		revoked += n
	}
	s.log.Infof("Revoked %d tokens of user %d", revoked, userID)
	return nil
}

func (s *TokenStore) deleteMatching(ctx context.Context, pattern string) (int, error) {
	var cursor uint64
	deleted := 0
	for {
		keys, next, err := s.redisClient.Scan(ctx, cursor, pattern, revokeBatchSize).Result()
		if err != nil {
			return deleted, fmt.Errorf("scan %s: %w", pattern, err)
		}
		if len(keys) > 0 {
			if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
				return deleted, fmt.Errorf("delete %s: %w", pattern, err)
			}
			deleted += len(keys)
		}
		if next == 0 {
			return deleted, nil
		}
		cursor = next

		select {
		case <-ctx.Done():
			return deleted, ctx.Err()
		default:
		}
	}
}
