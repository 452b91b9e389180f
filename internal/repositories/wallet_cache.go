package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/logger"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/models"
)

// WalletCacheRepository caches wallet snapshots in Redis.
type WalletCacheRepository struct {
	client *redis.Client
	exp    time.Duration // expiration of cached snapshots
}

// NewWalletCacheRepository creates a cache with the given TTL.
func NewWalletCacheRepository(client *redis.Client, expiration time.Duration) *WalletCacheRepository {
	return &WalletCacheRepository{
		client: client,
		exp:    expiration,
	}
}

func walletCacheKey(userID string) string {
	return "wallet:" + userID
}

// Get returns the cached wallet of userID or models.ErrNotFound on a miss.
func (r *WalletCacheRepository) Get(ctx context.Context, userID string) (*models.Wallet, error) {
	key := walletCacheKey(userID)

	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		logger.Log.Debugw("wallet cache read", "key", key, "error", err)
		if errors.Is(err, redis.Nil) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}

	var w models.Wallet
	if err := json.Unmarshal(val, &w); err != nil {
		logger.Log.Warnw("wallet cache entry is corrupt", "key", key, "error", err)
		return nil, models.ErrNotFound
	}
	return &w, nil
}

// Set stores w for the configured TTL.
func (r *WalletCacheRepository) Set(ctx context.Context, w *models.Wallet) error {
	key := walletCacheKey(w.UserID)

	data, err := json.Marshal(w)
	if err != nil {
		return err
	}
	err = r.client.Set(ctx, key, data, r.exp).Err()
	logger.Log.Debugw("wallet cache write", "key", key, "error", err)
	return err
}

// Invalidate drops the cached wallet of userID.
func (r *WalletCacheRepository) Invalidate(ctx context.Context, userID string) error {
	key := walletCacheKey(userID)
	err := r.client.Del(ctx, key).Err()
	logger.Log.Debugw("wallet cache invalidate", "key", key, "error", err)
	return err
}
