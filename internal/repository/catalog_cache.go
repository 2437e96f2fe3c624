package repository

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"campus-merch-store/internal/model"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type cachedMerchandiseRepo struct {
	MerchandiseRepository
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

// NewCachedMerchandiseRepository serves Search results from redis for ttl.
// A nil client returns repo unchanged. Cache failures fall through to repo.
func NewCachedMerchandiseRepository(repo MerchandiseRepository, rdb *redis.Client, ttl time.Duration, log *zap.Logger) MerchandiseRepository {
	if rdb == nil || ttl <= 0 {
		return repo
	}
	return &cachedMerchandiseRepo{
		MerchandiseRepository: repo,
		rdb:                   rdb,
		ttl:                   ttl,
		log:                   log,
	}
}

func searchCacheKey(nameQuery string) string {
	q := strings.ToLower(strings.TrimSpace(nameQuery))
	return fmt.Sprintf("merchandises:search:%x", md5.Sum([]byte(q)))
}

func (r *cachedMerchandiseRepo) Search(ctx context.Context, nameQuery string) ([]*model.Merchandise, error) {
	key := searchCacheKey(nameQuery)

	val, err := r.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var merch []*model.Merchandise
		if err := json.Unmarshal(val, &merch); err == nil {
			return merch, nil
		}
	} else if err != redis.Nil {
		r.log.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
	}

	merch, err := r.MerchandiseRepository.Search(ctx, nameQuery)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(merch); err == nil {
		if err := r.rdb.Set(ctx, key, data, r.ttl).Err(); err != nil {
			r.log.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return merch, nil
}
