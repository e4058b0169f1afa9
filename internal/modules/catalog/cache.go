package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CachedRepository reads products through Redis and evicts them on writes.
// Listings always go to the primary store.
type CachedRepository struct {
	primary Repository
	rdb     *redis.Client
	ttl     time.Duration
	logger  *zap.Logger
}

func NewCachedRepository(primary Repository, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedRepository {
	return &CachedRepository{primary: primary, rdb: rdb, ttl: ttl, logger: logger}
}

func productKey(id string) string { return "product:" + id }

func (r *CachedRepository) GetByID(ctx context.Context, id string) (*Product, error) {
	key := productKey(id)

	if cached, err := r.rdb.Get(ctx, key).Bytes(); err == nil {
		var p Product
		if err := json.Unmarshal(cached, &p); err == nil {
			return &p, nil
		}
	}

	p, err := r.primary.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(p); err == nil {
		if err := r.rdb.Set(ctx, key, data, r.ttl).Err(); err != nil {
			r.logger.Debug("product cache write failed", zap.String("id", id), zap.Error(err))
		}
	}
	return p, nil
}

func (r *CachedRepository) Create(ctx context.Context, p *Product) error {
	return r.primary.Create(ctx, p)
}

func (r *CachedRepository) List(ctx context.Context, f ListFilter) ([]*Product, error) {
	return r.primary.List(ctx, f)
}

func (r *CachedRepository) Update(ctx context.Context, p *Product) error {
	defer r.Evict(ctx, p.ID.String())
	return r.primary.Update(ctx, p)
}

func (r *CachedRepository) SetActive(ctx context.Context, id string, active bool) error {
	defer r.Evict(ctx, id)
	return r.primary.SetActive(ctx, id, active)
}

func (r *CachedRepository) Count(ctx context.Context) (int, error) {
	return r.primary.Count(ctx)
}

// Evict drops a cached product. Stock changes made elsewhere call it too.
func (r *CachedRepository) Evict(ctx context.Context, ids ...string) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(id)
	}
	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		r.logger.Warn("product cache eviction failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
