package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/lijamez/tonbot-plugin-trivia/internal/domain"
)

// PackLoader fetches pack content from a backing store (Postgres, SQLite, ...).
type PackLoader interface {
	LoadPack(ctx context.Context, name string) (domain.Pack, error)
	ListPacks(ctx context.Context) ([]string, error)
}

// PackRepository caches whole pack documents in Redis and falls back to a
// loader on cache miss. Rounds need the full question payloads (choices,
// acceptable answers, media refs), so the cache stores the pack as one JSON
// value: SET trivia:pack:{name} {json}.
type PackRepository struct {
	client *redis.Client
	loader PackLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewPackRepository(client *redis.Client, loader PackLoader, ttl time.Duration) *PackRepository {
	return &PackRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *PackRepository) GetPack(ctx context.Context, name string) (domain.Pack, error) {
	key := r.packKey(name)

	if raw, err := r.client.Get(ctx, key).Bytes(); err == nil {
		var pack domain.Pack
		if err := json.Unmarshal(raw, &pack); err == nil {
			return pack, nil
		}
		// Corrupt cache entry; fall through and reload.
	}

	result, err, _ := r.sf.Do(name, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if raw, err := r.client.Get(ctx, key).Bytes(); err == nil {
			var pack domain.Pack
			if err := json.Unmarshal(raw, &pack); err == nil {
				return pack, nil
			}
		}

		pack, err := r.loader.LoadPack(ctx, name)
		if err != nil {
			return domain.Pack{}, err
		}

		if raw, err := json.Marshal(pack); err == nil {
			_ = r.client.Set(ctx, key, raw, r.ttlWithJitter()).Err()
		}
		return pack, nil
	})
	if err != nil {
		return domain.Pack{}, err
	}
	return result.(domain.Pack), nil
}

// ListPacks always asks the backing store; names are cheap to list and the
// set changes when packs are installed.
func (r *PackRepository) ListPacks(ctx context.Context) ([]string, error) {
	return r.loader.ListPacks(ctx)
}

func (r *PackRepository) packKey(name string) string {
	return "trivia:pack:" + name
}

func (r *PackRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
