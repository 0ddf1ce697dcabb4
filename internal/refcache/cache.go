// Package refcache provides a Redis read-through cache for reference data
// that changes rarely but is read on every booking: doctor and department
// records. Misses fall through to the backing store and populate the cache
// with a TTL; Redis outages degrade to direct reads.
package refcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/huzaifaahmed2004/care-coord/internal/departments"
	"github.com/huzaifaahmed2004/care-coord/internal/doctors"
	"github.com/huzaifaahmed2004/care-coord/pkg/logging"
)

const defaultTTL = 5 * time.Minute

type Cache struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
	logger *logging.Logger
}

func New(client *redis.Client, ttl time.Duration, logger *logging.Logger) *Cache {
	if client == nil {
		panic("refcache: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Cache{
		redis:  client,
		ttl:    ttl,
		tracer: otel.Tracer("carecoord.internal.refcache"),
		logger: logger,
	}
}

func doctorKey(id string) string     { return fmt.Sprintf("refdata:doctor:%s", id) }
func departmentKey(id string) string { return fmt.Sprintf("refdata:department:%s", id) }

// getOrLoad fills dst from the cache, or loads raw bytes from load and
// caches them. Cache read and write failures other than a miss are logged
// and treated as misses.
func (c *Cache) getOrLoad(ctx context.Context, key string, dst any, load func(context.Context) (any, error)) error {
	ctx, span := c.tracer.Start(ctx, "refcache.get_or_load")
	defer span.End()

	data, err := c.redis.Get(ctx, key).Bytes()
	if err == nil {
		return json.Unmarshal(data, dst)
	}
	if err != redis.Nil {
		span.RecordError(err)
		c.logger.Warn("reference cache read failed, falling through", "key", key, "error", err)
	}

	value, err := load(ctx)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("refcache: failed to encode value: %w", err)
	}
	if err := c.redis.Set(ctx, key, encoded, c.ttl).Err(); err != nil {
		c.logger.Warn("reference cache write failed", "key", key, "error", err)
	}
	return json.Unmarshal(encoded, dst)
}

// Invalidate drops cached entries, used after admin writes.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("reference cache invalidation failed", "error", err)
	}
}

// DoctorReader serves doctor lookups through the cache.
type DoctorReader struct {
	cache *Cache
	store doctorStore
}

type doctorStore interface {
	Get(ctx context.Context, id string) (*doctors.Doctor, error)
}

func NewDoctorReader(cache *Cache, store doctorStore) *DoctorReader {
	return &DoctorReader{cache: cache, store: store}
}

func (r *DoctorReader) Get(ctx context.Context, id string) (*doctors.Doctor, error) {
	var d doctors.Doctor
	err := r.cache.getOrLoad(ctx, doctorKey(id), &d, func(ctx context.Context) (any, error) {
		return r.store.Get(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Invalidate drops the cached record so the next read sees an admin write.
func (r *DoctorReader) Invalidate(ctx context.Context, id string) {
	r.cache.Invalidate(ctx, doctorKey(id))
}

// DepartmentReader serves department lookups through the cache.
type DepartmentReader struct {
	cache *Cache
	store departmentStore
}

type departmentStore interface {
	Get(ctx context.Context, id string) (*departments.Department, error)
}

func NewDepartmentReader(cache *Cache, store departmentStore) *DepartmentReader {
	return &DepartmentReader{cache: cache, store: store}
}

func (r *DepartmentReader) Get(ctx context.Context, id string) (*departments.Department, error) {
	var d departments.Department
	err := r.cache.getOrLoad(ctx, departmentKey(id), &d, func(ctx context.Context) (any, error) {
		return r.store.Get(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Invalidate drops the cached record so the next read sees an admin write.
func (r *DepartmentReader) Invalidate(ctx context.Context, id string) {
	r.cache.Invalidate(ctx, departmentKey(id))
}

// DoctorCacheKey and DepartmentCacheKey expose the key layout so admin
// handlers can invalidate after updates.
func DoctorCacheKey(id string) string     { return doctorKey(id) }
func DepartmentCacheKey(id string) string { return departmentKey(id) }
