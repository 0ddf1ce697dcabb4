package refcache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huzaifaahmed2004/care-coord/internal/doctors"
	"github.com/huzaifaahmed2004/care-coord/pkg/logging"
)

type fakeDoctorStore struct {
	doctor *doctors.Doctor
	err    error
	calls  int
}

func (f *fakeDoctorStore) Get(_ context.Context, _ string) (*doctors.Doctor, error) {
	f.calls++
	return f.doctor, f.err
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return New(client, time.Minute, logging.Default()), mr
}

func TestDoctorReader_ReadThrough(t *testing.T) {
	cache, _ := newTestCache(t)
	store := &fakeDoctorStore{doctor: &doctors.Doctor{ID: "doc-1", Name: "Dr. Ayesha Khan", FeePercentage: 10}}
	reader := NewDoctorReader(cache, store)

	d, err := reader.Get(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "Dr. Ayesha Khan", d.Name)
	assert.Equal(t, 1, store.calls)

	// Second read must be served from Redis.
	_, err = reader.Get(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, 1, store.calls, "second read must not hit the store")
}

func TestDoctorReader_ExpiryReloads(t *testing.T) {
	cache, mr := newTestCache(t)
	store := &fakeDoctorStore{doctor: &doctors.Doctor{ID: "doc-1", Name: "Dr. A"}}
	reader := NewDoctorReader(cache, store)

	_, err := reader.Get(context.Background(), "doc-1")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = reader.Get(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, 2, store.calls, "expected reload after TTL")
}

func TestDoctorReader_PropagatesStoreError(t *testing.T) {
	cache, _ := newTestCache(t)
	store := &fakeDoctorStore{err: doctors.ErrDoctorNotFound}
	reader := NewDoctorReader(cache, store)

	_, err := reader.Get(context.Background(), "doc-missing")
	require.ErrorIs(t, err, doctors.ErrDoctorNotFound)
}

func TestCache_Invalidate(t *testing.T) {
	cache, mr := newTestCache(t)
	store := &fakeDoctorStore{doctor: &doctors.Doctor{ID: "doc-1", Name: "Dr. A"}}
	reader := NewDoctorReader(cache, store)

	_, err := reader.Get(context.Background(), "doc-1")
	require.NoError(t, err)
	require.True(t, mr.Exists(DoctorCacheKey("doc-1")))

	cache.Invalidate(context.Background(), DoctorCacheKey("doc-1"))
	assert.False(t, mr.Exists(DoctorCacheKey("doc-1")))
}

func TestDoctorReader_InvalidateForcesReload(t *testing.T) {
	cache, mr := newTestCache(t)
	store := &fakeDoctorStore{doctor: &doctors.Doctor{ID: "doc-1", Name: "Dr. A", FeePercentage: 10}}
	reader := NewDoctorReader(cache, store)

	_, err := reader.Get(context.Background(), "doc-1")
	require.NoError(t, err)
	require.True(t, mr.Exists(DoctorCacheKey("doc-1")))

	// An admin update changes the fee; invalidation makes the next read
	// see it before the TTL runs out.
	store.doctor = &doctors.Doctor{ID: "doc-1", Name: "Dr. A", FeePercentage: 15}
	reader.Invalidate(context.Background(), "doc-1")
	assert.False(t, mr.Exists(DoctorCacheKey("doc-1")))

	d, err := reader.Get(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, float64(15), d.FeePercentage)
	assert.Equal(t, 2, store.calls)
}
