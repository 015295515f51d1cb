package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the same contract checks against any backend.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "smarthire_jobs")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "smarthire_jobs", []byte(`[{"id":"j1"}]`)))
	got, err := s.Get(ctx, "smarthire_jobs")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"j1"}]`, string(got))

	// overwrite is wholesale
	require.NoError(t, s.Set(ctx, "smarthire_jobs", []byte(`[]`)))
	got, err = s.Get(ctx, "smarthire_jobs")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	require.NoError(t, s.Set(ctx, "smarthire_usage", []byte("7")))
	require.NoError(t, s.Delete(ctx, "smarthire_jobs"))
	_, err = s.Get(ctx, "smarthire_jobs")
	assert.ErrorIs(t, err, ErrNotFound)

	// deleting a missing key is fine
	require.NoError(t, s.Delete(ctx, "smarthire_jobs"))

	usage, err := s.Get(ctx, "smarthire_usage")
	require.NoError(t, err)
	assert.Equal(t, "7", string(usage))
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	exerciseStore(t, s)
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	buf := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", buf))
	buf[0] = 'z'
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "smarthire_candidates", []byte(`[{"id":"c1"}]`)))

	second, err := NewFileStore(dir)
	require.NoError(t, err)
	got, err := second.Get(ctx, "smarthire_candidates")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"c1"}]`, string(got))

	// no temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStore_RejectsPathKeys(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	err = s.Set(context.Background(), "../escape", []byte("x"))
	assert.Error(t, err)
}

func TestNewFileStore_RequiresDir(t *testing.T) {
	_, err := NewFileStore("")
	assert.Error(t, err)
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "smarthire.db"))
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smarthire.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "smarthire_onboarding_completed", []byte("true")))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(ctx, "smarthire_onboarding_completed")
	require.NoError(t, err)
	assert.Equal(t, "true", string(got))
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)

	s, err := NewRedisStore(context.Background(), RedisOptions{Addr: mr.Addr(), Prefix: "test:"})
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestRedisStore_UsesPrefix(t *testing.T) {
	mr := miniredis.RunT(t)

	s, err := NewRedisStore(context.Background(), RedisOptions{Addr: mr.Addr(), Prefix: "sh:"})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(context.Background(), "smarthire_usage", []byte("3")))
	got, err := mr.Get("sh:smarthire_usage")
	require.NoError(t, err)
	assert.Equal(t, "3", got)
}

func TestRedisStore_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewRedisStore(context.Background(), RedisOptions{Addr: addr})
	assert.Error(t, err)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	s, err := ConnectPostgres(context.Background(), dsn)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	_ = s.Delete(ctx, "smarthire_jobs")
	_ = s.Delete(ctx, "smarthire_usage")
	exerciseStore(t, s)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Config{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(ctx, Config{Backend: BackendFile, DataDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = Open(ctx, Config{Backend: BackendSQLite, SQLitePath: filepath.Join(t.TempDir(), "kv.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	s.Close()

	mr := miniredis.RunT(t)
	s, err = Open(ctx, Config{Backend: BackendRedis, RedisAddr: mr.Addr()})
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, s)
	s.Close()

	s, err = Open(ctx, Config{Backend: "etcd"})
	assert.Error(t, err)
	assert.Nil(t, s)

	s, err = Open(ctx, Config{Backend: BackendFile})
	assert.Error(t, err)
	assert.Nil(t, s, "failed constructor must not leak a typed nil")
}
