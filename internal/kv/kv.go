// Package kv provides the durable key-value byte store that mirrors application state.
package kv

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("kv: key not found")

// Store is a flat key-value byte store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config selects and configures a backend.
type Config struct {
	Backend       string
	DataDir       string // file
	SQLitePath    string // sqlite
	DatabaseURL   string // postgres
	RedisAddr     string // redis
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// Open creates the backend named by cfg.Backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile, "":
		s, err = asStore(NewFileStore(cfg.DataDir))
	case BackendSQLite:
		s, err = asStore(NewSQLiteStore(cfg.SQLitePath))
	case BackendPostgres:
		s, err = asStore(ConnectPostgres(ctx, cfg.DatabaseURL))
	case BackendRedis:
		s, err = asStore(NewRedisStore(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		}))
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// asStore drops the concrete type so a failed constructor yields a nil interface.
func asStore[T Store](s T, err error) (Store, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}
