package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

type KeyType interface {
	string | uuid.UUID
}

// CacheBuilder is the fluent entry point for every cache operation. Keys are
// namespaced via WithHashPattern ("session:%s" and friends), values are
// JSON, and every call runs under its own timeout context.
type CacheBuilder struct {
	cache      valkey.Client
	key        string
	value      string
	ttl        time.Duration
	ctx        context.Context
	ctxTimeout time.Duration
	err        error
}

func NewCacheBuilder[K KeyType](cache valkey.Client, key K) *CacheBuilder {
	cacheBuilder := CacheBuilder{
		cache:      cache,
		ttl:        1 * time.Hour,
		ctxTimeout: 5 * time.Second,
		ctx:        context.Background(),
	}

	switch any(key).(type) {
	case string:
		cacheBuilder.key = any(key).(string)
	case uuid.UUID:
		cacheBuilder.key = any(key).(uuid.UUID).String()
	}

	return &cacheBuilder
}

func (c *CacheBuilder) WithValue(value string) *CacheBuilder {
	c.value = value
	return c
}

func (c *CacheBuilder) WithStruct(value any) *CacheBuilder {
	bytes, err := json.Marshal(value)
	if err != nil {
		c.err = fmt.Errorf("failed to marshal value to json: %w", err)
		return c
	}

	c.value = string(bytes)
	return c
}

func (cb *CacheBuilder) WithHashPattern(hashPattern string) *CacheBuilder {
	if hashPattern != "" {
		cb.key = fmt.Sprintf(hashPattern, cb.key)
	}

	return cb
}

func (cb *CacheBuilder) WithTTL(ttl time.Duration) *CacheBuilder {
	cb.ttl = ttl
	return cb
}

func (cb *CacheBuilder) WithContext(ctx context.Context) *CacheBuilder {
	cb.ctx = ctx
	return cb
}

func (cb *CacheBuilder) WithTimeout(timeout time.Duration) *CacheBuilder {
	cb.ctxTimeout = timeout
	return cb
}

func (cb *CacheBuilder) Set() error {
	if cb.err != nil {
		return cb.err
	}

	ctx, cancel := cb.createTimeoutContext()
	defer cancel()

	if cb.key == "" {
		return fmt.Errorf("key is required")
	}

	if cb.value == "" {
		return fmt.Errorf("value is required")
	}

	return cb.cache.Do(ctx, cb.cache.B().Set().Key(cb.key).Value(cb.value).Ex(cb.ttl).Build()).
		Error()
}

func (cb *CacheBuilder) Get(result any) (bool, error) {
	if cb.err != nil {
		return false, cb.err
	}

	if cb.key == "" {
		return false, fmt.Errorf("key is required")
	}

	ctx, cancel := cb.createTimeoutContext()
	defer cancel()

	data, err := cb.cache.Do(ctx, cb.cache.B().Get().Key(cb.key).Build()).ToString()
	if err != nil {
		if isKeyNotFoundError(err) {
			return false, nil
		}
		return false, err
	}

	if data == "" {
		return false, nil
	}

	err = json.Unmarshal([]byte(data), result)
	if err != nil {
		return false, err
	}

	return true, nil
}

func (cb *CacheBuilder) Delete() error {
	if cb.err != nil {
		return cb.err
	}

	ctx, cancel := cb.createTimeoutContext()
	defer cancel()

	return cb.cache.Do(ctx, cb.cache.B().Del().Key(cb.key).Build()).Error()
}

func (cb *CacheBuilder) createTimeoutContext() (context.Context, context.CancelFunc) {
	if deadline, ok := cb.ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return context.WithCancel(cb.ctx)
		}
		if remaining < cb.ctxTimeout {
			return context.WithCancel(cb.ctx)
		}
	}
	return context.WithTimeout(cb.ctx, cb.ctxTimeout)
}

// isKeyNotFoundError checks if the error is a "key not found" error from Valkey/Redis
func isKeyNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	return strings.Contains(errStr, "key not found") ||
		strings.Contains(errStr, "nil") ||
		valkey.IsValkeyNil(err)
}
