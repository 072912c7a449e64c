package featcache

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/neurlang/speechcommands/spectrogram"
)

// Cache keeps recently used spectrograms in an LRU in front of a Store.
type Cache struct {
	*lru.Cache[string, *spectrogram.Spectrogram]
	store Store
}

// New creates a cache of size entries over store. A nil store keeps
// spectrograms in the LRU only.
func New(store Store, size int) (*Cache, error) {
	if size <= 0 {
		size = 1
	}
	lruCache, err := lru.New[string, *spectrogram.Spectrogram](size)
	if err != nil {
		return nil, err
	}
	return &Cache{Cache: lruCache, store: store}, nil
}

// Spectrogram returns the spectrogram cached under key, computing and
// storing it on a miss.
func (c *Cache) Spectrogram(ctx context.Context, key string, compute func(ctx context.Context) (*spectrogram.Spectrogram, error)) (*spectrogram.Spectrogram, error) {
	if s, ok := c.Get(key); ok {
		return s, nil
	}
	if c.store != nil {
		buf, err := c.store.Get(key)
		switch {
		case err == nil:
			var s spectrogram.Spectrogram
			if err := msgpack.Unmarshal(buf, &s); err != nil {
				return nil, fmt.Errorf("featcache: decode %s: %w", key, err)
			}
			c.Add(key, &s)
			return &s, nil
		case !errors.Is(err, ErrNotFound):
			return nil, err
		}
	}

	s, err := compute(ctx)
	if err != nil {
		return nil, err
	}
	c.Add(key, s)
	if c.store != nil {
		buf, err := msgpack.Marshal(s)
		if err != nil {
			return nil, err
		}
		if err := c.store.Set(key, buf); err != nil {
			return nil, fmt.Errorf("featcache: store %s: %w", key, err)
		}
	}
	return s, nil
}

// Close closes the underlying store
func (c *Cache) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}
