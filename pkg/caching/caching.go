// Package caching keeps fetched pages on disk so repeated publish runs do
// not hit the same site again within the TTL.
package caching

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Cache is a file-based cache keyed by URL with a TTL.
type Cache struct {
	path string
	ttl  time.Duration
}

// NewCache creates the cache directory if it does not exist.
func NewCache(path string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{path: path, ttl: ttl}, nil
}

func (c *Cache) file(url string) string {
	return filepath.Join(c.path, fmt.Sprintf("%x.html", sha256.Sum256([]byte(url))))
}

// Get returns the cached page and true when it exists and has not expired.
func (c *Cache) Get(url string) ([]byte, bool) {
	name := c.file(url)

	info, err := os.Stat(name)
	if err != nil {
		return nil, false
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return nil, false
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *Cache) Set(url string, data []byte) error {
	if err := os.WriteFile(c.file(url), data, 0644); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}

// Source is anything that fetches a page body by URL.
type Source interface {
	GetHTMLBytes(ctx context.Context, url string) ([]byte, error)
}

// Getter serves pages from the cache and falls back to its source. Only
// successful fetches are stored.
type Getter struct {
	cache  *Cache
	source Source
	logger *slog.Logger
}

func NewGetter(cache *Cache, source Source, logger *slog.Logger) *Getter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Getter{cache: cache, source: source, logger: logger}
}

func (g *Getter) GetHTMLBytes(ctx context.Context, url string) ([]byte, error) {
	if data, ok := g.cache.Get(url); ok {
		g.logger.Debug("Cache hit", "url", url)
		return data, nil
	}

	data, err := g.source.GetHTMLBytes(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := g.cache.Set(url, data); err != nil {
		g.logger.Warn("Failed to cache page", "url", url, "error", err)
	}
	return data, nil
}
