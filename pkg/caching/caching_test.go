package caching

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	calls int
	body  []byte
	err   error
}

func (s *countingSource) GetHTMLBytes(context.Context, string) ([]byte, error) {
	s.calls++
	return s.body, s.err
}

func TestCache_GetSet(t *testing.T) {
	c, err := NewCache(filepath.Join(t.TempDir(), "pages"), time.Hour)
	require.NoError(t, err)

	_, ok := c.Get("https://example.com/a")
	assert.False(t, ok)

	require.NoError(t, c.Set("https://example.com/a", []byte("<p>a</p>")))
	data, ok := c.Get("https://example.com/a")
	require.True(t, ok)
	assert.Equal(t, "<p>a</p>", string(data))

	_, ok = c.Get("https://example.com/b")
	assert.False(t, ok)
}

func TestCache_Expired(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Minute)
	require.NoError(t, err)

	require.NoError(t, c.Set("u", []byte("x")))
	old := time.Now().Add(-2 * time.Minute)
	require.NoError(t, os.Chtimes(c.file("u"), old, old))

	_, ok := c.Get("u")
	assert.False(t, ok)
}

func TestGetter(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Hour)
	require.NoError(t, err)

	src := &countingSource{body: []byte("<html></html>")}
	g := NewGetter(c, src, nil)

	for i := 0; i < 3; i++ {
		data, err := g.GetHTMLBytes(context.Background(), "https://example.com")
		require.NoError(t, err)
		assert.Equal(t, "<html></html>", string(data))
	}
	assert.Equal(t, 1, src.calls)
}

func TestGetter_ErrorsAreNotCached(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Hour)
	require.NoError(t, err)

	boom := errors.New("boom")
	src := &countingSource{err: boom}
	g := NewGetter(c, src, nil)

	_, err = g.GetHTMLBytes(context.Background(), "https://example.com")
	assert.ErrorIs(t, err, boom)
	_, err = g.GetHTMLBytes(context.Background(), "https://example.com")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, src.calls)
}
