package services

import (
	"testing"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	assert.Equal(t, `["a","b"]`, stripFences("```json\n[\"a\",\"b\"]\n```"))
	assert.Equal(t, `["a","b"]`, stripFences("```\n[\"a\",\"b\"]\n```"))
	assert.Equal(t, `["a","b"]`, stripFences(`["a","b"]`))
}

func TestBundleCacheReplacedWholesale(t *testing.T) {
	key := bundleKey("user-1", "doc-1")

	first := &ContentBundle{DocumentID: "doc-1", Summary: "first", GeneratedAt: time.Now()}
	bundles.Set(key, first, gocache.DefaultExpiration)

	got, ok := GetBundle("user-1", "doc-1")
	require.True(t, ok)
	assert.Equal(t, "first", got.Summary)

	// regeneration stores a whole new bundle under the same key
	second := &ContentBundle{DocumentID: "doc-1", Summary: "second", GeneratedAt: time.Now()}
	bundles.Set(key, second, gocache.DefaultExpiration)

	got, ok = GetBundle("user-1", "doc-1")
	require.True(t, ok)
	assert.Equal(t, "second", got.Summary)
}

func TestBundleScopedPerUser(t *testing.T) {
	bundles.Set(bundleKey("user-a", "doc-x"), &ContentBundle{Summary: "a"}, gocache.DefaultExpiration)

	_, ok := GetBundle("user-b", "doc-x")
	assert.False(t, ok)
}

func TestDropBundle(t *testing.T) {
	bundles.Set(bundleKey("user-c", "doc-y"), &ContentBundle{Summary: "c"}, gocache.DefaultExpiration)

	DropBundle("user-c", "doc-y")
	_, ok := GetBundle("user-c", "doc-y")
	assert.False(t, ok)

	// dropping again is harmless
	DropBundle("user-c", "doc-y")
}
