package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psdshow/vanilla/internal/core/domain"
)

func TestPendingRequestRegistry_SetGetDelete(t *testing.T) {
	r := NewPendingRequestRegistry()
	key := domain.URLKey("https://example.com")
	p := &domain.Placeholder{ID: "n1", Key: key}

	r.Set(key, p)
	got, ok := r.Get(key)
	require.True(t, ok)
	assert.Same(t, p, got)
	assert.Equal(t, 1, r.Len())

	r.Delete(key)
	_, ok = r.Get(key)
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())

	r.Delete(key)
	assert.Equal(t, 0, r.Len())
}

func TestPendingRequestRegistry_SetOverwrites(t *testing.T) {
	r := NewPendingRequestRegistry()
	key := domain.URLKey("https://example.com")
	first := &domain.Placeholder{ID: "n1", Key: key}
	second := &domain.Placeholder{ID: "n2", Key: key}

	r.Set(key, first)
	r.Set(key, second)

	got, ok := r.Get(key)
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, 1, r.Len())
}

func TestPendingRequestRegistry_FileKeysUseIdentity(t *testing.T) {
	r := NewPendingRequestRegistry()
	a := &domain.File{Name: "cat.png", Content: []byte("x")}
	b := &domain.File{Name: "cat.png", Content: []byte("x")}

	r.Set(domain.FileKey(a), &domain.Placeholder{ID: "a"})
	r.Set(domain.FileKey(b), &domain.Placeholder{ID: "b"})
	assert.Equal(t, 2, r.Len())

	got, ok := r.Get(domain.FileKey(a))
	require.True(t, ok)
	assert.Equal(t, domain.NodeID("a"), got.ID)
}

func TestPendingRequestRegistry_Keys_Sorted(t *testing.T) {
	r := NewPendingRequestRegistry()
	r.Set(domain.URLKey("https://b.example.com"), &domain.Placeholder{})
	r.Set(domain.URLKey("https://a.example.com"), &domain.Placeholder{})
	r.Set(domain.FileKey(&domain.File{Name: "z.png"}), &domain.Placeholder{})

	keys := r.Keys()
	require.Len(t, keys, 3)
	assert.Equal(t, "file:z.png", keys[0].String())
	assert.Equal(t, "url:https://a.example.com", keys[1].String())
	assert.Equal(t, "url:https://b.example.com", keys[2].String())
}
