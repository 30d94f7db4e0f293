package dedupe

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/cardex/internal/card"
)

func draft(title, content string) card.Draft {
	return card.Draft{Title: title, Content: content, Type: card.TypeConcept, Category: "General"}
}

func TestResolve_CreateThenMerge(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()
	d := draft("Title", "Body")

	dec, err := Resolve(ctx, d, "u1", idx)
	require.NoError(t, err)
	assert.Equal(t, ActionCreate, dec.Action)
	assert.Empty(t, dec.ExistingID)
	assert.Equal(t, d.Hash(), dec.Hash)

	_, claimed := idx.Claim("u1", dec.Hash, "card-1")
	require.True(t, claimed)

	// same content, different case and outer whitespace
	dec, err = Resolve(ctx, draft("  TITLE ", "body\n"), "u1", idx)
	require.NoError(t, err)
	assert.Equal(t, ActionMerge, dec.Action)
	assert.Equal(t, "card-1", dec.ExistingID)
}

func TestResolve_ScopedToUser(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()
	d := draft("Title", "Body")
	idx.Claim("u1", d.Hash(), "card-1")

	dec, err := Resolve(ctx, d, "u2", idx)
	require.NoError(t, err)
	assert.Equal(t, ActionCreate, dec.Action)
}

func TestResolve_InternalWhitespaceIsDistinct(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()
	idx.Claim("u1", draft("t", "a b").Hash(), "card-1")

	dec, err := Resolve(ctx, draft("t", "a  b"), "u1", idx)
	require.NoError(t, err)
	assert.Equal(t, ActionCreate, dec.Action)
}

type failingIndex struct{}

func (failingIndex) FindByHash(context.Context, string, string) (string, bool, error) {
	return "", false, fmt.Errorf("store unavailable")
}

func TestResolve_IndexError(t *testing.T) {
	_, err := Resolve(context.Background(), draft("t", "c"), "u1", failingIndex{})
	assert.EqualError(t, err, "store unavailable")
}

func TestLayered(t *testing.T) {
	ctx := context.Background()
	first, second := NewMemoryIndex(), NewMemoryIndex()
	first.Claim("u", "h1", "a")
	second.Claim("u", "h1", "b")
	second.Claim("u", "h2", "c")

	l := Layered{first, second}
	id, found, err := l.FindByHash(ctx, "u", "h1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "a", id)

	id, found, err = l.FindByHash(ctx, "u", "h2")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "c", id)

	_, found, err = l.FindByHash(ctx, "u", "h3")
	require.NoError(t, err)
	assert.False(t, found)

	_, _, err = Layered{first, failingIndex{}}.FindByHash(ctx, "u", "h3")
	assert.Error(t, err)
}

func TestMemoryIndex_ClaimIsAtomic(t *testing.T) {
	idx := NewMemoryIndex()
	const workers = 32
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, claimed := idx.Claim("u", "same", fmt.Sprintf("id-%d", i)); claimed {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, winners)
	assert.Equal(t, 1, idx.Len())

	holder, claimed := idx.Claim("u", "same", "late")
	assert.False(t, claimed)
	assert.NotEqual(t, "late", holder)
}

func TestMergeSource(t *testing.T) {
	tests := []struct {
		source, file, want string
	}{
		{"a.txt", "b.txt", "a.txt, b.txt"},
		{"a.txt, b.txt", "b.txt", "a.txt, b.txt"},
		{"a.txt", "a.txt", "a.txt"},
		{"", "a.txt", "a.txt"},
		{"a.txt", "", "a.txt"},
		// substring containment counts as present
		{"notes.txt.bak", "notes.txt", "notes.txt.bak"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MergeSource(tt.source, tt.file), "%q + %q", tt.source, tt.file)
	}
}
