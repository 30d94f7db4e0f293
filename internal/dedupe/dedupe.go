// Package dedupe decides whether a draft creates a new card or merges into
// an existing card with the same content hash for the same user.
package dedupe

import (
	"context"
	"strings"
	"sync"

	"github.com/hpungsan/cardex/internal/card"
)

// Index looks up existing cards by (user, content hash).
type Index interface {
	FindByHash(ctx context.Context, userID, hash string) (id string, found bool, err error)
}

// Action is the outcome of resolving a draft.
type Action string

const (
	ActionCreate Action = "create"
	ActionMerge  Action = "merge"
)

// Decision says what to do with one draft.
type Decision struct {
	Action     Action `json:"action"`
	ExistingID string `json:"existing_id,omitempty"`
	Hash       string `json:"hash"`
}

// Resolve checks d against idx. Each draft is evaluated on its own; the
// caller must make earlier drafts of the same file visible to idx if they
// should count.
func Resolve(ctx context.Context, d card.Draft, userID string, idx Index) (Decision, error) {
	hash := d.Hash()
	id, found, err := idx.FindByHash(ctx, userID, hash)
	if err != nil {
		return Decision{}, err
	}
	if found {
		return Decision{Action: ActionMerge, ExistingID: id, Hash: hash}, nil
	}
	return Decision{Action: ActionCreate, Hash: hash}, nil
}

// MergeSource appends ", <fileName>" to source unless source already contains it.
func MergeSource(source, fileName string) string {
	if fileName == "" || strings.Contains(source, fileName) {
		return source
	}
	if source == "" {
		return fileName
	}
	return source + ", " + fileName
}

type memKey struct {
	user string
	hash string
}

// MemoryIndex is an in-process Index. Claim makes check-and-insert atomic.
type MemoryIndex struct {
	mu  sync.Mutex
	ids map[memKey]string
}

// NewMemoryIndex creates an empty MemoryIndex.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{ids: make(map[memKey]string)}
}

// FindByHash implements Index.
func (m *MemoryIndex) FindByHash(_ context.Context, userID, hash string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.ids[memKey{userID, hash}]
	return id, ok, nil
}

// Claim records id for (userID, hash) unless another id holds it already.
// It returns the holder and whether this call claimed the key.
func (m *MemoryIndex) Claim(userID, hash, id string) (existing string, claimed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := memKey{userID, hash}
	if cur, ok := m.ids[k]; ok {
		return cur, false
	}
	m.ids[k] = id
	return id, true
}

// Len returns the number of claimed keys.
func (m *MemoryIndex) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ids)
}

// Layered checks each index in order and returns the first hit.
type Layered []Index

// FindByHash implements Index.
func (l Layered) FindByHash(ctx context.Context, userID, hash string) (string, bool, error) {
	for _, idx := range l {
		id, found, err := idx.FindByHash(ctx, userID, hash)
		if err != nil {
			return "", false, err
		}
		if found {
			return id, true, nil
		}
	}
	return "", false, nil
}
