package db

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/hpungsan/cardex/internal/card"
	"github.com/hpungsan/cardex/internal/dedupe"
	"github.com/hpungsan/cardex/internal/errors"
)

// newTestCard creates a card with default values for testing.
func newTestCard(id, userID, title, content string) *card.Card {
	now := time.Now().Unix()
	return &card.Card{
		ID:          id,
		UserID:      userID,
		Title:       title,
		Content:     content,
		ContentHash: card.ContentHash(title, content),
		Type:        card.TypeConcept,
		Category:    card.DefaultCategory,
		Tags:        []string{},
		Attachments: []card.Attachment{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInsertAndGetByID(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	c := newTestCard("01ABC123", "u1", "Test Title", "Test content")
	c.Type = card.TypeQuote
	c.Category = "Leadership"
	c.Tags = []string{"tag1", "tag2"}
	c.Source = "notes.txt"
	c.Metadata = &card.RowMetadata{
		Row: 2, Sheet: "Sheet1", Columns: 2,
		Schema: []string{"A", "B"},
		Data:   map[string]string{"A": "x", "B": "y"},
	}
	c.Attachments = []card.Attachment{{Filename: "file-1.txt", OriginalName: "notes.txt", MIMEType: "text/plain", Size: 12, Path: "/tmp/file-1.txt"}}

	if err := Insert(ctx, db, c); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := GetByID(ctx, db, "u1", "01ABC123")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	if got.Title != c.Title || got.Content != c.Content || got.ContentHash != c.ContentHash {
		t.Errorf("got %+v, want %+v", got, c)
	}
	if got.Type != card.TypeQuote || got.Category != "Leadership" {
		t.Errorf("Type/Category = %s/%s", got.Type, got.Category)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "tag1" {
		t.Errorf("Tags = %v, want %v", got.Tags, c.Tags)
	}
	if got.Source != "notes.txt" {
		t.Errorf("Source = %q", got.Source)
	}
	if got.Metadata == nil || got.Metadata.Sheet != "Sheet1" || got.Metadata.Data["B"] != "y" {
		t.Errorf("Metadata = %+v", got.Metadata)
	}
	if len(got.Attachments) != 1 || got.Attachments[0].OriginalName != "notes.txt" {
		t.Errorf("Attachments = %+v", got.Attachments)
	}
}

func TestInsert_EmptyCollections(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	c := newTestCard("01A", "u1", "t", "c")
	c.Tags = nil
	c.Attachments = nil
	if err := Insert(ctx, db, c); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := GetByID(ctx, db, "u1", "01A")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Tags == nil || len(got.Tags) != 0 {
		t.Errorf("Tags = %#v, want empty non-nil", got.Tags)
	}
	if got.Attachments == nil || len(got.Attachments) != 0 {
		t.Errorf("Attachments = %#v, want empty non-nil", got.Attachments)
	}
	if got.Metadata != nil {
		t.Errorf("Metadata = %+v, want nil", got.Metadata)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	db := openTestDB(t)

	_, err := GetByID(context.Background(), db, "u1", "nonexistent")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("GetByID should return ErrNotFound, got: %v", err)
	}
}

func TestGetByID_OtherUser(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	if err := Insert(ctx, db, newTestCard("01A", "u1", "t", "c")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if _, err := GetByID(ctx, db, "u2", "01A"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("other users must not see the card, got: %v", err)
	}
}

func TestInsert_UniqueConstraint(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	if err := Insert(ctx, db, newTestCard("01A", "u1", "Same", "Body")); err != nil {
		t.Fatalf("first Insert failed: %v", err)
	}

	// same hash, same user
	err := Insert(ctx, db, newTestCard("01B", "u1", " same ", "BODY"))
	if err != ErrUniqueConstraint {
		t.Errorf("Insert duplicate hash: got %v, want ErrUniqueConstraint", err)
	}

	// same hash, different user is fine
	if err := Insert(ctx, db, newTestCard("01C", "u2", "Same", "Body")); err != nil {
		t.Errorf("Insert for other user failed: %v", err)
	}
}

func TestFindIDByHash(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	c := newTestCard("01A", "u1", "Title", "Body")
	if err := Insert(ctx, db, c); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	id, found, err := FindIDByHash(ctx, db, "u1", c.ContentHash)
	if err != nil || !found || id != "01A" {
		t.Errorf("FindIDByHash = %q, %v, %v", id, found, err)
	}

	_, found, err = FindIDByHash(ctx, db, "u2", c.ContentHash)
	if err != nil || found {
		t.Errorf("FindIDByHash other user = %v, %v; want not found", found, err)
	}
}

func TestHashIndex_WithResolve(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	d := card.Draft{Title: "Title", Content: "Body", Type: card.TypeConcept, Category: "General"}
	idx := HashIndex{DB: db}

	dec, err := dedupe.Resolve(ctx, d, "u1", idx)
	if err != nil || dec.Action != dedupe.ActionCreate {
		t.Fatalf("Resolve before insert = %+v, %v", dec, err)
	}

	if err := Insert(ctx, db, newTestCard("01A", "u1", d.Title, d.Content)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	dec, err = dedupe.Resolve(ctx, d, "u1", idx)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if dec.Action != dedupe.ActionMerge || dec.ExistingID != "01A" {
		t.Errorf("Resolve after insert = %+v", dec)
	}
}

func TestUpdateMerge(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	c := newTestCard("01A", "u1", "t", "c")
	c.Source = "a.txt"
	c.UpdatedAt = 100
	if err := Insert(ctx, db, c); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	c.Source = "a.txt, b.txt"
	c.Attachments = append(c.Attachments, card.Attachment{Filename: "f", OriginalName: "b.txt"})
	c.Title = "ignored"
	if err := UpdateMerge(ctx, db, c); err != nil {
		t.Fatalf("UpdateMerge failed: %v", err)
	}
	if c.UpdatedAt <= 100 {
		t.Errorf("UpdatedAt not refreshed: %d", c.UpdatedAt)
	}

	got, err := GetByID(ctx, db, "u1", "01A")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Source != "a.txt, b.txt" || len(got.Attachments) != 1 {
		t.Errorf("merged card = %+v", got)
	}
	if got.Title != "t" {
		t.Errorf("Title changed to %q, merge must not touch it", got.Title)
	}
}

func TestUpdateMerge_NotFound(t *testing.T) {
	db := openTestDB(t)
	err := UpdateMerge(context.Background(), db, newTestCard("missing", "u1", "t", "c"))
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("UpdateMerge should return ErrNotFound, got: %v", err)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	if err := Insert(ctx, db, newTestCard("01A", "u1", "t", "c")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := Delete(ctx, db, "u2", "01A"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Delete by other user should be NOT_FOUND, got: %v", err)
	}
	if err := Delete(ctx, db, "u1", "01A"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := Delete(ctx, db, "u1", "01A"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("second Delete should be NOT_FOUND, got: %v", err)
	}
}

func TestList_FiltersAndPagination(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	for i := 0; i < 5; i++ {
		c := newTestCard(fmt.Sprintf("01A%d", i), "u1", fmt.Sprintf("title %d", i), "content")
		c.UpdatedAt = int64(1000 + i)
		if i%2 == 0 {
			c.Category = "Data"
			c.Type = card.TypeAction
		}
		if err := Insert(ctx, db, c); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}
	if err := Insert(ctx, db, newTestCard("01B0", "u2", "other", "user")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	cards, total, err := List(ctx, db, ListFilter{UserID: "u1"}, 2, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 5 || len(cards) != 2 {
		t.Fatalf("List = %d cards, total %d; want 2, 5", len(cards), total)
	}
	if cards[0].ID != "01A4" || cards[1].ID != "01A3" {
		t.Errorf("order = %s, %s; want most recently updated first", cards[0].ID, cards[1].ID)
	}

	cards, _, err = List(ctx, db, ListFilter{UserID: "u1"}, 2, 4)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(cards) != 1 || cards[0].ID != "01A0" {
		t.Errorf("last page = %v", cards)
	}

	_, total, err = List(ctx, db, ListFilter{UserID: "u1", Category: "Data"}, 10, 0)
	if err != nil || total != 3 {
		t.Errorf("category filter total = %d, %v; want 3", total, err)
	}
	_, total, err = List(ctx, db, ListFilter{UserID: "u1", Category: "Data", Type: card.TypeConcept}, 10, 0)
	if err != nil || total != 0 {
		t.Errorf("category+type filter total = %d, %v; want 0", total, err)
	}
}

func TestListAll(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	for i := 0; i < 3; i++ {
		c := newTestCard(fmt.Sprintf("01A%d", i), "u1", fmt.Sprintf("title %d", i), "content")
		c.CreatedAt = int64(3 - i)
		if err := Insert(ctx, db, c); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	cards, err := ListAll(ctx, db, ListFilter{UserID: "u1"})
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(cards) != 3 || cards[0].ID != "01A2" || cards[2].ID != "01A0" {
		t.Errorf("ListAll order = %v", cards)
	}

	cards, err = ListAll(ctx, db, ListFilter{UserID: "nobody"})
	if err != nil || len(cards) != 0 {
		t.Errorf("ListAll(nobody) = %v, %v", cards, err)
	}
}
