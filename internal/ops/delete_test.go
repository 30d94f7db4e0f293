package ops

import (
	"context"
	"testing"

	"github.com/hpungsan/cardex/internal/card"
	"github.com/hpungsan/cardex/internal/errors"
)

func TestDelete_ByID(t *testing.T) {
	database := openTestDB(t)
	seedCard(t, database, "alice", "01DEL001", "Doomed", "General", card.TypeConcept, 1000)

	output, err := Delete(context.Background(), database, DeleteInput{UserID: "alice", ID: "01DEL001"})
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !output.Deleted || output.ID != "01DEL001" {
		t.Errorf("output = %+v, want deleted 01DEL001", output)
	}

	_, err = Fetch(context.Background(), database, FetchInput{UserID: "alice", ID: "01DEL001"})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got: %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	database := openTestDB(t)

	_, err := Delete(context.Background(), database, DeleteInput{UserID: "alice", ID: "01NOPE"})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestDelete_OtherUsersCard(t *testing.T) {
	database := openTestDB(t)
	seedCard(t, database, "alice", "01DEL002", "Kept", "General", card.TypeConcept, 1000)

	_, err := Delete(context.Background(), database, DeleteInput{UserID: "bob", ID: "01DEL002"})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
	if _, err := Fetch(context.Background(), database, FetchInput{UserID: "alice", ID: "01DEL002"}); err != nil {
		t.Errorf("alice's card should survive: %v", err)
	}
}

func TestDelete_ThenReuploadCreates(t *testing.T) {
	env := newTestEnv(t)
	input := UploadInput{FileName: "notes.txt", Data: []byte(notesText)}

	first, err := Upload(context.Background(), env, input)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if _, err := Delete(context.Background(), env.DB, DeleteInput{UserID: "local", ID: first.Cards[0].ID}); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	second, err := Upload(context.Background(), env, input)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if second.Created != 1 || second.Updated != 2 {
		t.Errorf("created/updated = %d/%d, want 1/2", second.Created, second.Updated)
	}
}
