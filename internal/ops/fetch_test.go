package ops

import (
	"context"
	"testing"

	"github.com/hpungsan/cardex/internal/card"
	"github.com/hpungsan/cardex/internal/errors"
)

func TestFetch_ByID(t *testing.T) {
	database := openTestDB(t)
	seeded := seedCard(t, database, "alice", "01FETCH001", "Team Leadership", "Leadership", card.TypeConcept, 1000)

	output, err := Fetch(context.Background(), database, FetchInput{UserID: "alice", ID: " 01FETCH001 "})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if output.ID != seeded.ID {
		t.Errorf("ID = %q, want %q", output.ID, seeded.ID)
	}
	if output.Content != seeded.Content {
		t.Errorf("Content = %q, want %q", output.Content, seeded.Content)
	}
	if len(output.Attachments) != 1 || output.Attachments[0].OriginalName != "seed.txt" {
		t.Errorf("Attachments = %+v", output.Attachments)
	}
}

func TestFetch_ScopedToUser(t *testing.T) {
	database := openTestDB(t)
	seedCard(t, database, "alice", "01FETCH002", "Private", "General", card.TypeConcept, 1000)

	_, err := Fetch(context.Background(), database, FetchInput{UserID: "bob", ID: "01FETCH002"})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestFetch_Validation(t *testing.T) {
	database := openTestDB(t)

	if _, err := Fetch(context.Background(), database, FetchInput{UserID: "alice"}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("missing id: expected ErrInvalidRequest, got: %v", err)
	}
	if _, err := Fetch(context.Background(), database, FetchInput{ID: "01X"}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("missing user: expected ErrInvalidRequest, got: %v", err)
	}
}
