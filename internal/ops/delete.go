package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/cardex/internal/db"
)

// DeleteInput contains parameters for the Delete operation.
type DeleteInput struct {
	UserID string // required
	ID     string
}

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// Delete permanently removes one of the user's cards. Stored upload copies
// are kept, since other cards may still reference them.
func Delete(ctx context.Context, database *sql.DB, input DeleteInput) (*DeleteOutput, error) {
	userID, id, err := cardAddress(input.UserID, input.ID)
	if err != nil {
		return nil, err
	}

	if err := db.Delete(ctx, database, userID, id); err != nil {
		return nil, err
	}

	return &DeleteOutput{
		Deleted: true,
		ID:      id,
	}, nil
}
