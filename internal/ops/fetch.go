package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hpungsan/cardex/internal/card"
	"github.com/hpungsan/cardex/internal/db"
	"github.com/hpungsan/cardex/internal/errors"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	UserID string // required
	ID     string
}

// FetchOutput contains the result of the Fetch operation.
type FetchOutput struct {
	card.Card // embedded (copy, not pointer)
}

// Fetch retrieves one of the user's cards by ID.
func Fetch(ctx context.Context, database *sql.DB, input FetchInput) (*FetchOutput, error) {
	userID, id, err := cardAddress(input.UserID, input.ID)
	if err != nil {
		return nil, err
	}

	c, err := db.GetByID(ctx, database, userID, id)
	if err != nil {
		return nil, err
	}
	return &FetchOutput{Card: *c}, nil
}

// cardAddress validates a (user, id) pair.
func cardAddress(userID, id string) (string, string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "", errors.NewInvalidRequest("id is required")
	}
	if userID = strings.TrimSpace(userID); userID == "" {
		return "", "", errors.NewInvalidRequest("user_id is required")
	}
	return userID, id, nil
}
