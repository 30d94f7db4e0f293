package ops

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hpungsan/cardex/internal/card"
	"github.com/hpungsan/cardex/internal/db"
	"github.com/hpungsan/cardex/internal/errors"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	UserID   string // required
	Category string // optional, exact match
	Type     string // optional, one of the card types
	Limit    int    // default: 20, max: 100
	Offset   int    // default: 0
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []card.Summary `json:"items"`
	Pagination Pagination     `json:"pagination"`
	Sort       string         `json:"sort"`
}

// listFilter validates the user/category/type filter shared by List and Export.
func listFilter(userID, category, typ string) (db.ListFilter, error) {
	if userID = strings.TrimSpace(userID); userID == "" {
		return db.ListFilter{}, errors.NewInvalidRequest("user_id is required")
	}
	t := card.Type(strings.ToLower(strings.TrimSpace(typ)))
	if t != "" && !t.Valid() {
		return db.ListFilter{}, errors.NewInvalidRequest(fmt.Sprintf("unknown card type %q", typ))
	}
	return db.ListFilter{UserID: userID, Category: strings.TrimSpace(category), Type: t}, nil
}

// List retrieves card summaries for a user, most recently updated first.
func List(ctx context.Context, database *sql.DB, input ListInput) (*ListOutput, error) {
	filter, err := listFilter(input.UserID, input.Category, input.Type)
	if err != nil {
		return nil, err
	}
	limit, offset := clampPage(input.Limit, input.Offset)

	cards, total, err := db.List(ctx, database, filter, limit, offset)
	if err != nil {
		return nil, err
	}

	// Ensure we return an empty array rather than nil
	items := make([]card.Summary, 0, len(cards))
	for i := range cards {
		items = append(items, card.Summarize(&cards[i]))
	}

	return &ListOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(items) < total,
			Total:   total,
		},
		Sort: "updated_at_desc",
	}, nil
}
