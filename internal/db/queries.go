package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/hpungsan/cardex/internal/card"
	"github.com/hpungsan/cardex/internal/errors"
)

// ErrUniqueConstraint is returned when an insert violates a UNIQUE constraint.
var ErrUniqueConstraint = &errors.CardexError{
	Code:    "UNIQUE_CONSTRAINT",
	Status:  409,
	Message: "unique constraint violation",
}

const cardColumns = `
	id, user_id, title, content, content_hash, type, category,
	tags_json, source, metadata_json, attachments_json, created_at, updated_at
`

// Insert stores a new card.
// Returns ErrUniqueConstraint if the user already has a card with the same hash.
func Insert(ctx context.Context, db *sql.DB, c *card.Card) error {
	tagsJSON, err := toNullJSON(c.Tags, len(c.Tags) > 0)
	if err != nil {
		return errors.NewInternal(err)
	}
	metaJSON, err := toNullJSON(c.Metadata, c.Metadata != nil)
	if err != nil {
		return errors.NewInternal(err)
	}
	attJSON, err := toNullJSON(c.Attachments, len(c.Attachments) > 0)
	if err != nil {
		return errors.NewInternal(err)
	}

	query := `INSERT INTO cards (` + cardColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = db.ExecContext(ctx, query,
		c.ID, c.UserID, c.Title, c.Content, c.ContentHash, string(c.Type), c.Category,
		tagsJSON, toNullString(c.Source), metaJSON, attJSON, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}
	return nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// GetByID retrieves one of the user's cards by its ULID.
func GetByID(ctx context.Context, db *sql.DB, userID, id string) (*card.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = ? AND user_id = ?`
	c, err := scanCard(db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return c, nil
}

// FindIDByHash returns the id of the user's card with the given content hash.
func FindIDByHash(ctx context.Context, db *sql.DB, userID, hash string) (string, bool, error) {
	var id string
	err := db.QueryRowContext(ctx,
		`SELECT id FROM cards WHERE user_id = ? AND content_hash = ? LIMIT 1`,
		userID, hash,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.NewInternal(err)
	}
	return id, true, nil
}

// HashIndex is the sqlite-backed duplicate index.
type HashIndex struct {
	DB *sql.DB
}

// FindByHash implements dedupe.Index.
func (h HashIndex) FindByHash(ctx context.Context, userID, hash string) (string, bool, error) {
	return FindIDByHash(ctx, h.DB, userID, hash)
}

// UpdateMerge saves the fields a merge may change: source and attachments.
// Sets updated_at to the current timestamp.
func UpdateMerge(ctx context.Context, db *sql.DB, c *card.Card) error {
	attJSON, err := toNullJSON(c.Attachments, len(c.Attachments) > 0)
	if err != nil {
		return errors.NewInternal(err)
	}
	now := time.Now().Unix()

	result, err := db.ExecContext(ctx, `
		UPDATE cards
		SET source = ?, attachments_json = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`, toNullString(c.Source), attJSON, now, c.ID, c.UserID)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(c.ID)
	}

	c.UpdatedAt = now
	return nil
}

// Delete removes one of the user's cards.
func Delete(ctx context.Context, db *sql.DB, userID, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM cards WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return errors.NewInternal(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(id)
	}
	return nil
}

// ListFilter narrows List results. Empty fields match everything.
type ListFilter struct {
	UserID   string
	Category string
	Type     card.Type
}

func (f ListFilter) where() (string, []any) {
	clauses := []string{"user_id = ?"}
	args := []any{f.UserID}
	if f.Category != "" {
		clauses = append(clauses, "category = ?")
		args = append(args, f.Category)
	}
	if f.Type != "" {
		clauses = append(clauses, "type = ?")
		args = append(args, string(f.Type))
	}
	return strings.Join(clauses, " AND "), args
}

// List returns one page of the user's cards, most recently updated first,
// and the total number of matching cards.
func List(ctx context.Context, db *sql.DB, f ListFilter, limit, offset int) ([]card.Card, int, error) {
	where, args := f.where()

	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := `SELECT ` + cardColumns + ` FROM cards WHERE ` + where +
		` ORDER BY updated_at DESC, id DESC LIMIT ? OFFSET ?`
	cards, err := queryCards(ctx, db, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	return cards, total, nil
}

// ListAll returns every card of the user, oldest first.
func ListAll(ctx context.Context, db *sql.DB, f ListFilter) ([]card.Card, error) {
	where, args := f.where()
	query := `SELECT ` + cardColumns + ` FROM cards WHERE ` + where + ` ORDER BY created_at ASC, id ASC`
	return queryCards(ctx, db, query, args...)
}

func queryCards(ctx context.Context, db *sql.DB, query string, args ...any) ([]card.Card, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var cards []card.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		cards = append(cards, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return cards, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanCard scans a single row into a Card struct.
func scanCard(row scanner) (*card.Card, error) {
	var (
		c        card.Card
		typ      string
		tagsJSON sql.NullString
		source   sql.NullString
		metaJSON sql.NullString
		attJSON  sql.NullString
	)

	err := row.Scan(
		&c.ID, &c.UserID, &c.Title, &c.Content, &c.ContentHash, &typ, &c.Category,
		&tagsJSON, &source, &metaJSON, &attJSON, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Type = card.Type(typ)
	c.Source = source.String

	if err := fromNullJSON(tagsJSON, &c.Tags); err != nil {
		return nil, err
	}
	if metaJSON.Valid && metaJSON.String != "" {
		c.Metadata = &card.RowMetadata{}
		if err := json.Unmarshal([]byte(metaJSON.String), c.Metadata); err != nil {
			return nil, err
		}
	}
	if err := fromNullJSON(attJSON, &c.Attachments); err != nil {
		return nil, err
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if c.Attachments == nil {
		c.Attachments = []card.Attachment{}
	}

	return &c, nil
}

func toNullJSON(v any, present bool) (sql.NullString, error) {
	if !present {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func fromNullJSON(ns sql.NullString, v any) error {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(ns.String), v)
}

func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
