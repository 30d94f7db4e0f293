// Package ops implements the card operations shared by the CLI and the MCP
// server: upload, preview, list, fetch, delete and export.
package ops

import (
	"database/sql"
	"strings"

	"go.uber.org/zap"

	"github.com/hpungsan/cardex/internal/config"
	"github.com/hpungsan/cardex/internal/errors"
	"github.com/hpungsan/cardex/internal/pipeline"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// Env holds what the upload operations need besides their input.
type Env struct {
	DB       *sql.DB
	Pipeline *pipeline.Pipeline
	Config   *config.Config

	// UploadsDir receives a copy of every uploaded file.
	UploadsDir string

	Logger *zap.Logger
}

func (e *Env) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

// resolveUser returns the trimmed user id, or the configured default user.
func resolveUser(userID string, cfg *config.Config) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" && cfg != nil {
		userID = strings.TrimSpace(cfg.DefaultUser)
	}
	if userID == "" {
		return "", errors.NewInvalidRequest("user_id is required")
	}
	return userID, nil
}

// clampPage applies limit defaults and bounds.
func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return limit, max(offset, 0)
}
