package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/cardex/internal/errors"
	"github.com/hpungsan/cardex/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	env *ops.Env
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(env *ops.Env) *Handlers {
	return &Handlers{env: env}
}

// user returns id, or the configured default user when id is blank.
func (h *Handlers) user(id string) string {
	if strings.TrimSpace(id) == "" && h.env.Config != nil {
		return h.env.Config.DefaultUser
	}
	return id
}

func (h *Handlers) maxFileSize() int64 {
	if h.env.Pipeline != nil {
		return h.env.Pipeline.MaxFileSize()
	}
	if h.env.Config != nil {
		return h.env.Config.MaxFileSize
	}
	return 0
}

// Request types for each tool

// ExtractRequest represents the arguments for cards_extract.
type ExtractRequest struct {
	Path     string   `json:"path"`
	UserID   string   `json:"user_id,omitempty"`
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// UploadRequest represents the arguments for cards_upload.
type UploadRequest struct {
	Path     string   `json:"path,omitempty"`
	Paths    []string `json:"paths,omitempty"`
	UserID   string   `json:"user_id,omitempty"`
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// ListRequest represents the arguments for cards_list.
type ListRequest struct {
	UserID   string `json:"user_id,omitempty"`
	Category string `json:"category,omitempty"`
	Type     string `json:"type,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}

// CardRequest represents the arguments for cards_fetch and cards_delete.
type CardRequest struct {
	ID     string `json:"id"`
	UserID string `json:"user_id,omitempty"`
}

// ExportRequest represents the arguments for cards_export.
type ExportRequest struct {
	Path     string `json:"path,omitempty"`
	Format   string `json:"format,omitempty"`
	UserID   string `json:"user_id,omitempty"`
	Category string `json:"category,omitempty"`
	Type     string `json:"type,omitempty"`
}

// Handler implementations

// HandleExtract handles the cards_extract tool call.
func (h *Handlers) HandleExtract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExtractRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	src, err := ops.ReadAllowedSource(input.Path, h.env.Config, h.maxFileSize())
	if err != nil {
		return errorResult(err), nil
	}
	src.UserID = input.UserID
	src.Category = input.Category
	src.Tags = input.Tags

	result, err := ops.Preview(ctx, h.env, src)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleUpload handles the cards_upload tool call. A single path returns
// the upload result; paths returns one result per file.
func (h *Handlers) HandleUpload(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[UploadRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	switch {
	case input.Path != "" && len(input.Paths) > 0:
		return errorResult(errors.NewInvalidRequest("path and paths are mutually exclusive")), nil
	case input.Path == "" && len(input.Paths) == 0:
		return errorResult(errors.NewInvalidRequest("path or paths is required")), nil
	}

	if input.Path != "" {
		src, err := ops.ReadAllowedSource(input.Path, h.env.Config, h.maxFileSize())
		if err != nil {
			return errorResult(err), nil
		}
		src.UserID = input.UserID
		src.Category = input.Category
		src.Tags = input.Tags

		result, err := ops.Upload(ctx, h.env, src)
		if err != nil {
			return errorResult(err), nil
		}
		return successResult(result)
	}

	files := make([]ops.UploadInput, 0, len(input.Paths))
	for _, p := range input.Paths {
		src, err := ops.ReadAllowedSource(p, h.env.Config, h.maxFileSize())
		if err != nil {
			return errorResult(err), nil
		}
		files = append(files, src)
	}

	result, err := ops.UploadBatch(ctx, h.env, ops.BatchInput{
		UserID:   input.UserID,
		Files:    files,
		Category: input.Category,
		Tags:     input.Tags,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleList handles the cards_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.List(ctx, h.env.DB, ops.ListInput{
		UserID:   h.user(input.UserID),
		Category: input.Category,
		Type:     input.Type,
		Limit:    input.Limit,
		Offset:   input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFetch handles the cards_fetch tool call.
func (h *Handlers) HandleFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CardRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Fetch(ctx, h.env.DB, ops.FetchInput{
		UserID: h.user(input.UserID),
		ID:     input.ID,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDelete handles the cards_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CardRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Delete(ctx, h.env.DB, ops.DeleteInput{
		UserID: h.user(input.UserID),
		ID:     input.ID,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleExport handles the cards_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Export(ctx, h.env.DB, h.env.Config, ops.ExportInput{
		UserID:   h.user(input.UserID),
		Path:     input.Path,
		Format:   input.Format,
		Category: input.Category,
		Type:     input.Type,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// errorResult creates an MCP error result from an error.
// Context errors that reach here unwrapped are reported as CANCELLED.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var cErr *errors.CardexError
	if !stderrors.As(err, &cErr) &&
		(stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded)) {
		cErr = errors.NewCancelled("request", err)
	}

	if cErr != nil {
		msg := cErr.Message
		// Keep context added by wrappers around the CardexError
		if wrapped, ok := err.(*errors.CardexError); !ok || wrapped != cErr {
			if prefix, _, found := strings.Cut(err.Error(), cErr.Error()); found && prefix != "" {
				msg = prefix + msg
			}
		}

		errorObj := map[string]any{
			"code":    cErr.Code,
			"message": msg,
			"status":  cErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if cErr.Code != errors.ErrInternal && cErr.Details != nil {
			errorObj["details"] = cErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
