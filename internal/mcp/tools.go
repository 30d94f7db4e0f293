package mcp

import "github.com/mark3labs/mcp-go/mcp"

var userIDParam = mcp.WithString("user_id",
	mcp.Description("Card owner. Defaults to the configured default_user."),
)

var extractToolDef = mcp.NewTool("cards_extract",
	mcp.WithDescription("Extract card drafts from a file without saving anything. "+
		"Each draft reports whether an upload would create a new card or merge into an existing one."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Path of the file to extract (txt, md, json, pdf, doc, docx, xlsx, xls, png, jpg)."),
	),
	userIDParam,
	mcp.WithString("category", mcp.Description("Category applied to every draft.")),
	mcp.WithArray("tags",
		mcp.Description("Tags that replace the generated tags on every draft."),
		mcp.WithStringItems(),
	),
)

var uploadToolDef = mcp.NewTool("cards_upload",
	mcp.WithDescription("Upload one or more files and save their cards. "+
		"Cards whose title and content match an existing card of the same user are merged into it."),
	mcp.WithString("path", mcp.Description("Path of a single file to upload.")),
	mcp.WithArray("paths",
		mcp.Description("Paths of several files to upload as one batch. Mutually exclusive with path."),
		mcp.WithStringItems(),
	),
	userIDParam,
	mcp.WithString("category", mcp.Description("Category applied to every card.")),
	mcp.WithArray("tags",
		mcp.Description("Tags that replace the generated tags on every card."),
		mcp.WithStringItems(),
	),
)

var listToolDef = mcp.NewTool("cards_list",
	mcp.WithDescription("List a user's cards, most recently updated first."),
	mcp.WithReadOnlyHintAnnotation(true),
	userIDParam,
	mcp.WithString("category", mcp.Description("Only cards in this category.")),
	mcp.WithString("type",
		mcp.Description("Only cards of this type."),
		mcp.Enum("concept", "action", "quote", "checklist", "mindmap"),
	),
	mcp.WithNumber("limit", mcp.Description("Page size (default 20, max 100).")),
	mcp.WithNumber("offset", mcp.Description("Number of cards to skip.")),
)

var fetchToolDef = mcp.NewTool("cards_fetch",
	mcp.WithDescription("Fetch one card with its content, tags and attachments."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("id", mcp.Required(), mcp.Description("Card ID.")),
	userIDParam,
)

var deleteToolDef = mcp.NewTool("cards_delete",
	mcp.WithDescription("Permanently delete a card."),
	mcp.WithDestructiveHintAnnotation(true),
	mcp.WithString("id", mcp.Required(), mcp.Description("Card ID.")),
	userIDParam,
)

var exportToolDef = mcp.NewTool("cards_export",
	mcp.WithDescription("Export a user's cards to a JSONL or HTML file. "+
		"Defaults to ~/.cardex/exports/<user>-<timestamp>.jsonl."),
	mcp.WithString("path", mcp.Description("Output path ending in .jsonl or .html.")),
	mcp.WithString("format",
		mcp.Description("Output format. Defaults to the path extension, else jsonl."),
		mcp.Enum("jsonl", "html"),
	),
	userIDParam,
	mcp.WithString("category", mcp.Description("Only cards in this category.")),
	mcp.WithString("type", mcp.Description("Only cards of this type.")),
)
