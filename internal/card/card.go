package card

// Type is the study-card kind assigned by the classifier.
type Type string

const (
	TypeConcept   Type = "concept"
	TypeAction    Type = "action"
	TypeQuote     Type = "quote"
	TypeChecklist Type = "checklist"
	TypeMindmap   Type = "mindmap"
)

// Types lists every card type in declaration order.
// Classifier ties resolve to the earliest entry.
var Types = []Type{TypeConcept, TypeAction, TypeQuote, TypeChecklist, TypeMindmap}

// Valid reports whether t is one of the declared types.
func (t Type) Valid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// Limits shared by the pipeline and the store.
const (
	MaxTitleChars      = 200
	MaxContentChars    = 10000
	MaxRowContentChars = 9500
	MaxTags            = 10
	MinSectionChars    = 10

	TruncationMarker = "... [Content truncated]"
	DefaultCategory  = "General"
	DataCategory     = "Data"
)

// Draft is a card produced by the pipeline. It is transient: the caller
// decides whether it becomes a new card or merges into an existing one.
type Draft struct {
	Title    string       `json:"title"`
	Content  string       `json:"content"`
	Type     Type         `json:"type"`
	Category string       `json:"category"`
	Tags     []string     `json:"tags"`
	Source   string       `json:"source"`
	Metadata *RowMetadata `json:"metadata,omitempty"`
}

// RowMetadata describes the spreadsheet row a draft was built from.
type RowMetadata struct {
	Row     int               `json:"excel_row"`
	Sheet   string            `json:"excel_sheet"`
	Columns int               `json:"excel_columns"`
	Schema  []string          `json:"schema"`
	Data    map[string]string `json:"structured_data"`
}

// Hash returns the duplicate key for the draft.
func (d *Draft) Hash() string {
	return ContentHash(d.Title, d.Content)
}

// Attachment records an uploaded file that contributed to a card.
type Attachment struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	MIMEType     string `json:"mimetype"`
	Size         int64  `json:"size"`
	Path         string `json:"path"`
}

// Card is a persisted card owned by a single user.
type Card struct {
	// ID is a ULID
	ID string `json:"id"`

	UserID      string       `json:"user_id"`
	Title       string       `json:"title"`
	Content     string       `json:"content"`
	ContentHash string       `json:"content_hash"`
	Type        Type         `json:"type"`
	Category    string       `json:"category"`
	Tags        []string     `json:"tags"`
	Source      string       `json:"source"`
	Metadata    *RowMetadata `json:"metadata,omitempty"`
	Attachments []Attachment `json:"attachments"`

	// CreatedAt and UpdatedAt are Unix timestamps
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// Summary is the list view of a card (no content, no attachments).
type Summary struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Type        Type     `json:"type"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Source      string   `json:"source"`
	Attachments int      `json:"attachments"`
	UpdatedAt   int64    `json:"updated_at"`
}

// Summarize builds the list view of c.
func Summarize(c *Card) Summary {
	return Summary{
		ID:          c.ID,
		Title:       c.Title,
		Type:        c.Type,
		Category:    c.Category,
		Tags:        c.Tags,
		Source:      c.Source,
		Attachments: len(c.Attachments),
		UpdatedAt:   c.UpdatedAt,
	}
}
