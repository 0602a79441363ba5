package notes

import (
	"encoding/json"
	"errors"
	"time"
)

// TimestampLayout is the wire format of created_at: ISO-8601 in UTC with a
// "Z" suffix and microsecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

var (
	ErrNoteNotFound = errors.New("note not found")

	ErrContentRequired = &ValidationError{Field: "content", Message: "content required"}
)

// ValidationError reports caller input that was rejected before touching
// storage.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Note is a single piece of submitted text. Notes are never updated.
type Note struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null;index;precision:6"`
}

func (Note) TableName() string { return "notes" }

type noteJSON struct {
	ID        uint64 `json:"id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

func (n Note) MarshalJSON() ([]byte, error) {
	return json.Marshal(noteJSON{
		ID:        n.ID,
		Content:   n.Content,
		CreatedAt: FormatTimestamp(n.CreatedAt),
	})
}

func (n *Note) UnmarshalJSON(data []byte) error {
	var raw noteJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t, err := time.Parse(time.RFC3339Nano, raw.CreatedAt)
	if err != nil {
		return err
	}
	*n = Note{ID: raw.ID, Content: raw.Content, CreatedAt: t.UTC()}
	return nil
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// CreateNoteInput is the JSON body accepted by the create endpoint.
type CreateNoteInput struct {
	Content *string `json:"content"`
}
