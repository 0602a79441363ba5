package models

import "time"

// NoteView represents a note for template rendering
type NoteView struct {
	ID        uint64
	Content   string
	HTML      string // rendered markdown
	CreatedAt time.Time
}

// Flash is a one-shot message shown after a redirect
type Flash struct {
	Category string // "success" or "error"
	Message  string
}
