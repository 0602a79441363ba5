package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"noteapp/views/models"
)

// IndexPage renders the note form, pending flashes and the note list.
func IndexPage(flashes []models.Flash, notes []models.NoteView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		ew := &errWriter{w: w}

		ew.printf(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>Notes</title></head><body>`)
		ew.printf(`<h1>Notes</h1>`)

		for _, f := range flashes {
			ew.printf(`<div class="flash flash-%s">%s</div>`, templ.EscapeString(f.Category), templ.EscapeString(f.Message))
		}

		ew.printf(`<form method="post" action="/"><textarea name="content" rows="4" placeholder="Write a note..."></textarea><button type="submit">Save</button></form>`)

		if len(notes) == 0 {
			ew.printf(`<p class="empty">No notes yet.</p>`)
		} else {
			ew.printf(`<ul class="notes">`)
			for _, n := range notes {
				ew.printf(`<li id="note-%d"><div class="content">%s</div><time datetime="%s">%s</time></li>`,
					n.ID,
					n.HTML,
					templ.EscapeString(n.CreatedAt.UTC().Format("2006-01-02T15:04:05Z")),
					templ.EscapeString(n.CreatedAt.UTC().Format("Jan 2, 2006 15:04")),
				)
			}
			ew.printf(`</ul>`)
		}

		ew.printf(`</body></html>`)
		return ew.err
	})
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
