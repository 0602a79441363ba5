package notes

import (
	"bytes"
	"context"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/yuin/goldmark"
)

type Service struct {
	repo Store
	md   goldmark.Markdown
	now  func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source used to stamp new notes.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Store, opts ...Option) *Service {
	s := &Service{
		repo: repo,
		md:   goldmark.New(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create trims content and stores it as a new note stamped with the
// current UTC time.
func (s *Service) Create(ctx context.Context, content string) (*Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrContentRequired
	}

	note := &Note{
		Content:   content,
		CreatedAt: s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.repo.Insert(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// List returns all notes, newest first.
func (s *Service) List(ctx context.Context) ([]*Note, error) {
	return s.repo.ListAll(ctx)
}

// GetByID parses id and looks the note up. Ids that are not positive
// integers cannot exist and are reported as not found.
func (s *Service) GetByID(ctx context.Context, id string) (*Note, error) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil || n == 0 {
		return nil, ErrNoteNotFound
	}
	return s.repo.FindByID(ctx, n)
}

func (s *Service) First(ctx context.Context) (*Note, error) {
	return s.repo.First(ctx)
}

// RenderMarkdown converts markdown content to HTML. Raw HTML in the input
// is not passed through.
func (s *Service) RenderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(content), &buf); err != nil {
		return html.EscapeString(content)
	}
	return buf.String()
}
