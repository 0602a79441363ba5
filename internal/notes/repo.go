package notes

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Store is the persistence contract the Service depends on.
type Store interface {
	Insert(ctx context.Context, n *Note) error
	ListAll(ctx context.Context) ([]*Note, error)
	FindByID(ctx context.Context, id uint64) (*Note, error)
	First(ctx context.Context) (*Note, error)
	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

// Repo implements Store on a GORM handle.
type Repo struct {
	db *gorm.DB
}

var _ Store = (*Repo)(nil)

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// Migrate creates the notes table and its created_at index when missing.
func (r *Repo) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&Note{}); err != nil {
		return fmt.Errorf("migrate notes: %w", err)
	}
	return nil
}

// Insert stores n. The caller sets Content and CreatedAt; the backend
// assigns ID.
func (r *Repo) Insert(ctx context.Context, n *Note) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

// ListAll returns every note, newest first. Equal timestamps fall back to
// id descending so the order is deterministic.
func (r *Repo) ListAll(ctx context.Context) ([]*Note, error) {
	var notes []*Note
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&notes).Error
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

func (r *Repo) FindByID(ctx context.Context, id uint64) (*Note, error) {
	var note Note
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find note %d: %w", id, err)
	}
	return &note, nil
}

// First returns an arbitrary note in backend order, or nil when the table
// is empty.
func (r *Repo) First(ctx context.Context) (*Note, error) {
	var note Note
	err := r.db.WithContext(ctx).Take(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("first note: %w", err)
	}
	return &note, nil
}

func (r *Repo) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Note{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}
	return count, nil
}

// Ping runs a trivial query to prove the connection is usable.
func (r *Repo) Ping(ctx context.Context) error {
	var one int
	if err := r.db.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error; err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}
