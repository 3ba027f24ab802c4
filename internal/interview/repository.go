package interview

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an interview does not exist.
var ErrNotFound = errors.New("interview not found")

// Repository persists interviews and their comments.
type Repository interface {
	Save(ctx context.Context, interview *Interview) error
	GetByID(ctx context.Context, id uuid.UUID) (*Interview, error)
	List(ctx context.Context) ([]*Interview, error)

	AddComment(ctx context.Context, comment *Comment) error
	ListComments(ctx context.Context, interviewID uuid.UUID) ([]*Comment, error)
}
