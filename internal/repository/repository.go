package repository

import (
	"context"

	"github.com/sakif/snippet-api/internal/model"
)

type ListOptions struct {
	Limit  int
	Offset int
}

// SnippetRepository is the persistence collaborator for snippets.
// Create assigns the snippet's ID; Update never touches it.
type SnippetRepository interface {
	Create(ctx context.Context, snippet *model.Snippet) error
	GetByID(ctx context.Context, id int64) (*model.Snippet, error)
	List(ctx context.Context, opts ListOptions) ([]model.Snippet, error)
	Update(ctx context.Context, snippet *model.Snippet) error
	Delete(ctx context.Context, id int64) error
}
