// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
// In a well-structured Go web app, code is organised into three layers:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, orchestrates, persists
//	Repository (Data layer)  → reads/writes to the database
//
// For this application the "business logic" IS the transfer-object contract:
// the service feeds raw inbound mappings through the serializer and maps the
// resulting validated data onto persistence calls. That keeps the flow
//
//	raw mapping → Validate/ValidatePartial → NewSnippet/Apply → repository
//
// in exactly one place, callable from an HTTP handler, a CLI tool, or a test
// without any HTTP machinery.
//
// DEPENDENCY INJECTION:
// SnippetService takes a repository.SnippetRepository (interface), NOT a
// *sqlite.DB (concrete type). In tests we pass an in-memory mock; in
// production main wires in SQLite. The service never knows the difference.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/snippet-api/internal/model"
	"github.com/sakif/snippet-api/internal/repository"
	"github.com/sakif/snippet-api/internal/serializer"
)

// Pagination bounds, enforced here so no caller can request a million rows.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// SnippetService handles create/read/update/delete for snippets.
type SnippetService struct {
	repo       repository.SnippetRepository
	serializer *serializer.SnippetSerializer
	logger     *slog.Logger
}

// NewSnippetService creates a new SnippetService.
//
// CONSTRUCTOR PATTERN IN GO:
// Go doesn't have constructors like Java/Python. Instead, we use "New"
// functions that take all dependencies as parameters. The caller decides
// WHICH repository implementation and WHICH enumeration-backed serializer
// this service gets.
func NewSnippetService(repo repository.SnippetRepository, s *serializer.SnippetSerializer, logger *slog.Logger) *SnippetService {
	return &SnippetService{
		repo:       repo,
		serializer: s,
		logger:     logger,
	}
}

// Create validates a raw inbound mapping and persists a new snippet.
//
// The raw mapping is the decoded JSON request body, untouched. Validation
// (required fields, types, length and enum constraints, defaults) happens in
// the serializer; if it rejects the input, the validation error propagates to
// the caller carrying its per-field messages. Persistence errors propagate
// wrapped — this layer never retries or recovers.
func (s *SnippetService) Create(ctx context.Context, raw map[string]any) (*model.Snippet, error) {
	data, err := s.serializer.Validate(raw)
	if err != nil {
		return nil, err
	}

	snippet := s.serializer.NewSnippet(data)

	if err := s.repo.Create(ctx, snippet); err != nil {
		s.logger.Error("failed to create snippet",
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating snippet: %w", err)
	}

	s.logger.Info("snippet created",
		slog.Int64("id", snippet.ID),
		slog.String("language", snippet.Language),
	)

	return snippet, nil
}

// GetByID retrieves a snippet by its ID.
// Returns apperror.ErrNotFound if the snippet doesn't exist.
func (s *SnippetService) GetByID(ctx context.Context, id int64) (*model.Snippet, error) {
	// NotFound is a normal outcome, not a failure — no logging here, the
	// repository already returns a proper domain error.
	return s.repo.GetByID(ctx, id)
}

// List retrieves snippets with pagination.
//
// limit is clamped to 1–100 (default 20); offset can't go negative.
// Example: page 3 with 20 items → limit=20, offset=40.
func (s *SnippetService) List(ctx context.Context, limit, offset int) ([]model.Snippet, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	snippets, err := s.repo.List(ctx, repository.ListOptions{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		s.logger.Error("failed to list snippets", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing snippets: %w", err)
	}

	return snippets, nil
}

// Update validates a raw mapping partially and applies it to an existing
// snippet.
//
// STRATEGY: "Fetch then update"
//  1. Validate the inbound fields (same constraints as create, nothing
//     required, no defaults filled)
//  2. Fetch the existing snippet — returns NotFound if it doesn't exist
//  3. Apply the present fields onto the fetched copy
//  4. Save the updated version
//
// Fields absent from raw keep their stored values; id is never writable.
func (s *SnippetService) Update(ctx context.Context, id int64, raw map[string]any) (*model.Snippet, error) {
	data, err := s.serializer.ValidatePartial(raw)
	if err != nil {
		return nil, err
	}

	snippet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.serializer.Apply(snippet, data)

	if err := s.repo.Update(ctx, snippet); err != nil {
		s.logger.Error("failed to update snippet",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating snippet: %w", err)
	}

	s.logger.Info("snippet updated", slog.Int64("id", snippet.ID))

	return snippet, nil
}

// Delete removes a snippet by its ID.
// Returns apperror.ErrNotFound if the snippet doesn't exist.
func (s *SnippetService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("snippet deleted", slog.Int64("id", id))
	return nil
}
