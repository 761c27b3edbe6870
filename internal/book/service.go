package book

import (
	"context"
)

// Service provides book-related business logic.
// Every mutating call validates before it reaches the repository.
type Service struct {
	repo      Repository
	validator *Validator
}

// NewService creates a new book service.
func NewService(repo Repository, validator *Validator) *Service {
	return &Service{repo: repo, validator: validator}
}

// List returns every book ordered by ISBN.
func (s *Service) List(ctx context.Context) ([]Book, error) {
	return s.repo.List(ctx)
}

// Get returns a book by its ISBN.
func (s *Service) Get(ctx context.Context, isbn string) (Book, error) {
	return s.repo.GetByISBN(ctx, isbn)
}

// Create validates payload in create mode and inserts the book.
func (s *Service) Create(ctx context.Context, payload map[string]any) (Book, error) {
	b, msgs := s.validator.Validate(payload, ModeCreate)
	if len(msgs) > 0 {
		return Book{}, &ValidationError{Messages: msgs}
	}
	return s.repo.Insert(ctx, b)
}

// Update validates payload in update mode and replaces every field except the ISBN.
func (s *Service) Update(ctx context.Context, isbn string, payload map[string]any) (Book, error) {
	b, msgs := s.validator.Validate(payload, ModeUpdate)
	if len(msgs) > 0 {
		return Book{}, &ValidationError{Messages: msgs}
	}
	b.ISBN = isbn
	return s.repo.Update(ctx, isbn, b)
}

// Delete removes the book with the given ISBN.
func (s *Service) Delete(ctx context.Context, isbn string) error {
	return s.repo.Delete(ctx, isbn)
}
