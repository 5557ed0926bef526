package productalias

import (
	"context"
	"fmt"
	"strings"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=productalias

type Repository interface {
	FindProduct(ctx context.Context, raw string) (string, error)
	CreateAlias(ctx context.Context, rawPattern, productRef string) error
	ListAliases(ctx context.Context) ([]Alias, error)
}

// Alias maps a legacy product name fragment to a canonical product ref.
type Alias struct {
	RawPattern string
	ProductRef string
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Resolve maps a legacy product identifier to its canonical ref. The longest
// matching pattern wins; raw is returned unchanged when nothing matches.
func (s *Service) Resolve(ctx context.Context, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}

	ref, err := s.repo.FindProduct(ctx, raw)
	if err != nil {
		return "", err
	}

	if ref == "" {
		return raw, nil
	}

	return ref, nil
}

// Learn remembers that names containing rawPattern refer to productRef.
func (s *Service) Learn(ctx context.Context, rawPattern, productRef string) error {
	rawPattern = strings.TrimSpace(rawPattern)
	productRef = strings.TrimSpace(productRef)

	if rawPattern == "" || productRef == "" {
		return fmt.Errorf("alias pattern and product ref are required")
	}

	return s.repo.CreateAlias(ctx, rawPattern, productRef)
}

func (s *Service) List(ctx context.Context) ([]Alias, error) {
	return s.repo.ListAliases(ctx)
}
