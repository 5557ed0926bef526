package rule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=rule

type Repository interface {
	GetRule(ctx context.Context, productRef string) (*Rule, error)
	ListRules(ctx context.Context) ([]*Rule, error)
	UpsertRule(ctx context.Context, r *Rule) error
}

// Cache holds rules in front of the repository. GetRule returns nil, nil on a
// miss and ErrNotFound for a product remembered as having no rule.
type Cache interface {
	GetRule(ctx context.Context, productRef string) (*Rule, error)
	SetRule(ctx context.Context, r *Rule) error
	SetMissing(ctx context.Context, productRef string) error
	DeleteRule(ctx context.Context, productRef string) error
}

type Service struct {
	repo   Repository
	cache  Cache
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(repo Repository, cache Cache, opts ...Option) *Service {
	s := &Service{repo: repo, cache: cache, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Lookup resolves the rule for a product. Cache failures fall through to the repository.
func (s *Service) Lookup(ctx context.Context, productRef string) (*Rule, error) {
	if s.cache != nil {
		r, err := s.cache.GetRule(ctx, productRef)

		switch {
		case IsMissing(err):
			return nil, err
		case err != nil:
			s.logger.WarnContext(ctx, "rule cache read failed", "product_ref", productRef, "error", err)
		case r != nil:
			return r, nil
		}
	}

	r, err := s.repo.GetRule(ctx, productRef)
	if err != nil {
		if IsMissing(err) && s.cache != nil {
			if cerr := s.cache.SetMissing(ctx, productRef); cerr != nil {
				s.logger.WarnContext(ctx, "rule cache write failed", "product_ref", productRef, "error", cerr)
			}
		}

		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetRule(ctx, r); err != nil {
			s.logger.WarnContext(ctx, "rule cache write failed", "product_ref", productRef, "error", err)
		}
	}

	return r, nil
}

func (s *Service) List(ctx context.Context) ([]*Rule, error) {
	return s.repo.ListRules(ctx)
}

func (s *Service) Put(ctx context.Context, r *Rule) error {
	r.ProductRef = strings.TrimSpace(r.ProductRef)
	if r.ProductRef == "" {
		return fmt.Errorf("%w: product ref is required", ErrInvalidValue)
	}

	if err := r.Validate(); err != nil {
		return err
	}

	if err := s.repo.UpsertRule(ctx, r); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.DeleteRule(ctx, r.ProductRef); err != nil {
			s.logger.WarnContext(ctx, "rule cache invalidation failed", "product_ref", r.ProductRef, "error", err)
		}
	}

	return nil
}

// IsMissing reports whether err means the product has no rule.
func IsMissing(err error) bool {
	return errors.Is(err, ErrNotFound)
}
