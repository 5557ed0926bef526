package sale

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=sale

type Repository interface {
	GetSale(ctx context.Context, id string) (*Sale, error)
	// SaveSale upserts the sale unless the stored row is already SUCCESS, in which case it returns ErrImmutable.
	SaveSale(ctx context.Context, s *Sale) error
	ListSuccessfulByAffiliate(ctx context.Context, affiliateRef string) ([]*Sale, error)
	ListSales(ctx context.Context, filter ListFilter) ([]*Sale, error)
}

type ListFilter struct {
	AffiliateRef string
	Status       Status
	Limit        int
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type IngestParams struct {
	ID           string
	Amount       int64
	ProductRef   string
	AffiliateRef string
	Status       Status
	CompletedAt  *time.Time
}

// Ingest stores a sale as reported by the checkout. Replaying an identical
// SUCCESS sale returns the stored row; any other change to it is ErrImmutable.
func (s *Service) Ingest(ctx context.Context, params IngestParams) (*Sale, error) {
	in := &Sale{
		ID:           strings.TrimSpace(params.ID),
		Amount:       params.Amount,
		ProductRef:   strings.TrimSpace(params.ProductRef),
		AffiliateRef: strings.TrimSpace(params.AffiliateRef),
		Status:       params.Status,
		CompletedAt:  params.CompletedAt,
	}

	if err := validate(in); err != nil {
		return nil, err
	}

	if in.Successful() && in.CompletedAt == nil {
		in.CompletedAt = new(time.Now().UTC())
	}

	existing, err := s.repo.GetSale(ctx, in.ID)

	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return nil, err
	case existing.Successful():
		if existing.sameTerms(in) {
			return existing, nil
		}

		return nil, fmt.Errorf("%w: %s", ErrImmutable, in.ID)
	}

	if err := s.repo.SaveSale(ctx, in); err != nil {
		return nil, err
	}

	return in, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Sale, error) {
	return s.repo.GetSale(ctx, id)
}

func (s *Service) ListSuccessfulByAffiliate(ctx context.Context, affiliateRef string) ([]*Sale, error) {
	return s.repo.ListSuccessfulByAffiliate(ctx, affiliateRef)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Sale, error) {
	return s.repo.ListSales(ctx, filter)
}

func validate(s *Sale) error {
	switch {
	case s.ID == "":
		return fmt.Errorf("%w: id is required", ErrInvalid)
	case s.Amount < 0:
		return fmt.Errorf("%w: negative amount %d", ErrInvalid, s.Amount)
	case s.ProductRef == "":
		return fmt.Errorf("%w: product is required", ErrInvalid)
	case !s.Status.Valid():
		return fmt.Errorf("%w: unknown status %q", ErrInvalid, s.Status)
	}

	return nil
}
