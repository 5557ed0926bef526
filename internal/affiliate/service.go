package affiliate

import (
	"context"
	"fmt"
	"strings"
)

type Repository interface {
	GetAffiliate(ctx context.Context, ref string) (*Affiliate, error)
	ListAffiliates(ctx context.Context) ([]*Affiliate, error)
	UpsertAffiliate(ctx context.Context, a *Affiliate) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type RegisterParams struct {
	Ref    string
	Name   string
	Email  string
	Status Status
}

// Register creates the affiliate or updates its profile and status.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*Affiliate, error) {
	ref := strings.TrimSpace(params.Ref)
	if ref == "" {
		return nil, fmt.Errorf("affiliate ref is required")
	}

	status := params.Status
	if status == "" {
		status = StatusPending
	}

	if !status.Valid() {
		return nil, fmt.Errorf("invalid affiliate status %q", status)
	}

	a := &Affiliate{
		Ref:    ref,
		Name:   strings.TrimSpace(params.Name),
		Email:  strings.TrimSpace(params.Email),
		Status: status,
	}
	if err := s.repo.UpsertAffiliate(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (s *Service) Get(ctx context.Context, ref string) (*Affiliate, error) {
	return s.repo.GetAffiliate(ctx, ref)
}

func (s *Service) List(ctx context.Context) ([]*Affiliate, error) {
	return s.repo.ListAffiliates(ctx)
}
