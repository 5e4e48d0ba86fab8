package members

import (
	"context"
	"fmt"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Submit(ctx context.Context, input Input) (*Member, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, input)
}

func (s *Service) List(ctx context.Context) ([]Member, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*Member, error) {
	record, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrMemberNotFound
	}

	member, err := record.Member()
	if err != nil {
		return nil, fmt.Errorf("member %d: %w", id, err)
	}
	return &member, nil
}

func (s *Service) Update(ctx context.Context, id int64, input Input) (*Member, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	member, found, err := s.repo.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrMemberNotFound
	}
	return member, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrMemberNotFound
	}
	return nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.repo.Stats(ctx)
}

// validateInput rejects blank NOT NULL columns; JSON omits them as zero values.
func validateInput(input Input) error {
	if strings.TrimSpace(input.Name) == "" ||
		strings.TrimSpace(input.Email) == "" ||
		strings.TrimSpace(input.Phone) == "" {
		return ErrRequiredField
	}
	return nil
}
