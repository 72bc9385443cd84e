package enquiry

import (
	"context"

	"go.uber.org/zap"
)

type Service struct {
	repo Repository
	log  *zap.Logger
}

func NewService(repo Repository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, log: log}
}

func (s *Service) List(ctx context.Context) ([]Enquiry, error) {
	return s.repo.List(ctx)
}

func (s *Service) Submit(ctx context.Context, in Input) (Enquiry, error) {
	e, err := in.Validate()
	if err != nil {
		return Enquiry{}, err
	}
	created, err := s.repo.Create(ctx, e)
	if err != nil {
		return Enquiry{}, err
	}
	s.log.Info("enquiry received", zap.Int64("id", created.ID), zap.String("source_page", created.SourcePage))
	return created, nil
}
