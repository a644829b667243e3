package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nurpe/freelance-backoffice/internal/model"
	"github.com/nurpe/freelance-backoffice/internal/repository"
)

type ContractService struct {
	contracts *repository.ContractRepository
}

func NewContractService(store *repository.Store) *ContractService {
	return &ContractService{contracts: store.Contracts}
}

func (s *ContractService) GetByIDAndProfile(ctx context.Context, id uint, profile model.Profile) (*model.Contract, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: contract id is required", ErrInvalidInput)
	}
	contract, err := s.contracts.GetByIDForProfile(ctx, id, profile.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: contract not found or access denied", ErrNotFound)
		}
		return nil, err
	}
	return contract, nil
}

// ListByProfile returns every non-terminated contract the profile is party to.
func (s *ContractService) ListByProfile(ctx context.Context, profile model.Profile) ([]model.Contract, error) {
	return s.contracts.ListActiveByProfile(ctx, profile.ID)
}
