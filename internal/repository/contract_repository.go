package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/nurpe/freelance-backoffice/internal/model"
)

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

func (r *ContractRepository) GetByID(ctx context.Context, id uint) (*model.Contract, error) {
	var contract model.Contract
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&contract).Error; err != nil {
		return nil, err
	}
	return &contract, nil
}

// GetByIDForProfile returns the contract only when the profile is one of its parties.
func (r *ContractRepository) GetByIDForProfile(ctx context.Context, id, profileID uint) (*model.Contract, error) {
	var contract model.Contract
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where("(client_id = ? OR contractor_id = ?)", profileID, profileID).
		Take(&contract).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *ContractRepository) ListActiveByProfile(ctx context.Context, profileID uint) ([]model.Contract, error) {
	var contracts []model.Contract
	err := r.db.WithContext(ctx).
		Where("(client_id = ? OR contractor_id = ?)", profileID, profileID).
		Where("status <> ?", model.ContractStatusTerminated).
		Order("id ASC").
		Find(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}
