package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that share one database handle. A Store
// built inside InTx routes every call through the same transaction.
type Store struct {
	db        *gorm.DB
	Profiles  *ProfileRepository
	Contracts *ContractRepository
	Jobs      *JobRepository
	Reports   *ReportRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:        db,
		Profiles:  NewProfileRepository(db),
		Contracts: NewContractRepository(db),
		Jobs:      NewJobRepository(db),
		Reports:   NewReportRepository(db),
	}
}

// InTx runs fn in a single transaction. The transaction commits when fn
// returns nil and rolls back on an error or a panic.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
