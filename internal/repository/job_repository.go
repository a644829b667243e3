package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nurpe/freelance-backoffice/internal/model"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

var lockJobs = clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "jobs"}}

func unpaid(db *gorm.DB) *gorm.DB {
	return db.Where("(jobs.paid IS NULL OR jobs.paid = ?)", false)
}

func withContract(db *gorm.DB) *gorm.DB {
	return db.Joins("JOIN contracts ON contracts.id = jobs.contract_id")
}

func partyOf(profileID uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("(contracts.client_id = ? OR contracts.contractor_id = ?)", profileID, profileID)
	}
}

// LockPayable locks an unpaid job whose contract is not terminated.
// Paid jobs and jobs on terminated contracts yield gorm.ErrRecordNotFound.
func (r *JobRepository) LockPayable(ctx context.Context, jobID uint) (*model.Job, error) {
	var job model.Job
	err := r.db.WithContext(ctx).
		Clauses(lockJobs).
		Scopes(withContract, unpaid).
		Where("jobs.id = ?", jobID).
		Where("contracts.status <> ?", model.ContractStatusTerminated).
		Take(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// ListUnpaidByProfile returns unpaid jobs on in-progress contracts where the
// profile is the client or the contractor.
func (r *JobRepository) ListUnpaidByProfile(ctx context.Context, profileID uint) ([]model.Job, error) {
	var jobs []model.Job
	err := r.db.WithContext(ctx).
		Scopes(withContract, unpaid, partyOf(profileID)).
		Where("contracts.status = ?", model.ContractStatusInProgress).
		Order("jobs.id ASC").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// LockUnpaidByProfile is ListUnpaidByProfile with the job rows locked, so a
// concurrent payment cannot change the set while the caller holds it.
func (r *JobRepository) LockUnpaidByProfile(ctx context.Context, profileID uint) ([]model.Job, error) {
	var jobs []model.Job
	err := r.db.WithContext(ctx).
		Clauses(lockJobs).
		Scopes(withContract, unpaid, partyOf(profileID)).
		Where("contracts.status = ?", model.ContractStatusInProgress).
		Order("jobs.id ASC").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// MarkPaid flips an unpaid job to paid. It never touches a job that is
// already paid.
func (r *JobRepository) MarkPaid(ctx context.Context, jobID uint, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.Job{}).
		Scopes(unpaid).
		Where("jobs.id = ?", jobID).
		Updates(map[string]interface{}{
			"paid":         true,
			"payment_date": at,
			"updated_at":   at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetPaidForProfile returns a paid job visible to one of its contract parties.
func (r *JobRepository) GetPaidForProfile(ctx context.Context, jobID, profileID uint) (*model.Job, error) {
	var job model.Job
	err := r.db.WithContext(ctx).
		Scopes(withContract, partyOf(profileID)).
		Where("jobs.id = ?", jobID).
		Where("jobs.paid = ?", true).
		Take(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}
