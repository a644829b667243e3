package repository

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nurpe/freelance-backoffice/internal/model"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByID(ctx context.Context, id uint) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// LockByIDs loads the profiles with FOR UPDATE, acquiring row locks in
// ascending id order. Missing ids are absent from the result.
func (r *ProfileRepository) LockByIDs(ctx context.Context, ids ...uint) (map[uint]*model.Profile, error) {
	unique := make([]uint, 0, len(ids))
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i] < unique[j] })

	var rows []model.Profile
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", unique).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[uint]*model.Profile, len(rows))
	for i := range rows {
		result[rows[i].ID] = &rows[i]
	}
	return result, nil
}

func (r *ProfileRepository) Credit(ctx context.Context, id uint, amount decimal.Decimal) error {
	return r.adjust(ctx, id, gorm.Expr("balance + ?", amount))
}

func (r *ProfileRepository) Debit(ctx context.Context, id uint, amount decimal.Decimal) error {
	return r.adjust(ctx, id, gorm.Expr("balance - ?", amount))
}

func (r *ProfileRepository) adjust(ctx context.Context, id uint, expr clause.Expr) error {
	res := r.db.WithContext(ctx).
		Model(&model.Profile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"balance":    expr,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
