package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/freelance-backoffice/internal/model"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// BestProfession returns the contractor profession with the highest earnings
// from jobs paid within [from, to]. Equal totals resolve by profession name.
func (r *ReportRepository) BestProfession(ctx context.Context, from, to time.Time) (*model.BestProfession, error) {
	var rows []model.BestProfession
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			p.profession AS profession,
			SUM(j.price) AS total_earned
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		JOIN profiles p ON p.id = c.contractor_id
		WHERE j.paid = ?
			AND j.payment_date BETWEEN ? AND ?
		GROUP BY p.profession
		ORDER BY total_earned DESC, p.profession ASC
		LIMIT 1
	`, true, from, to).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

// BestClients ranks clients by the total they paid within [from, to].
// Equal totals resolve by ascending client id.
func (r *ReportRepository) BestClients(ctx context.Context, from, to time.Time, limit int) ([]model.BestClient, error) {
	var rows []struct {
		ClientID  uint
		FirstName string
		LastName  string
		TotalPaid decimal.Decimal
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			c.client_id AS client_id,
			p.first_name AS first_name,
			p.last_name AS last_name,
			SUM(j.price) AS total_paid
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		JOIN profiles p ON p.id = c.client_id
		WHERE j.paid = ?
			AND j.payment_date BETWEEN ? AND ?
		GROUP BY c.client_id, p.first_name, p.last_name
		ORDER BY total_paid DESC, c.client_id ASC
		LIMIT ?
	`, true, from, to, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]model.BestClient, 0, len(rows))
	for _, row := range rows {
		result = append(result, model.BestClient{
			ClientID:  row.ClientID,
			FullName:  model.Profile{FirstName: row.FirstName, LastName: row.LastName}.FullName(),
			TotalPaid: row.TotalPaid,
		})
	}
	return result, nil
}
