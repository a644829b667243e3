package service

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/nurpe/freelance-backoffice/internal/config"
	"github.com/nurpe/freelance-backoffice/internal/model"
	"github.com/nurpe/freelance-backoffice/internal/repository"
	"github.com/nurpe/freelance-backoffice/internal/testutil"
)

func testConfig() *config.Config {
	return &config.Config{
		Payments: config.PaymentsConfig{
			TxTimeout:  5 * time.Second,
			MaxRetries: 0,
		},
	}
}

type fixture struct {
	db         *gorm.DB
	store      *repository.Store
	client     *model.Profile
	contractor *model.Profile
	contract   *model.Contract
}

func newFixture(t *testing.T, clientBalance, contractorBalance string) fixture {
	t.Helper()
	db := testutil.DB(t)
	client := testutil.SeedNamedProfile(t, db, model.ProfileRoleClient, "Harry", "Potter", "Wizard", clientBalance)
	contractor := testutil.SeedNamedProfile(t, db, model.ProfileRoleContractor, "John", "Lenon", "Musician", contractorBalance)
	contract := testutil.SeedContract(t, db, client.ID, contractor.ID, model.ContractStatusInProgress)
	return fixture{
		db:         db,
		store:      repository.NewStore(db),
		client:     client,
		contractor: contractor,
		contract:   contract,
	}
}

func (f fixture) balance(t *testing.T, id uint) string {
	t.Helper()
	return testutil.ReloadProfile(t, f.db, id).Balance.String()
}
