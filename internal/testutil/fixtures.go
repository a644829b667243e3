package testutil

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/freelance-backoffice/internal/model"
)

func Amount(raw string) decimal.Decimal {
	return decimal.RequireFromString(raw)
}

func SeedProfile(tb testing.TB, db *gorm.DB, role model.ProfileRole, balance, profession string) *model.Profile {
	tb.Helper()
	p := &model.Profile{
		FirstName:  "First",
		LastName:   string(role),
		Profession: profession,
		Balance:    Amount(balance),
		Role:       role,
	}
	if err := db.Create(p).Error; err != nil {
		tb.Fatalf("seed profile: %v", err)
	}
	return p
}

func SeedNamedProfile(tb testing.TB, db *gorm.DB, role model.ProfileRole, first, last, profession, balance string) *model.Profile {
	tb.Helper()
	p := &model.Profile{
		FirstName:  first,
		LastName:   last,
		Profession: profession,
		Balance:    Amount(balance),
		Role:       role,
	}
	if err := db.Create(p).Error; err != nil {
		tb.Fatalf("seed profile: %v", err)
	}
	return p
}

func SeedContract(tb testing.TB, db *gorm.DB, clientID, contractorID uint, status model.ContractStatus) *model.Contract {
	tb.Helper()
	c := &model.Contract{
		Terms:        "bla bla bla",
		Status:       status,
		ClientID:     clientID,
		ContractorID: contractorID,
	}
	if err := db.Create(c).Error; err != nil {
		tb.Fatalf("seed contract: %v", err)
	}
	return c
}

// SeedJob creates an unpaid job with a NULL paid flag.
func SeedJob(tb testing.TB, db *gorm.DB, contractID uint, price string) *model.Job {
	tb.Helper()
	j := &model.Job{
		Description: "work",
		Price:       Amount(price),
		ContractID:  contractID,
	}
	if err := db.Create(j).Error; err != nil {
		tb.Fatalf("seed job: %v", err)
	}
	return j
}

func SeedUnpaidJob(tb testing.TB, db *gorm.DB, contractID uint, price string) *model.Job {
	tb.Helper()
	paid := false
	j := &model.Job{
		Description: "work",
		Price:       Amount(price),
		Paid:        &paid,
		ContractID:  contractID,
	}
	if err := db.Create(j).Error; err != nil {
		tb.Fatalf("seed job: %v", err)
	}
	return j
}

func SeedPaidJob(tb testing.TB, db *gorm.DB, contractID uint, price string, paidAt time.Time) *model.Job {
	tb.Helper()
	paid := true
	at := paidAt.UTC()
	j := &model.Job{
		Description: "work",
		Price:       Amount(price),
		Paid:        &paid,
		PaymentDate: &at,
		ContractID:  contractID,
	}
	if err := db.Create(j).Error; err != nil {
		tb.Fatalf("seed job: %v", err)
	}
	return j
}

func ReloadProfile(tb testing.TB, db *gorm.DB, id uint) model.Profile {
	tb.Helper()
	var p model.Profile
	if err := db.First(&p, id).Error; err != nil {
		tb.Fatalf("reload profile %d: %v", id, err)
	}
	return p
}

func ReloadJob(tb testing.TB, db *gorm.DB, id uint) model.Job {
	tb.Helper()
	var j model.Job
	if err := db.First(&j, id).Error; err != nil {
		tb.Fatalf("reload job %d: %v", id, err)
	}
	return j
}
