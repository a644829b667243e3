package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nurpe/freelance-backoffice/internal/model"
	"github.com/nurpe/freelance-backoffice/internal/repository"
	"github.com/nurpe/freelance-backoffice/internal/testutil"
)

type recordingExcel struct {
	report model.EarningsReport
	calls  int
}

func (r *recordingExcel) Generate(report model.EarningsReport) ([]byte, error) {
	r.report = report
	r.calls++
	return []byte("xlsx"), nil
}

func seedEarnings(t *testing.T) (*repository.Store, map[string]*model.Profile) {
	t.Helper()
	db := testutil.DB(t)
	profiles := map[string]*model.Profile{
		"harry":  testutil.SeedNamedProfile(t, db, model.ProfileRoleClient, "Harry", "Potter", "Wizard", "0"),
		"mr":     testutil.SeedNamedProfile(t, db, model.ProfileRoleClient, "Mr", "Robot", "Hacker", "0"),
		"ash":    testutil.SeedNamedProfile(t, db, model.ProfileRoleClient, "Ash", "Kethcum", "Pokemon master", "0"),
		"john":   testutil.SeedNamedProfile(t, db, model.ProfileRoleContractor, "John", "Lenon", "Musician", "0"),
		"linus":  testutil.SeedNamedProfile(t, db, model.ProfileRoleContractor, "Linus", "Torvalds", "Programmer", "0"),
		"alan":   testutil.SeedNamedProfile(t, db, model.ProfileRoleContractor, "Alan", "Turing", "Programmer", "0"),
	}

	inRange := time.Date(2023, 5, 10, 12, 0, 0, 0, time.UTC)
	outOfRange := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

	pay := func(client, contractor, price string, at time.Time) {
		c := testutil.SeedContract(t, db, profiles[client].ID, profiles[contractor].ID, model.ContractStatusInProgress)
		testutil.SeedPaidJob(t, db, c.ID, price, at)
	}
	pay("harry", "john", "300", inRange)
	pay("harry", "linus", "200", inRange)
	pay("mr", "alan", "250", inRange)
	pay("ash", "john", "100", inRange)
	pay("ash", "john", "5000", outOfRange)

	unpaid := testutil.SeedContract(t, db, profiles["mr"].ID, profiles["john"].ID, model.ContractStatusInProgress)
	testutil.SeedJob(t, db, unpaid.ID, "9000")

	return repository.NewStore(db), profiles
}

func year2023(t *testing.T) DateRange {
	t.Helper()
	rng, err := ParseDateRange("2023-01-01", "2023-12-31")
	if err != nil {
		t.Fatalf("ParseDateRange: %v", err)
	}
	return rng
}

func TestBestProfession(t *testing.T) {
	store, _ := seedEarnings(t)
	svc := NewAdminService(store, &recordingExcel{})

	best, err := svc.BestProfession(context.Background(), year2023(t))
	if err != nil {
		t.Fatalf("BestProfession: %v", err)
	}
	if best.Profession != "Programmer" || !best.TotalEarned.Equal(testutil.Amount("450")) {
		t.Errorf("best = %+v, want Programmer/450", best)
	}
}

func TestBestProfessionNoData(t *testing.T) {
	store, _ := seedEarnings(t)
	svc := NewAdminService(store, &recordingExcel{})

	rng, err := ParseDateRange("2010-01-01", "2010-12-31")
	if err != nil {
		t.Fatalf("ParseDateRange: %v", err)
	}
	if _, err := svc.BestProfession(context.Background(), rng); !errors.Is(err, ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
}

func TestBestClients(t *testing.T) {
	store, profiles := seedEarnings(t)
	svc := NewAdminService(store, &recordingExcel{})

	clients, err := svc.BestClients(context.Background(), year2023(t), 2)
	if err != nil {
		t.Fatalf("BestClients: %v", err)
	}
	if len(clients) != 2 {
		t.Fatalf("got %d clients, want 2", len(clients))
	}
	if clients[0].ClientID != profiles["harry"].ID || !clients[0].TotalPaid.Equal(testutil.Amount("500")) {
		t.Errorf("first = %+v", clients[0])
	}
	if clients[1].ClientID != profiles["mr"].ID || clients[1].FullName != "Mr Robot" {
		t.Errorf("second = %+v", clients[1])
	}
	if clients[0].TotalPaid.LessThan(clients[1].TotalPaid) {
		t.Error("clients must be sorted by total descending")
	}
}

func TestBestClientsLimit(t *testing.T) {
	store, _ := seedEarnings(t)
	svc := NewAdminService(store, &recordingExcel{})
	ctx := context.Background()

	clients, err := svc.BestClients(ctx, year2023(t), 0)
	if err != nil {
		t.Fatalf("BestClients: %v", err)
	}
	if len(clients) != DefaultBestClientsLimit {
		t.Errorf("default limit returned %d clients", len(clients))
	}

	clients, err = svc.BestClients(ctx, year2023(t), 10)
	if err != nil {
		t.Fatalf("BestClients: %v", err)
	}
	if len(clients) != 3 {
		t.Errorf("got %d clients, want 3", len(clients))
	}

	for _, limit := range []int{-1, 101} {
		if _, err := svc.BestClients(ctx, year2023(t), limit); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("limit %d: err = %v, want ErrInvalidInput", limit, err)
		}
	}
}

func TestExportReport(t *testing.T) {
	store, _ := seedEarnings(t)
	excel := &recordingExcel{}
	svc := NewAdminService(store, excel)

	result, err := svc.ExportReport(context.Background(), year2023(t), 3)
	if err != nil {
		t.Fatalf("ExportReport: %v", err)
	}
	if result.FileName != "earnings-20230101-20231231.xlsx" {
		t.Errorf("FileName = %q", result.FileName)
	}
	if string(result.Content) != "xlsx" || excel.calls != 1 {
		t.Errorf("generator not used: %q, %d calls", result.Content, excel.calls)
	}
	if excel.report.BestProfession == nil || excel.report.BestProfession.Profession != "Programmer" {
		t.Errorf("BestProfession = %+v", excel.report.BestProfession)
	}
	if len(excel.report.BestClients) != 3 {
		t.Errorf("BestClients = %+v", excel.report.BestClients)
	}
}

func TestExportReportNoData(t *testing.T) {
	store, _ := seedEarnings(t)
	excel := &recordingExcel{}
	svc := NewAdminService(store, excel)

	rng, err := ParseDateRange("2010-01-01", "2010-12-31")
	if err != nil {
		t.Fatalf("ParseDateRange: %v", err)
	}
	if _, err := svc.ExportReport(context.Background(), rng, 2); !errors.Is(err, ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
	if excel.calls != 0 {
		t.Error("generator must not run without data")
	}
}
