package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/nurpe/freelance-backoffice/internal/model"
	"github.com/nurpe/freelance-backoffice/internal/repository"
	"github.com/nurpe/freelance-backoffice/internal/testutil"
)

func TestLockByIDsDeduplicates(t *testing.T) {
	db := testutil.DB(t)
	store := repository.NewStore(db)
	client := testutil.SeedProfile(t, db, model.ProfileRoleClient, "10", "")
	contractor := testutil.SeedProfile(t, db, model.ProfileRoleContractor, "20", "Programmer")

	var locked map[uint]*model.Profile
	err := store.InTx(context.Background(), func(tx *repository.Store) error {
		var err error
		locked, err = tx.Profiles.LockByIDs(context.Background(), contractor.ID, client.ID, client.ID, 999)
		return err
	})
	if err != nil {
		t.Fatalf("LockByIDs: %v", err)
	}
	if len(locked) != 2 {
		t.Fatalf("got %d profiles, want 2", len(locked))
	}
	if !locked[contractor.ID].Balance.Equal(testutil.Amount("20")) {
		t.Errorf("contractor balance = %s", locked[contractor.ID].Balance)
	}
}

func TestCreditDebit(t *testing.T) {
	db := testutil.DB(t)
	store := repository.NewStore(db)
	p := testutil.SeedProfile(t, db, model.ProfileRoleClient, "100.50", "")
	ctx := context.Background()

	if err := store.Profiles.Debit(ctx, p.ID, testutil.Amount("0.50")); err != nil {
		t.Fatalf("Debit: %v", err)
	}
	if err := store.Profiles.Credit(ctx, p.ID, testutil.Amount("25")); err != nil {
		t.Fatalf("Credit: %v", err)
	}
	got := testutil.ReloadProfile(t, db, p.ID)
	if !got.Balance.Equal(testutil.Amount("125")) {
		t.Errorf("balance = %s, want 125", got.Balance)
	}

	if err := store.Profiles.Credit(ctx, 4242, testutil.Amount("1")); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("Credit(missing) err = %v, want ErrRecordNotFound", err)
	}
}

func TestListUnpaidByProfile(t *testing.T) {
	db := testutil.DB(t)
	store := repository.NewStore(db)
	client := testutil.SeedProfile(t, db, model.ProfileRoleClient, "0", "")
	contractor := testutil.SeedProfile(t, db, model.ProfileRoleContractor, "0", "Programmer")
	stranger := testutil.SeedProfile(t, db, model.ProfileRoleClient, "0", "")

	active := testutil.SeedContract(t, db, client.ID, contractor.ID, model.ContractStatusInProgress)
	fresh := testutil.SeedContract(t, db, client.ID, contractor.ID, model.ContractStatusNew)
	done := testutil.SeedContract(t, db, client.ID, contractor.ID, model.ContractStatusTerminated)

	nullJob := testutil.SeedJob(t, db, active.ID, "100")
	falseJob := testutil.SeedUnpaidJob(t, db, active.ID, "300")
	testutil.SeedPaidJob(t, db, active.ID, "50", time.Now())
	testutil.SeedJob(t, db, fresh.ID, "70")
	testutil.SeedJob(t, db, done.ID, "80")

	for _, profileID := range []uint{client.ID, contractor.ID} {
		jobs, err := store.Jobs.ListUnpaidByProfile(context.Background(), profileID)
		if err != nil {
			t.Fatalf("ListUnpaidByProfile: %v", err)
		}
		if len(jobs) != 2 || jobs[0].ID != nullJob.ID || jobs[1].ID != falseJob.ID {
			t.Errorf("profile %d: got %+v", profileID, jobs)
		}
	}

	jobs, err := store.Jobs.ListUnpaidByProfile(context.Background(), stranger.ID)
	if err != nil {
		t.Fatalf("ListUnpaidByProfile: %v", err)
	}
	if len(jobs) != 0 {
		t.Errorf("stranger sees %d jobs", len(jobs))
	}
}

func TestLockPayableExcludesPaidAndTerminated(t *testing.T) {
	db := testutil.DB(t)
	store := repository.NewStore(db)
	client := testutil.SeedProfile(t, db, model.ProfileRoleClient, "0", "")
	contractor := testutil.SeedProfile(t, db, model.ProfileRoleContractor, "0", "Programmer")
	active := testutil.SeedContract(t, db, client.ID, contractor.ID, model.ContractStatusInProgress)
	done := testutil.SeedContract(t, db, client.ID, contractor.ID, model.ContractStatusTerminated)

	payable := testutil.SeedJob(t, db, active.ID, "10")
	paid := testutil.SeedPaidJob(t, db, active.ID, "10", time.Now())
	terminated := testutil.SeedJob(t, db, done.ID, "10")

	ctx := context.Background()
	if _, err := store.Jobs.LockPayable(ctx, payable.ID); err != nil {
		t.Errorf("LockPayable(payable): %v", err)
	}
	for _, id := range []uint{paid.ID, terminated.ID, 12345} {
		if _, err := store.Jobs.LockPayable(ctx, id); !errors.Is(err, gorm.ErrRecordNotFound) {
			t.Errorf("LockPayable(%d) err = %v, want ErrRecordNotFound", id, err)
		}
	}
}

func TestMarkPaidOnlyOnce(t *testing.T) {
	db := testutil.DB(t)
	store := repository.NewStore(db)
	client := testutil.SeedProfile(t, db, model.ProfileRoleClient, "0", "")
	contractor := testutil.SeedProfile(t, db, model.ProfileRoleContractor, "0", "Programmer")
	contract := testutil.SeedContract(t, db, client.ID, contractor.ID, model.ContractStatusInProgress)
	job := testutil.SeedJob(t, db, contract.ID, "10")

	first := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	if err := store.Jobs.MarkPaid(context.Background(), job.ID, first); err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	err := store.Jobs.MarkPaid(context.Background(), job.ID, first.Add(time.Hour))
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("second MarkPaid err = %v, want ErrRecordNotFound", err)
	}

	got := testutil.ReloadJob(t, db, job.ID)
	if !got.IsPaid() || got.PaymentDate == nil || !got.PaymentDate.Equal(first) {
		t.Errorf("job = %+v, want paid at %v", got, first)
	}
}

func TestContractQueries(t *testing.T) {
	db := testutil.DB(t)
	store := repository.NewStore(db)
	client := testutil.SeedProfile(t, db, model.ProfileRoleClient, "0", "")
	contractor := testutil.SeedProfile(t, db, model.ProfileRoleContractor, "0", "Programmer")
	other := testutil.SeedProfile(t, db, model.ProfileRoleClient, "0", "")

	c1 := testutil.SeedContract(t, db, client.ID, contractor.ID, model.ContractStatusNew)
	c2 := testutil.SeedContract(t, db, client.ID, contractor.ID, model.ContractStatusInProgress)
	testutil.SeedContract(t, db, client.ID, contractor.ID, model.ContractStatusTerminated)

	ctx := context.Background()
	active, err := store.Contracts.ListActiveByProfile(ctx, contractor.ID)
	if err != nil {
		t.Fatalf("ListActiveByProfile: %v", err)
	}
	if len(active) != 2 || active[0].ID != c1.ID || active[1].ID != c2.ID {
		t.Errorf("active = %+v", active)
	}

	if _, err := store.Contracts.GetByIDForProfile(ctx, c1.ID, client.ID); err != nil {
		t.Errorf("GetByIDForProfile(client): %v", err)
	}
	if _, err := store.Contracts.GetByIDForProfile(ctx, c1.ID, other.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("GetByIDForProfile(other) err = %v", err)
	}
}

func TestBestClientsOrdering(t *testing.T) {
	db := testutil.DB(t)
	store := repository.NewStore(db)
	contractor := testutil.SeedProfile(t, db, model.ProfileRoleContractor, "0", "Programmer")
	a := testutil.SeedNamedProfile(t, db, model.ProfileRoleClient, "Ash", "Kethcum", "", "0")
	b := testutil.SeedNamedProfile(t, db, model.ProfileRoleClient, "Mr", "Robot", "", "0")
	c := testutil.SeedNamedProfile(t, db, model.ProfileRoleClient, "John", "Snow", "", "0")

	paidAt := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	for _, tc := range []struct {
		client uint
		price  string
	}{
		{a.ID, "200"}, {b.ID, "150"}, {b.ID, "50"}, {c.ID, "500"},
	} {
		contract := testutil.SeedContract(t, db, tc.client, contractor.ID, model.ContractStatusInProgress)
		testutil.SeedPaidJob(t, db, contract.ID, tc.price, paidAt)
	}

	from := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC)
	clients, err := store.Reports.BestClients(context.Background(), from, to, 3)
	if err != nil {
		t.Fatalf("BestClients: %v", err)
	}
	if len(clients) != 3 {
		t.Fatalf("got %d clients, want 3", len(clients))
	}
	if clients[0].ClientID != c.ID || !clients[0].TotalPaid.Equal(testutil.Amount("500")) {
		t.Errorf("first = %+v", clients[0])
	}
	// a and b both paid 200; the lower id wins.
	if clients[1].ClientID != a.ID || clients[2].ClientID != b.ID {
		t.Errorf("tie order = %d, %d", clients[1].ClientID, clients[2].ClientID)
	}
	if clients[2].FullName != "Mr Robot" {
		t.Errorf("FullName = %q", clients[2].FullName)
	}
}

func TestBestProfessionEmptyRange(t *testing.T) {
	db := testutil.DB(t)
	store := repository.NewStore(db)
	from := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := store.Reports.BestProfession(context.Background(), from, from.Add(time.Hour))
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err = %v, want ErrRecordNotFound", err)
	}
}

func TestInTxRollsBackOnError(t *testing.T) {
	db := testutil.DB(t)
	store := repository.NewStore(db)
	p := testutil.SeedProfile(t, db, model.ProfileRoleClient, "100", "")
	boom := errors.New("boom")

	err := store.InTx(context.Background(), func(tx *repository.Store) error {
		if err := tx.Profiles.Debit(context.Background(), p.ID, testutil.Amount("40")); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if got := testutil.ReloadProfile(t, db, p.ID); !got.Balance.Equal(testutil.Amount("100")) {
		t.Errorf("balance = %s, want 100", got.Balance)
	}
}
