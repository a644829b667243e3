package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/nurpe/freelance-backoffice/internal/config"
	"github.com/nurpe/freelance-backoffice/internal/model"
	"github.com/nurpe/freelance-backoffice/internal/repository"
)

type PaymentService struct {
	tx  txRunner
	log zerolog.Logger
	now func() time.Time
}

func NewPaymentService(store *repository.Store, cfg *config.Config, log zerolog.Logger) *PaymentService {
	log = log.With().Str("component", "payments").Logger()
	return &PaymentService{
		tx:  newTxRunner(store, cfg, log),
		log: log,
		now: func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// PayForJob moves the job price from the contract's client to its contractor
// and marks the job paid, all in one transaction. Only the client may pay.
func (s *PaymentService) PayForJob(ctx context.Context, jobID, payerID uint) (*model.PaymentResult, error) {
	if jobID == 0 {
		return nil, fmt.Errorf("%w: job id is required", ErrInvalidInput)
	}

	var result *model.PaymentResult
	err := s.tx.run(ctx, "pay for job", func(ctx context.Context, tx *repository.Store) error {
		job, err := tx.Jobs.LockPayable(ctx, jobID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: job %d", ErrNotFound, jobID)
			}
			return err
		}

		contract, err := tx.Contracts.GetByID(ctx, job.ContractID)
		if err != nil {
			return fmt.Errorf("load contract %d: %w", job.ContractID, err)
		}

		profiles, err := tx.Profiles.LockByIDs(ctx, contract.ClientID, contract.ContractorID)
		if err != nil {
			return err
		}
		client, contractor := profiles[contract.ClientID], profiles[contract.ContractorID]
		if client == nil || contractor == nil {
			return fmt.Errorf("contract %d references a missing profile", contract.ID)
		}

		if client.ID != payerID {
			return ErrUnauthorized
		}
		if client.Balance.LessThan(job.Price) {
			return ErrInsufficientFunds
		}

		if err := tx.Profiles.Debit(ctx, client.ID, job.Price); err != nil {
			return err
		}
		if err := tx.Profiles.Credit(ctx, contractor.ID, job.Price); err != nil {
			return err
		}

		paidAt := s.now()
		if err := tx.Jobs.MarkPaid(ctx, job.ID, paidAt); err != nil {
			// Another writer settled the job after it was read.
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: job %d", ErrNotFound, jobID)
			}
			return err
		}

		paid := true
		job.Paid = &paid
		job.PaymentDate = &paidAt
		job.UpdatedAt = paidAt

		// A self-contract nets to zero.
		clientBalance := client.Balance.Sub(job.Price)
		contractorBalance := contractor.Balance.Add(job.Price)
		if client.ID == contractor.ID {
			clientBalance = client.Balance
			contractorBalance = client.Balance
		}

		result = &model.PaymentResult{
			Success:           true,
			Message:           "Payment successful",
			Job:               *job,
			Amount:            job.Price,
			ClientBalance:     clientBalance,
			ContractorBalance: contractorBalance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Uint("job_id", jobID).
		Uint("client_id", payerID).
		Str("amount", result.Amount.String()).
		Msg("job paid")
	return result, nil
}
