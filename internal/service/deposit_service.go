package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/freelance-backoffice/internal/config"
	"github.com/nurpe/freelance-backoffice/internal/model"
	"github.com/nurpe/freelance-backoffice/internal/repository"
)

// depositShare is the fraction of the recipient's outstanding unpaid work
// that a deposit moves.
var depositShare = decimal.RequireFromString("0.25")

// balanceScale matches the NUMERIC(12,2) balance column.
const balanceScale = 2

type DepositService struct {
	tx  txRunner
	log zerolog.Logger
}

func NewDepositService(store *repository.Store, cfg *config.Config, log zerolog.Logger) *DepositService {
	log = log.With().Str("component", "deposits").Logger()
	return &DepositService{
		tx:  newTxRunner(store, cfg, log),
		log: log,
	}
}

// DepositAmount is the amount a deposit transfers for the given unpaid jobs,
// rounded half away from zero to the two places a balance can hold. Both
// sides of the transfer move by this exact value.
func DepositAmount(unpaid []model.Job) decimal.Decimal {
	total := decimal.Zero
	for _, job := range unpaid {
		total = total.Add(job.Price)
	}
	return total.Mul(depositShare).Round(balanceScale)
}

// Deposit transfers a quarter of the recipient's unpaid in-progress work
// from the depositor to the recipient.
func (s *DepositService) Deposit(ctx context.Context, depositor model.Profile, recipientID uint) (*model.DepositResult, error) {
	if recipientID == 0 {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	var result *model.DepositResult
	err := s.tx.run(ctx, "deposit", func(ctx context.Context, tx *repository.Store) error {
		if _, err := tx.Profiles.GetByID(ctx, recipientID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: recipient %d", ErrNotFound, recipientID)
			}
			return err
		}

		// Jobs are locked before profiles, the same order PayForJob uses.
		unpaid, err := tx.Jobs.LockUnpaidByProfile(ctx, recipientID)
		if err != nil {
			return err
		}
		amount := DepositAmount(unpaid)

		profiles, err := tx.Profiles.LockByIDs(ctx, depositor.ID, recipientID)
		if err != nil {
			return err
		}
		payer, recipient := profiles[depositor.ID], profiles[recipientID]
		if payer == nil {
			return fmt.Errorf("%w: depositor %d", ErrNotFound, depositor.ID)
		}
		if recipient == nil {
			return fmt.Errorf("%w: recipient %d", ErrNotFound, recipientID)
		}

		// Both conditions must hold. A zero deposit from a depositor with a
		// positive balance goes through.
		if amount.LessThanOrEqual(decimal.Zero) && payer.Balance.LessThanOrEqual(amount) {
			return ErrInvalidDeposit
		}

		if err := tx.Profiles.Debit(ctx, payer.ID, amount); err != nil {
			return err
		}
		if err := tx.Profiles.Credit(ctx, recipient.ID, amount); err != nil {
			return err
		}

		result = &model.DepositResult{
			Success:       true,
			Message:       "Deposit successful",
			RecipientID:   recipient.ID,
			DepositAmount: amount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Uint("depositor_id", depositor.ID).
		Uint("recipient_id", recipientID).
		Str("amount", result.DepositAmount.String()).
		Msg("deposit applied")
	return result, nil
}
