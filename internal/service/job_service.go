package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nurpe/freelance-backoffice/internal/model"
	"github.com/nurpe/freelance-backoffice/internal/repository"
)

type ReceiptGenerator interface {
	Generate(receipt model.Receipt) ([]byte, error)
}

type FileResult struct {
	FileName    string
	ContentType string
	Content     []byte
}

type JobService struct {
	store    *repository.Store
	receipts ReceiptGenerator
}

func NewJobService(store *repository.Store, receipts ReceiptGenerator) *JobService {
	return &JobService{store: store, receipts: receipts}
}

func (s *JobService) UnpaidJobs(ctx context.Context, profile model.Profile) ([]model.Job, error) {
	return s.store.Jobs.ListUnpaidByProfile(ctx, profile.ID)
}

// Receipt renders a payment confirmation for a paid job. Only the client and
// the contractor of the job's contract can fetch it.
func (s *JobService) Receipt(ctx context.Context, jobID uint, profile model.Profile) (*FileResult, error) {
	if jobID == 0 {
		return nil, fmt.Errorf("%w: job id is required", ErrInvalidInput)
	}

	job, err := s.store.Jobs.GetPaidForProfile(ctx, jobID, profile.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no paid job %d", ErrNotFound, jobID)
		}
		return nil, err
	}
	contract, err := s.store.Contracts.GetByID(ctx, job.ContractID)
	if err != nil {
		return nil, err
	}
	client, err := s.store.Profiles.GetByID(ctx, contract.ClientID)
	if err != nil {
		return nil, err
	}
	contractor, err := s.store.Profiles.GetByID(ctx, contract.ContractorID)
	if err != nil {
		return nil, err
	}

	content, err := s.receipts.Generate(model.Receipt{
		Job:        *job,
		Contract:   *contract,
		Client:     *client,
		Contractor: *contractor,
	})
	if err != nil {
		return nil, err
	}
	return &FileResult{
		FileName:    fmt.Sprintf("receipt-job-%d.pdf", job.ID),
		ContentType: "application/pdf",
		Content:     content,
	}, nil
}
