package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/nurpe/freelance-backoffice/internal/model"
	"github.com/nurpe/freelance-backoffice/internal/repository"
)

const (
	DefaultBestClientsLimit = 2
	MaxBestClientsLimit     = 100
)

type ExcelGenerator interface {
	Generate(report model.EarningsReport) ([]byte, error)
}

type AdminService struct {
	reports *repository.ReportRepository
	excel   ExcelGenerator
}

func NewAdminService(store *repository.Store, excel ExcelGenerator) *AdminService {
	return &AdminService{reports: store.Reports, excel: excel}
}

func (s *AdminService) BestProfession(ctx context.Context, period DateRange) (*model.BestProfession, error) {
	best, err := s.reports.BestProfession(ctx, period.Start, period.End)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoData
		}
		return nil, err
	}
	return best, nil
}

// BestClients returns the top clients by total paid. A zero limit means the
// default of two.
func (s *AdminService) BestClients(ctx context.Context, period DateRange, limit int) ([]model.BestClient, error) {
	limit, err := normalizeLimit(limit)
	if err != nil {
		return nil, err
	}
	return s.reports.BestClients(ctx, period.Start, period.End, limit)
}

// ExportReport builds the earnings workbook for the period.
func (s *AdminService) ExportReport(ctx context.Context, period DateRange, limit int) (*FileResult, error) {
	limit, err := normalizeLimit(limit)
	if err != nil {
		return nil, err
	}

	report := model.EarningsReport{
		PeriodStart: period.Start,
		PeriodEnd:   period.End,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		best, err := s.BestProfession(gctx, period)
		if errors.Is(err, ErrNoData) {
			return nil
		}
		report.BestProfession = best
		return err
	})
	g.Go(func() error {
		clients, err := s.reports.BestClients(gctx, period.Start, period.End, limit)
		report.BestClients = clients
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if report.BestProfession == nil && len(report.BestClients) == 0 {
		return nil, ErrNoData
	}

	content, err := s.excel.Generate(report)
	if err != nil {
		return nil, err
	}
	return &FileResult{
		FileName: fmt.Sprintf("earnings-%s-%s.xlsx",
			period.Start.Format("20060102"), period.End.Format("20060102")),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Content:     content,
	}, nil
}

func normalizeLimit(limit int) (int, error) {
	if limit == 0 {
		return DefaultBestClientsLimit, nil
	}
	if limit < 1 || limit > MaxBestClientsLimit {
		return 0, fmt.Errorf("%w: limit must be an integer between 1 and %d", ErrInvalidInput, MaxBestClientsLimit)
	}
	return limit, nil
}
