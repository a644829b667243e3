package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nurpe/freelance-backoffice/internal/http/middleware"
	"github.com/nurpe/freelance-backoffice/internal/service"
)

type Services struct {
	Contracts *service.ContractService
	Jobs      *service.JobService
	Payments  *service.PaymentService
	Deposits  *service.DepositService
	Admin     *service.AdminService
}

type Handler struct {
	services Services
	log      zerolog.Logger
}

func NewHandler(services Services, log zerolog.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// Register mounts the profile-protected routes. Money-moving routes also pass
// through the rate limiter.
func (h *Handler) Register(router *gin.Engine, profileMiddleware, rateLimit gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(profileMiddleware)

	protected.GET("/contracts/:id", h.getContract)
	protected.GET("/contracts", h.listContracts)

	protected.GET("/jobs/unpaid", h.unpaidJobs)
	protected.POST("/jobs/:job_id/pay", rateLimit, h.payForJob)
	protected.GET("/jobs/:job_id/receipt", h.jobReceipt)

	protected.POST("/balances/deposit/:userId", rateLimit, h.deposit)

	admin := protected.Group("/admin")
	admin.GET("/best-profession", h.bestProfession)
	admin.GET("/best-clients", h.bestClients)
	admin.GET("/report", h.exportReport)
}

func (h *Handler) getContract(c *gin.Context) {
	profile, ok := middleware.MustProfile(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing profile"})
		return
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "contract id must be a positive integer"})
		return
	}

	contract, err := h.services.Contracts.GetByIDAndProfile(c.Request.Context(), id, profile)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *Handler) listContracts(c *gin.Context) {
	profile, ok := middleware.MustProfile(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing profile"})
		return
	}

	contracts, err := h.services.Contracts.ListByProfile(c.Request.Context(), profile)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if len(contracts) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active contracts found"})
		return
	}
	c.JSON(http.StatusOK, contracts)
}

func (h *Handler) unpaidJobs(c *gin.Context) {
	profile, ok := middleware.MustProfile(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing profile"})
		return
	}

	jobs, err := h.services.Jobs.UnpaidJobs(c.Request.Context(), profile)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if len(jobs) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No unpaid jobs found"})
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *Handler) payForJob(c *gin.Context) {
	profile, ok := middleware.MustProfile(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing profile"})
		return
	}

	jobID, err := parseID(c.Param("job_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Job ID must be an integer"})
		return
	}

	result, err := h.services.Payments.PayForJob(c.Request.Context(), jobID, profile.ID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) jobReceipt(c *gin.Context) {
	profile, ok := middleware.MustProfile(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing profile"})
		return
	}

	jobID, err := parseID(c.Param("job_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Job ID must be an integer"})
		return
	}

	result, err := h.services.Jobs.Receipt(c.Request.Context(), jobID, profile)
	if err != nil {
		h.handleError(c, err)
		return
	}
	sendFile(c, result)
}

func (h *Handler) deposit(c *gin.Context) {
	profile, ok := middleware.MustProfile(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing profile"})
		return
	}

	recipientID, err := parseID(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID must be an integer"})
		return
	}

	result, err := h.services.Deposits.Deposit(c.Request.Context(), profile, recipientID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) bestProfession(c *gin.Context) {
	period, err := service.ParseDateRange(c.Query("start"), c.Query("end"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	best, err := h.services.Admin.BestProfession(c.Request.Context(), period)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, best)
}

func (h *Handler) bestClients(c *gin.Context) {
	period, err := service.ParseDateRange(c.Query("start"), c.Query("end"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	limit, err := parseLimit(c.Query("limit"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	clients, err := h.services.Admin.BestClients(c.Request.Context(), period, limit)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

func (h *Handler) exportReport(c *gin.Context) {
	period, err := service.ParseDateRange(c.Query("start"), c.Query("end"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	limit, err := parseLimit(c.Query("limit"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	result, err := h.services.Admin.ExportReport(c.Request.Context(), period, limit)
	if err != nil {
		h.handleError(c, err)
		return
	}
	sendFile(c, result)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrNoData):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, service.ErrInsufficientFunds),
		errors.Is(err, service.ErrInvalidDeposit),
		errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Str("request_id", middleware.GetRequestID(c)).
			Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func sendFile(c *gin.Context, result *service.FileResult) {
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, result.ContentType, result.Content)
}

// parseID accepts positive decimal integers only.
func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, service.ErrInvalidInput
	}
	return uint(id), nil
}

func parseLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > service.MaxBestClientsLimit {
		return 0, errInvalidLimit
	}
	return limit, nil
}

var errInvalidLimit = fmt.Errorf("%w: limit must be an integer between 1 and %d", service.ErrInvalidInput, service.MaxBestClientsLimit)
