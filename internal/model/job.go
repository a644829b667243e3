package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Job struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Description string          `gorm:"type:text;not null;default:''" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Paid        *bool           `json:"paid"`
	PaymentDate *time.Time      `json:"paymentDate"`
	ContractID  uint            `gorm:"not null;index" json:"contractId"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// IsPaid treats a NULL paid flag as unpaid.
func (j Job) IsPaid() bool {
	return j.Paid != nil && *j.Paid
}

type PaymentResult struct {
	Success           bool            `json:"success"`
	Message           string          `json:"message"`
	Job               Job             `json:"job"`
	Amount            decimal.Decimal `json:"amount"`
	ClientBalance     decimal.Decimal `json:"clientBalance"`
	ContractorBalance decimal.Decimal `json:"contractorBalance"`
}

type DepositResult struct {
	Success       bool            `json:"success"`
	Message       string          `json:"message"`
	RecipientID   uint            `json:"recipientId"`
	DepositAmount decimal.Decimal `json:"depositAmount"`
}

// Receipt is everything needed to render a payment confirmation for a paid job.
type Receipt struct {
	Job        Job
	Contract   Contract
	Client     Profile
	Contractor Profile
}
