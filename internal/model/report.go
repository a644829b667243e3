package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type BestProfession struct {
	Profession  string          `json:"profession"`
	TotalEarned decimal.Decimal `json:"totalEarned"`
}

type BestClient struct {
	ClientID  uint            `json:"clientId"`
	FullName  string          `json:"fullName"`
	TotalPaid decimal.Decimal `json:"totalPaid"`
}

type EarningsReport struct {
	PeriodStart    time.Time
	PeriodEnd      time.Time
	BestProfession *BestProfession
	BestClients    []BestClient
}
