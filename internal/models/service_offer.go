package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ServiceOffer представляет тарифное предложение партнёра.
type ServiceOffer struct {
	ID          uuid.UUID       `json:"id"`
	PartnerID   int64           `json:"partnerId"`
	Title       string          `json:"title"`
	TermMonths  int             `json:"termMonths"`
	MonthlyRate decimal.Decimal `json:"monthlyRate"`
	SetupFee    decimal.Decimal `json:"setupFee"`
	Renewable   bool            `json:"renewable"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
}
