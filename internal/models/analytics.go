package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardOverview represents the reconciled portfolio totals shown on the
// dashboard. All figures are recomputed on demand from the loan set.
type DashboardOverview struct {
	OutstandingPrincipal decimal.Decimal `json:"outstanding_principal"`
	InterestThisMonth    decimal.Decimal `json:"interest_this_month"`
	OverdueExposure      decimal.Decimal `json:"overdue_exposure"`
	EstimatedThisMonth   decimal.Decimal `json:"estimated_this_month"`
	EstimateApproximate  bool            `json:"estimate_approximate"`
	ActiveLoans          int             `json:"active_loans"`
	OverdueLoans         int             `json:"overdue_loans"`
	DefaultedLoans       int             `json:"defaulted_loans"`
	PaidLoans            int             `json:"paid_loans"`
	ActiveAdvances       int             `json:"active_advances"`
	OverdueAdvances      int             `json:"overdue_advances"`
	GeneratedAt          time.Time       `json:"generated_at"`
}
