package wallet

import (
	"strings"

	"github.com/kolo-pay/kolo_pay/internal/provider"
)

// TotalsMode selects which spending aggregation the facade reports.
//
// The system this facade replaces accumulated credit amounts into the debit
// total and debit amounts into the credit total. Downstream consumers may
// depend on that labeling, so the swapped accumulation is preserved as
// TotalsCompat and stays the default until the product owner signs off on
// switching to TotalsCorrected.
type TotalsMode string

const (
	TotalsCompat    TotalsMode = "compat"
	TotalsCorrected TotalsMode = "corrected"
)

// ParseTotalsMode validates a configured mode, defaulting to compat.
func ParseTotalsMode(raw string) TotalsMode {
	if TotalsMode(raw) == TotalsCorrected {
		return TotalsCorrected
	}
	return TotalsCompat
}

// Spending aggregates a transaction set.
type Spending struct {
	TotalCreditAmount float64 `json:"totalCreditAmount"`
	TotalDebitAmount  float64 `json:"totalDebitAmount"`
	TransactionCount  int     `json:"transactionCount"`
}

// SpendingTotals sums credits and debits over the transaction set under the
// given mode.
func SpendingTotals(transactions []provider.Transaction, mode TotalsMode) Spending {
	var credits, debits float64
	for _, tx := range transactions {
		switch strings.ToLower(tx.TransactionType) {
		case "credit":
			credits += tx.Amount
		case "debit":
			debits += tx.Amount
		}
	}

	spending := Spending{TransactionCount: len(transactions)}
	if mode == TotalsCorrected {
		spending.TotalCreditAmount = credits
		spending.TotalDebitAmount = debits
	} else {
		spending.TotalCreditAmount = debits
		spending.TotalDebitAmount = credits
	}
	return spending
}
