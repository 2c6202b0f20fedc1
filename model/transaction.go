/*
Copyright 2025 Taqseet Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction statuses.
const (
	TransactionStatusActive    = "active"
	TransactionStatusCompleted = "completed"
	TransactionStatusOverdue   = "overdue"
)

// Transaction is one installment-sale agreement. SequenceNumber is the
// human-facing display identifier and must be unique among transactions;
// TransactionID is the internal id.
type Transaction struct {
	ID                   int64                  `json:"-"`
	TransactionID        string                 `json:"transaction_id"`
	SequenceNumber       string                 `json:"sequence_number"`
	CustomerID           string                 `json:"customer_id"`
	CostPrice            float64                `json:"cost_price"`
	ExtraPrice           float64                `json:"extra_price"`
	Amount               float64                `json:"amount"`
	InstallmentAmount    float64                `json:"installment_amount"`
	NumberOfInstallments int                    `json:"number_of_installments"`
	StartDate            time.Time              `json:"start_date"`
	RemainingBalance     float64                `json:"remaining_balance"`
	Status               string                 `json:"status"`
	CreatedAt            time.Time              `json:"created_at"`
	MetaData             map[string]interface{} `json:"meta_data,omitempty"`
}

// Attachment is a legacy file reference (image or PDF) carried through an
// import as a bare URL. It is linked only after the parent transaction has
// been persisted.
type Attachment struct {
	ID            int64     `json:"-"`
	AttachmentID  string    `json:"attachment_id"`
	TransactionID string    `json:"transaction_id"`
	URL           string    `json:"url"`
	Kind          string    `json:"kind"`
	CreatedAt     time.Time `json:"created_at"`
}

// ComputeAmounts derives the total amount and the per-installment amount.
// The total is the explicit total when positive, otherwise cost + extra.
// The installment amount is total / count rounded to 3 decimal places, the
// currency precision used throughout the ledger.
func ComputeAmounts(costPrice, extraPrice, explicitTotal float64, installments int) (amount, installmentAmount float64) {
	total := decimal.NewFromFloat(explicitTotal)
	if total.Sign() <= 0 {
		total = decimal.NewFromFloat(costPrice).Add(decimal.NewFromFloat(extraPrice))
	}
	per := total.Div(decimal.NewFromInt(int64(installments))).Round(3)
	return total.InexactFloat64(), per.InexactFloat64()
}
