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

package taqseet

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/taqseet/taqseet/model"
)

// Serial values below this cannot be a plausible days-since-1900 date for
// this system's data (25569 is 1970-01-01), so smaller numerics fall
// through to the text date formats.
const serialDateThreshold = 25569

// FloatResult is the outcome of parsing one numeric cell. When the cell is
// missing or unparsable the value is substituted rather than rejected, and
// the substitution is recorded so tests and auditors can see it.
type FloatResult struct {
	Value     float64
	Defaulted bool
	Reason    string
}

// IntResult is the integer counterpart of FloatResult.
type IntResult struct {
	Value     int
	Defaulted bool
	Reason    string
}

// DateResult is the date counterpart of FloatResult.
type DateResult struct {
	Value     time.Time
	Defaulted bool
	Reason    string
}

// ValidatedRow is a row that passed validation: a ready-to-persist
// transaction plus optional legacy attachment references and the audit
// trail of every defaulted field. A row is either fully validated or
// rejected; there is no partial form.
type ValidatedRow struct {
	Transaction   *model.Transaction
	ImageURL      string
	PDFURL        string
	Substitutions []string
}

// ValidateRow normalizes and validates one import row against the customer
// index and the set of sequence numbers already committed to storage. It
// returns either a validated row or a non-empty list of human-readable
// errors, never both. All problems on the row accumulate; validation does
// not stop at the first.
func ValidateRow(row model.ImportRow, mapping model.FieldMapping, index *CustomerIndex, existing map[string]struct{}) (*ValidatedRow, []string) {
	var errs []string
	var substitutions []string

	seqCell := strings.TrimSpace(cellFor(row, mapping, model.FieldCustomerSequence))
	nameCell := cellFor(row, mapping, model.FieldCustomerName)
	ref, found := index.Lookup(seqCell, nameCell)
	if !found {
		attempted := seqCell
		if attempted == "" {
			attempted = strings.TrimSpace(nameCell)
		}
		errs = append(errs, fmt.Sprintf("customer not found for identifier %q", attempted))
	}

	costPrice := parseFloatCell(cellFor(row, mapping, model.FieldCostPrice), "cost_price", 0)
	extraPrice := parseFloatCell(cellFor(row, mapping, model.FieldExtraPrice), "extra_price", 0)
	totalAmount := parseFloatCell(cellFor(row, mapping, model.FieldTotalAmount), "total_amount", 0)
	installments := parseIntCell(cellFor(row, mapping, model.FieldInstallments), "number_of_installments", 1)

	// A zero or negative installment count would corrupt the
	// installment-amount division, so unlike the other numerics it is a
	// hard error.
	if installments.Value <= 0 {
		errs = append(errs, "number of installments must be greater than zero")
	}

	startDate := parseDateCell(cellFor(row, mapping, model.FieldStartDate))

	txnSequence := strings.TrimSpace(cellFor(row, mapping, model.FieldTransactionSequence))
	if txnSequence != "" {
		if _, dup := existing[txnSequence]; dup {
			errs = append(errs, fmt.Sprintf("transaction sequence number %q already exists", txnSequence))
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	for _, r := range []struct {
		defaulted bool
		reason    string
	}{
		{costPrice.Defaulted, costPrice.Reason},
		{extraPrice.Defaulted, extraPrice.Reason},
		{totalAmount.Defaulted, totalAmount.Reason},
		{installments.Defaulted, installments.Reason},
		{startDate.Defaulted, startDate.Reason},
	} {
		if r.defaulted && r.reason != "" {
			substitutions = append(substitutions, r.reason)
		}
	}

	amount, installmentAmount := model.ComputeAmounts(costPrice.Value, extraPrice.Value, totalAmount.Value, installments.Value)

	txn := &model.Transaction{
		TransactionID:        model.GenerateUUIDWithSuffix("txn"),
		SequenceNumber:       txnSequence,
		CustomerID:           ref.CustomerID,
		CostPrice:            costPrice.Value,
		ExtraPrice:           extraPrice.Value,
		Amount:               amount,
		InstallmentAmount:    installmentAmount,
		NumberOfInstallments: installments.Value,
		StartDate:            startDate.Value,
		RemainingBalance:     amount,
		Status:               model.TransactionStatusActive,
		CreatedAt:            time.Now(),
	}

	return &ValidatedRow{
		Transaction:   txn,
		ImageURL:      strings.TrimSpace(cellFor(row, mapping, model.FieldImageURL)),
		PDFURL:        strings.TrimSpace(cellFor(row, mapping, model.FieldPDFURL)),
		Substitutions: substitutions,
	}, nil
}

// cellFor finds the cell mapped to an internal field name. The mapping is
// column→field, so it is scanned rather than indexed; mappings are a
// handful of entries.
func cellFor(row model.ImportRow, mapping model.FieldMapping, field string) string {
	for column, mapped := range mapping {
		if mapped == field {
			return row[column]
		}
	}
	return ""
}

func parseFloatCell(cell, field string, def float64) FloatResult {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return FloatResult{Value: def, Defaulted: true, Reason: fmt.Sprintf("%s missing, defaulted to %g", field, def)}
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64)
	if err != nil {
		return FloatResult{Value: def, Defaulted: true, Reason: fmt.Sprintf("%s %q unparsable, defaulted to %g", field, cell, def)}
	}
	return FloatResult{Value: f}
}

func parseIntCell(cell, field string, def int) IntResult {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return IntResult{Value: def, Defaulted: true, Reason: fmt.Sprintf("%s missing, defaulted to %d", field, def)}
	}
	// Sheets frequently store integers as "12.0".
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return IntResult{Value: def, Defaulted: true, Reason: fmt.Sprintf("%s %q unparsable, defaulted to %d", field, cell, def)}
	}
	return IntResult{Value: int(f)}
}

// parseDateCell resolves a start-date cell through a fixed ladder, first
// match wins: spreadsheet serial, day-first text, year-first text, generic
// timestamp, and finally "now". Falling back to now is a deliberate
// leniency favoring import completion; the substitution is recorded.
func parseDateCell(cell string) DateResult {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return DateResult{Value: time.Now(), Defaulted: true, Reason: "start_date missing, defaulted to now"}
	}

	if serial, err := strconv.ParseFloat(cell, 64); err == nil && serial >= serialDateThreshold {
		return DateResult{Value: serialToDate(serial)}
	}

	for _, layout := range []string{"02/01/2006", "02-01-2006", "2006/01/02", "2006-01-02"} {
		if t, err := time.Parse(layout, cell); err == nil {
			return DateResult{Value: t}
		}
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, cell); err == nil {
			return DateResult{Value: t}
		}
	}

	return DateResult{Value: time.Now(), Defaulted: true, Reason: fmt.Sprintf("start_date %q unparsable, defaulted to now", cell)}
}

// serialToDate converts a spreadsheet serial day count to a calendar date.
// The half-day offset pins the instant to noon before truncating to the
// date, so the result is the same calendar day in every runtime timezone.
func serialToDate(serial float64) time.Time {
	epoch := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
	d := epoch.Add(time.Duration((serial + 0.5) * 24 * float64(time.Hour)))
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
