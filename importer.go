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
	"context"
	"encoding/csv"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/taqseet/taqseet/internal/notification"
	"github.com/taqseet/taqseet/model"
)

// ImportTransactions drives the row validator across a row set with
// partial-failure semantics: a bad row is captured as an ImportError and
// the batch continues. Rows are processed strictly sequentially. The
// duplicate-sequence check relies on the snapshot of persisted sequence
// numbers taken before the first row, and interleaved writes would make
// that check unsound.
//
// The customer index and the existing-sequence set are rebuilt fresh on
// every invocation rather than cached, so concurrent callers never see a
// stale index.
func (t *Taqseet) ImportTransactions(ctx context.Context, rows []model.ImportRow, mapping model.FieldMapping) (*model.ImportSummary, error) {
	customers, err := t.datasource.GetAllCustomers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "fetching customers for import")
	}
	index := BuildCustomerIndex(customers)

	existing, err := t.datasource.GetTransactionSequenceNumbers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "fetching existing sequence numbers")
	}

	summary := &model.ImportSummary{
		Errors:  []model.ImportError{},
		Records: []*model.Transaction{},
	}

	for i, row := range rows {
		// Row 1 of the file is the header, so the first data row is 2.
		rowNumber := i + 2

		validated, rowErrs := ValidateRow(row, mapping, index, existing)
		if len(rowErrs) > 0 {
			summary.Errors = append(summary.Errors, model.ImportError{
				Row:          rowNumber,
				Message:      strings.Join(rowErrs, "; "),
				OriginalData: row,
			})
			continue
		}

		persisted, err := t.datasource.RecordTransaction(ctx, validated.Transaction)
		if err != nil {
			summary.Errors = append(summary.Errors, model.ImportError{
				Row:          rowNumber,
				Message:      err.Error(),
				OriginalData: row,
			})
			continue
		}

		summary.Imported++
		summary.Records = append(summary.Records, persisted)
		t.linkAttachments(ctx, persisted.TransactionID, validated)
	}

	// Fired once per batch, not per row, and only when something landed.
	if summary.Imported > 0 {
		if err := t.datasource.RefreshOverdueStatuses(ctx); err != nil {
			notification.NotifyError(errors.Wrap(err, "refreshing overdue statuses after import"))
		}
	}

	return summary, nil
}

// RetryImportRow re-runs a single previously-failed row through the
// identical validation and persistence path. The customer index and the
// existing-sequence set are rebuilt at retry time, so corrections made
// since the original batch, such as a newly added customer, are honored.
func (t *Taqseet) RetryImportRow(ctx context.Context, row model.ImportRow, mapping model.FieldMapping) (*model.ImportSummary, error) {
	return t.ImportTransactions(ctx, []model.ImportRow{row}, mapping)
}

// linkAttachments creates legacy attachment records for a persisted
// transaction. Best-effort: a failure here never rolls back the parent,
// it is only reported for diagnostics.
func (t *Taqseet) linkAttachments(ctx context.Context, transactionID string, validated *ValidatedRow) {
	for kind, url := range map[string]string{"image": validated.ImageURL, "pdf": validated.PDFURL} {
		if url == "" {
			continue
		}
		att := &model.Attachment{
			AttachmentID:  model.GenerateUUIDWithSuffix("att"),
			TransactionID: transactionID,
			URL:           url,
			Kind:          kind,
			CreatedAt:     time.Now(),
		}
		if err := t.datasource.RecordAttachment(ctx, att); err != nil {
			notification.NotifyError(errors.Wrapf(err, "linking %s attachment to %s", kind, transactionID))
		}
	}
}

// WriteErrorsCSV serializes import errors to a delimited file suitable for
// correction and resubmission: every original column, in the given order,
// plus an appended error-message column.
func WriteErrorsCSV(w io.Writer, columns []string, importErrors []model.ImportError) error {
	csvWriter := csv.NewWriter(w)

	header := append(append([]string{}, columns...), "error_message")
	if err := csvWriter.Write(header); err != nil {
		return errors.Wrap(err, "writing error export header")
	}

	for _, importError := range importErrors {
		record := make([]string, 0, len(columns)+1)
		for _, column := range columns {
			record = append(record, importError.OriginalData[column])
		}
		record = append(record, importError.Message)
		if err := csvWriter.Write(record); err != nil {
			return errors.Wrap(err, "writing error export row")
		}
	}

	csvWriter.Flush()
	return errors.Wrap(csvWriter.Error(), "flushing error export")
}
