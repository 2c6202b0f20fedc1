package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/taqseet/taqseet/internal/apierror"
	"github.com/taqseet/taqseet/model"
)

// RecordTransaction persists a new transaction. A unique-constraint
// violation on sequence_number surfaces as a DUPLICATE error so the
// importer can attribute it to the offending row.
func (d Datasource) RecordTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	metaDataJSON, err := json.Marshal(txn.MetaData)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal metadata", err)
	}

	_, err = d.Conn.ExecContext(ctx,
		`INSERT INTO transactions(transaction_id,sequence_number,customer_id,cost_price,extra_price,amount,installment_amount,number_of_installments,start_date,remaining_balance,status,created_at,meta_data) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		txn.TransactionID, txn.SequenceNumber, txn.CustomerID, txn.CostPrice, txn.ExtraPrice,
		txn.Amount, txn.InstallmentAmount, txn.NumberOfInstallments, txn.StartDate,
		txn.RemainingBalance, txn.Status, txn.CreatedAt, metaDataJSON,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, apierror.NewAPIError(apierror.ErrDuplicate, fmt.Sprintf("Transaction with sequence number '%s' already exists", txn.SequenceNumber), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to record transaction", err)
	}

	return txn, nil
}

// GetTransactionBySequence retrieves a transaction by its display
// sequence number.
func (d Datasource) GetTransactionBySequence(ctx context.Context, sequenceNumber string) (*model.Transaction, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT id, transaction_id, sequence_number, customer_id, cost_price, extra_price, amount, installment_amount, number_of_installments, start_date, remaining_balance, status, created_at
		FROM transactions
		WHERE sequence_number = $1
	`, sequenceNumber)

	txn := &model.Transaction{}
	err := row.Scan(
		&txn.ID, &txn.TransactionID, &txn.SequenceNumber, &txn.CustomerID,
		&txn.CostPrice, &txn.ExtraPrice, &txn.Amount, &txn.InstallmentAmount,
		&txn.NumberOfInstallments, &txn.StartDate, &txn.RemainingBalance,
		&txn.Status, &txn.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Transaction with sequence number '%s' not found", sequenceNumber), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve transaction", err)
	}

	return txn, nil
}

// GetTransactionSequenceNumbers retrieves the set of sequence numbers
// already committed to storage. Computed once before a batch starts; the
// validator checks every row against this snapshot.
func (d Datasource) GetTransactionSequenceNumbers(ctx context.Context) (map[string]struct{}, error) {
	rows, err := d.Conn.QueryContext(ctx, `SELECT sequence_number FROM transactions`)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve sequence numbers", err)
	}
	defer rows.Close()

	existing := make(map[string]struct{})
	for rows.Next() {
		var seq string
		if err := rows.Scan(&seq); err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan sequence number", err)
		}
		existing[seq] = struct{}{}
	}

	return existing, nil
}

// GetOutstandingTransactionsByCustomer retrieves a customer's transactions
// with a positive remaining balance, newest first.
func (d Datasource) GetOutstandingTransactionsByCustomer(ctx context.Context, customerID string) ([]*model.Transaction, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, transaction_id, sequence_number, customer_id, cost_price, extra_price, amount, installment_amount, number_of_installments, start_date, remaining_balance, status, created_at
		FROM transactions
		WHERE customer_id = $1 AND remaining_balance > 0
		ORDER BY created_at DESC
	`, customerID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve outstanding transactions", err)
	}
	defer rows.Close()

	var transactions []*model.Transaction

	for rows.Next() {
		txn := &model.Transaction{}
		err = rows.Scan(
			&txn.ID, &txn.TransactionID, &txn.SequenceNumber, &txn.CustomerID,
			&txn.CostPrice, &txn.ExtraPrice, &txn.Amount, &txn.InstallmentAmount,
			&txn.NumberOfInstallments, &txn.StartDate, &txn.RemainingBalance,
			&txn.Status, &txn.CreatedAt,
		)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan transaction", err)
		}

		transactions = append(transactions, txn)
	}

	return transactions, nil
}

// RefreshOverdueStatuses triggers the overdue-status recomputation. The
// routine itself lives in the database; the importer fires it once after a
// batch with at least one persisted row.
func (d Datasource) RefreshOverdueStatuses(ctx context.Context) error {
	_, err := d.Conn.ExecContext(ctx, `SELECT refresh_overdue_statuses()`)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to refresh overdue statuses", err)
	}
	return nil
}
