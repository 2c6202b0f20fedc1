package database

import (
	"context"
	"database/sql"

	"github.com/taqseet/taqseet/internal/apierror"
	"github.com/taqseet/taqseet/model"
)

// GetAllCustomers retrieves the full customer collection. Callers rebuild
// their lookup index from this on every batch or retry invocation instead
// of caching it across requests.
func (d Datasource) GetAllCustomers(ctx context.Context) ([]model.Customer, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, customer_id, sequence_number, full_name, mobile_number, created_at
		FROM customers
	`)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve customers", err)
	}
	defer rows.Close()

	var customers []model.Customer

	for rows.Next() {
		customer := model.Customer{}
		// mobile_number is nullable; legacy customers predate phone capture.
		var mobileNumber sql.NullString
		err = rows.Scan(
			&customer.ID, &customer.CustomerID, &customer.SequenceNumber,
			&customer.FullName, &mobileNumber, &customer.CreatedAt,
		)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan customer", err)
		}
		customer.MobileNumber = mobileNumber.String

		customers = append(customers, customer)
	}

	return customers, nil
}
