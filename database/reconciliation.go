package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/taqseet/taqseet/internal/apierror"
	"github.com/taqseet/taqseet/model"
)

// UpsertReconciliationEvent inserts or overwrites the mirror of a gateway
// event, keyed by gateway id. Redeliveries of the same event id update the
// existing row; they never create a second one.
func (d Datasource) UpsertReconciliationEvent(ctx context.Context, event *model.ReconciliationEvent) error {
	_, err := d.Conn.ExecContext(ctx,
		`INSERT INTO reconciliation_events(
			event_id, gateway_id, object_type, amount, currency, status, reference,
			payer_name, payer_email, payer_phone, matched_customer_id,
			matched_transaction_id, confidence, payload, processed_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (gateway_id) DO UPDATE SET
			object_type = EXCLUDED.object_type,
			amount = EXCLUDED.amount,
			currency = EXCLUDED.currency,
			status = EXCLUDED.status,
			reference = EXCLUDED.reference,
			payer_name = EXCLUDED.payer_name,
			payer_email = EXCLUDED.payer_email,
			payer_phone = EXCLUDED.payer_phone,
			matched_customer_id = EXCLUDED.matched_customer_id,
			matched_transaction_id = EXCLUDED.matched_transaction_id,
			confidence = EXCLUDED.confidence,
			payload = EXCLUDED.payload,
			processed_at = EXCLUDED.processed_at`,
		event.EventID, event.GatewayID, event.ObjectType, event.Amount, event.Currency,
		event.Status, event.Reference, event.PayerName, event.PayerEmail, event.PayerPhone,
		event.MatchedCustomerID, event.MatchedTransactionID, event.Confidence,
		[]byte(event.Payload), event.ProcessedAt, event.CreatedAt,
	)

	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to upsert reconciliation event", err)
	}

	return nil
}

// GetReconciliationEventByGatewayID retrieves a mirrored event by its
// gateway id.
func (d Datasource) GetReconciliationEventByGatewayID(ctx context.Context, gatewayID string) (*model.ReconciliationEvent, error) {
	event := &model.ReconciliationEvent{}
	var payload []byte

	err := d.Conn.QueryRowContext(ctx, `
		SELECT id, event_id, gateway_id, object_type, amount, currency, status, reference,
			payer_name, payer_email, payer_phone, matched_customer_id,
			matched_transaction_id, confidence, payload, processed_at, created_at
		FROM reconciliation_events
		WHERE gateway_id = $1
	`, gatewayID).Scan(
		&event.ID, &event.EventID, &event.GatewayID, &event.ObjectType, &event.Amount,
		&event.Currency, &event.Status, &event.Reference, &event.PayerName,
		&event.PayerEmail, &event.PayerPhone, &event.MatchedCustomerID,
		&event.MatchedTransactionID, &event.Confidence, &payload,
		&event.ProcessedAt, &event.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("No reconciliation event found for gateway id: %s", gatewayID), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve reconciliation event", err)
	}

	event.Payload = payload
	return event, nil
}
