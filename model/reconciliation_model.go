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
	"encoding/json"
	"time"
)

// Confidence classifies how certain an automatic reconciliation match is.
// It gates automatic versus manual handling downstream; only a separate
// human-approved flow ever records a payment against a balance.
type Confidence string

const (
	// ConfidenceConfirmed means the gateway reference matched a
	// transaction sequence number exactly.
	ConfidenceConfirmed Confidence = "confirmed"
	// ConfidencePending means the payer was bound heuristically (phone
	// digits) and needs human review.
	ConfidencePending Confidence = "pending"
	// ConfidenceUnmatched means no binding could be made.
	ConfidenceUnmatched Confidence = "unmatched"
)

// Gateway object types, distinguished by an id-prefix convention.
const (
	GatewayObjectCharge  = "charge"
	GatewayObjectInvoice = "invoice"
)

// MatchResult is the outcome of the matching ladder for one verified
// gateway event. CustomerID and TransactionID are empty when unbound.
type MatchResult struct {
	Confidence    Confidence `json:"confidence"`
	CustomerID    string     `json:"customer_id,omitempty"`
	TransactionID string     `json:"transaction_id,omitempty"`
}

// ReconciliationEvent mirrors one verified payment-gateway event. It is
// upserted keyed by GatewayID, so redeliveries overwrite and never
// duplicate. ProcessedAt is set only when the verified status denotes a
// completed payment.
type ReconciliationEvent struct {
	ID                   int64           `json:"-"`
	EventID              string          `json:"event_id"`
	GatewayID            string          `json:"gateway_id"`
	ObjectType           string          `json:"object_type"`
	Amount               float64         `json:"amount"`
	Currency             string          `json:"currency"`
	Status               string          `json:"status"`
	Reference            string          `json:"reference"`
	PayerName            string          `json:"payer_name"`
	PayerEmail           string          `json:"payer_email"`
	PayerPhone           string          `json:"payer_phone"`
	MatchedCustomerID    *string         `json:"matched_customer_id"`
	MatchedTransactionID *string         `json:"matched_transaction_id"`
	Confidence           Confidence      `json:"confidence"`
	Payload              json.RawMessage `json:"payload"`
	ProcessedAt          *time.Time      `json:"processed_at"`
	CreatedAt            time.Time       `json:"created_at"`
}
