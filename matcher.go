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
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/taqseet/taqseet/internal/apierror"
	"github.com/taqseet/taqseet/internal/gateway"
	"github.com/taqseet/taqseet/internal/notification"
	"github.com/taqseet/taqseet/model"
)

// phoneSuffixLength is how many trailing digits two phone numbers must
// share to be considered the same line. Local numbers are 8 digits; the
// prefix varies with country code and formatting.
const phoneSuffixLength = 8

// HandleGatewayEvent processes one inbound payment-gateway event,
// tolerating at-least-once delivery:
//
//  1. Verify: re-fetch the authoritative record from the gateway. The
//     inbound body's amount/status are never trusted.
//  2. Mirror: upsert a local event row keyed by the gateway id.
//  3. Match: exact reference, then phone heuristic, at tiered confidence.
//  4. Log: upsert the match outcome onto the same row.
//
// A verification failure aborts with VERIFICATION_FAILED so the caller
// returns an error response and the gateway's retry redelivers. Mirror and
// log failures are reported as diagnostics only: once verification
// succeeded the event is acknowledged, so an internal hiccup does not put
// the gateway into an endless retry loop.
//
// The matcher never mutates a transaction's balance, even at confirmed
// confidence. Recording a payment stays behind a separate human-approved
// operation.
func (t *Taqseet) HandleGatewayEvent(ctx context.Context, gatewayID string) (*model.ReconciliationEvent, error) {
	verified, err := t.gateway.FetchEvent(ctx, gatewayID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrVerificationFailed, "Failed to verify gateway event", err)
	}

	event := t.buildEvent(verified, model.MatchResult{Confidence: model.ConfidenceUnmatched})
	if err := t.datasource.UpsertReconciliationEvent(ctx, event); err != nil {
		notification.NotifyError(errors.Wrapf(err, "mirroring gateway event %s", verified.GatewayID))
	}

	match := t.matchEvent(ctx, verified)

	logrus.WithFields(logrus.Fields{
		"gateway_id": verified.GatewayID,
		"confidence": match.Confidence,
	}).Info("gateway event classified")

	event = t.buildEvent(verified, match)
	if err := t.datasource.UpsertReconciliationEvent(ctx, event); err != nil {
		notification.NotifyError(errors.Wrapf(err, "logging reconciliation of gateway event %s", verified.GatewayID))
	}

	return event, nil
}

// matchEvent walks the matching ladder, first hit wins. The outcome is
// deterministic for a given data state, so redundant concurrent runs for
// the same event id converge on the same row.
func (t *Taqseet) matchEvent(ctx context.Context, verified *gateway.VerifiedEvent) model.MatchResult {
	if match, ok := t.matchByReference(ctx, verified.Reference); ok {
		return match
	}
	if match, ok := t.matchByPhone(ctx, verified.PayerPhone); ok {
		return match
	}
	return model.MatchResult{Confidence: model.ConfidenceUnmatched}
}

// matchByReference binds customer and transaction when the verified
// merchant reference equals an existing transaction's sequence number.
// The zero-stripped form is tried as well, mirroring the customer index.
func (t *Taqseet) matchByReference(ctx context.Context, reference string) (model.MatchResult, bool) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return model.MatchResult{}, false
	}

	candidates := []string{reference}
	if normalized, ok := normalizeSequence(reference); ok && normalized != reference {
		candidates = append(candidates, normalized)
	}

	for _, candidate := range candidates {
		txn, err := t.datasource.GetTransactionBySequence(ctx, candidate)
		if err != nil {
			// A genuine miss continues the ladder. Anything else is a
			// storage failure that would silently downgrade a confirmed
			// payment, so it is reported before falling through.
			if apiErr, ok := err.(apierror.APIError); !ok || apiErr.Code != apierror.ErrNotFound {
				notification.NotifyError(errors.Wrapf(err, "looking up transaction by reference %q", candidate))
			}
			continue
		}
		return model.MatchResult{
			Confidence:    model.ConfidenceConfirmed,
			CustomerID:    txn.CustomerID,
			TransactionID: txn.TransactionID,
		}, true
	}

	return model.MatchResult{}, false
}

// matchByPhone binds a customer when the payer's phone matches exactly one
// customer on the last 8 digits. A transaction is additionally bound if
// and only if that customer has exactly one with a positive outstanding
// balance; confidence stays pending either way.
func (t *Taqseet) matchByPhone(ctx context.Context, payerPhone string) (model.MatchResult, bool) {
	suffix := phoneSuffix(payerPhone)
	if suffix == "" {
		return model.MatchResult{}, false
	}

	customers, err := t.datasource.GetAllCustomers(ctx)
	if err != nil {
		notification.NotifyError(errors.Wrap(err, "fetching customers for phone matching"))
		return model.MatchResult{}, false
	}

	var matched []model.Customer
	for _, customer := range customers {
		if phoneSuffix(customer.MobileNumber) == suffix {
			matched = append(matched, customer)
		}
	}
	if len(matched) != 1 {
		return model.MatchResult{}, false
	}

	result := model.MatchResult{
		Confidence: model.ConfidencePending,
		CustomerID: matched[0].CustomerID,
	}

	outstanding, err := t.datasource.GetOutstandingTransactionsByCustomer(ctx, matched[0].CustomerID)
	if err != nil {
		notification.NotifyError(errors.Wrapf(err, "fetching outstanding transactions for %s", matched[0].CustomerID))
		return result, true
	}
	if len(outstanding) == 1 {
		result.TransactionID = outstanding[0].TransactionID
	}

	return result, true
}

// buildEvent assembles the mirrored event row from the verified gateway
// record and a match outcome. ProcessedAt is set only when the verified
// status denotes a completed payment.
func (t *Taqseet) buildEvent(verified *gateway.VerifiedEvent, match model.MatchResult) *model.ReconciliationEvent {
	event := &model.ReconciliationEvent{
		EventID:    model.GenerateUUIDWithSuffix("recon"),
		GatewayID:  verified.GatewayID,
		ObjectType: verified.ObjectType,
		Amount:     verified.Amount,
		Currency:   verified.Currency,
		Status:     verified.Status,
		Reference:  verified.Reference,
		PayerName:  verified.PayerName,
		PayerEmail: verified.PayerEmail,
		PayerPhone: verified.PayerPhone,
		Confidence: match.Confidence,
		Payload:    verified.Payload,
		CreatedAt:  time.Now(),
	}

	if match.CustomerID != "" {
		customerID := match.CustomerID
		event.MatchedCustomerID = &customerID
	}
	if match.TransactionID != "" {
		transactionID := match.TransactionID
		event.MatchedTransactionID = &transactionID
	}
	if verified.Completed() {
		processedAt := time.Now()
		event.ProcessedAt = &processedAt
	}

	return event
}

// phoneSuffix strips non-digits and keeps the trailing digits used for
// comparison. Numbers shorter than the suffix length cannot be compared
// reliably and yield "".
func phoneSuffix(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) < phoneSuffixLength {
		return ""
	}
	return d[len(d)-phoneSuffixLength:]
}
