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

// Package gateway talks to the payment gateway's REST API. Inbound webhook
// bodies are never trusted; the matcher always re-fetches the authoritative
// charge or invoice record through this client before acting on it.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/taqseet/taqseet/config"
	"github.com/taqseet/taqseet/internal/request"
	"github.com/taqseet/taqseet/model"
)

// VerifiedEvent is the authoritative view of a gateway event, built from
// the gateway's own record rather than the webhook body. Payload keeps the
// full response for the audit trail.
type VerifiedEvent struct {
	GatewayID  string
	ObjectType string
	Amount     float64
	Currency   string
	Status     string
	Reference  string
	PayerName  string
	PayerEmail string
	PayerPhone string
	Payload    json.RawMessage
}

// Completed reports whether the verified status denotes a completed
// payment. The gateway reports CAPTURED for charges and PAID for invoices.
func (e *VerifiedEvent) Completed() bool {
	switch strings.ToUpper(e.Status) {
	case "CAPTURED", "PAID":
		return true
	}
	return false
}

// Fetcher is the surface the matcher needs from this package.
type Fetcher interface {
	FetchEvent(ctx context.Context, gatewayID string) (*VerifiedEvent, error)
}

type Client struct {
	baseURL       string
	secretKey     string
	invoicePrefix string
	chargePrefix  string
}

func NewClient(cfg config.PaymentGatewayConfig) *Client {
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		secretKey:     cfg.SecretKey,
		invoicePrefix: cfg.InvoicePrefix,
		chargePrefix:  cfg.ChargePrefix,
	}
}

// objectPayload is the part of the gateway's charge/invoice response the
// matcher cares about. Both object shapes share these fields.
type objectPayload struct {
	ID        string  `json:"id"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Status    string  `json:"status"`
	Reference struct {
		Transaction string `json:"transaction"`
		Order       string `json:"order"`
	} `json:"reference"`
	Customer struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		Phone     struct {
			CountryCode string `json:"country_code"`
			Number      string `json:"number"`
		} `json:"phone"`
	} `json:"customer"`
}

// FetchEvent fetches the authoritative record for a gateway event id. Ids
// carrying the invoice prefix resolve against the invoices endpoint,
// everything else against charges.
func (c *Client) FetchEvent(ctx context.Context, gatewayID string) (*VerifiedEvent, error) {
	objectType := model.GatewayObjectCharge
	path := "charges"
	if strings.HasPrefix(gatewayID, c.invoicePrefix) {
		objectType = model.GatewayObjectInvoice
		path = "invoices"
	}

	url := fmt.Sprintf("%s/%s/%s", c.baseURL, path, gatewayID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building gateway request")
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	var raw json.RawMessage
	resp, err := request.Call(req, &raw)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching %s %s from gateway", objectType, gatewayID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("gateway returned %d for %s %s", resp.StatusCode, objectType, gatewayID)
	}

	var payload objectPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, errors.Wrap(err, "decoding gateway response")
	}
	if payload.ID == "" {
		return nil, errors.Errorf("gateway response for %s carries no id", gatewayID)
	}

	reference := payload.Reference.Transaction
	if reference == "" {
		reference = payload.Reference.Order
	}

	payerName := strings.TrimSpace(payload.Customer.FirstName + " " + payload.Customer.LastName)

	return &VerifiedEvent{
		GatewayID:  payload.ID,
		ObjectType: objectType,
		Amount:     payload.Amount,
		Currency:   payload.Currency,
		Status:     payload.Status,
		Reference:  reference,
		PayerName:  payerName,
		PayerEmail: payload.Customer.Email,
		PayerPhone: payload.Customer.Phone.CountryCode + payload.Customer.Phone.Number,
		Payload:    raw,
	}, nil
}
