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
	"github.com/taqseet/taqseet/config"
	"github.com/taqseet/taqseet/database"
	"github.com/taqseet/taqseet/internal/gateway"
)

// Taqseet is the reconciliation engine for the installment-sales system.
// It owns the two reconciliation pipelines: spreadsheet batch import and
// payment-gateway webhook matching. It reads customers, creates
// transactions and mirrors gateway events. It never records a payment
// against a balance; that stays behind a separate human-approved flow.
type Taqseet struct {
	datasource database.IDataSource
	gateway    gateway.Fetcher
}

// NewTaqseet initializes a new instance with the provided datasource. The
// payment-gateway client is built from the fetched configuration.
//
// Parameters:
// - db database.IDataSource: The datasource for database operations.
//
// Returns:
// - *Taqseet: A pointer to the newly created instance.
// - error: An error if configuration is not loaded.
func NewTaqseet(db database.IDataSource) (*Taqseet, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	client := gateway.NewClient(configuration.PaymentGateway)
	return &Taqseet{datasource: db, gateway: client}, nil
}
