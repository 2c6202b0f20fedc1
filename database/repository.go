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

package database

import (
	"context"

	"github.com/taqseet/taqseet/model"
)

// IDataSource defines the interface for data source operations, grouping related functionalities.
type IDataSource interface {
	customer       // Interface for customer-related operations
	transaction    // Interface for transaction-related operations
	attachment     // Interface for attachment-related operations
	reconciliation // Interface for reconciliation-event operations
}

// customer defines methods for reading customers. Customers are owned by
// the main application; this subsystem never writes them.
type customer interface {
	GetAllCustomers(ctx context.Context) ([]model.Customer, error) // Retrieves the full customer collection
}

// transaction defines methods for handling transactions.
type transaction interface {
	RecordTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error)                 // Persists a new transaction
	GetTransactionBySequence(ctx context.Context, sequenceNumber string) (*model.Transaction, error)           // Retrieves a transaction by its display sequence number
	GetTransactionSequenceNumbers(ctx context.Context) (map[string]struct{}, error)                            // Retrieves the set of persisted sequence numbers
	GetOutstandingTransactionsByCustomer(ctx context.Context, customerID string) ([]*model.Transaction, error) // Retrieves a customer's transactions with a positive remaining balance
	RefreshOverdueStatuses(ctx context.Context) error                                                          // Triggers the overdue-status recomputation
}

// attachment defines methods for legacy attachment references.
type attachment interface {
	RecordAttachment(ctx context.Context, att *model.Attachment) error // Persists an attachment reference
}

// reconciliation defines methods for mirrored gateway events.
type reconciliation interface {
	UpsertReconciliationEvent(ctx context.Context, event *model.ReconciliationEvent) error                 // Upserts an event keyed by gateway id
	GetReconciliationEventByGatewayID(ctx context.Context, gatewayID string) (*model.ReconciliationEvent, error) // Retrieves a mirrored event by gateway id
}
