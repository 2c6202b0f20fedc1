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
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/taqseet/taqseet/model"
)

// MockDataSource is a mock implementation of the IDataSource interface
type MockDataSource struct {
	mock.Mock
}

// Customer methods

func (m *MockDataSource) GetAllCustomers(ctx context.Context) ([]model.Customer, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Customer), args.Error(1)
}

// Transaction methods

func (m *MockDataSource) RecordTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	args := m.Called(ctx, txn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockDataSource) GetTransactionBySequence(ctx context.Context, sequenceNumber string) (*model.Transaction, error) {
	args := m.Called(ctx, sequenceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockDataSource) GetTransactionSequenceNumbers(ctx context.Context) (map[string]struct{}, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[string]struct{}), args.Error(1)
}

func (m *MockDataSource) GetOutstandingTransactionsByCustomer(ctx context.Context, customerID string) ([]*model.Transaction, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]*model.Transaction), args.Error(1)
}

func (m *MockDataSource) RefreshOverdueStatuses(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Attachment methods

func (m *MockDataSource) RecordAttachment(ctx context.Context, att *model.Attachment) error {
	args := m.Called(ctx, att)
	return args.Error(0)
}

// Reconciliation methods

func (m *MockDataSource) UpsertReconciliationEvent(ctx context.Context, event *model.ReconciliationEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockDataSource) GetReconciliationEventByGatewayID(ctx context.Context, gatewayID string) (*model.ReconciliationEvent, error) {
	args := m.Called(ctx, gatewayID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReconciliationEvent), args.Error(1)
}
