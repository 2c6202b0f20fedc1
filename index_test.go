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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taqseet/taqseet/model"
)

func TestBuildCustomerIndexLeadingZeros(t *testing.T) {
	customers := []model.Customer{
		{CustomerID: "cust_1", SequenceNumber: "007", FullName: "Ahmed Ali"},
		{CustomerID: "cust_2", SequenceNumber: "42", FullName: "Sara Hassan"},
	}

	idx := BuildCustomerIndex(customers)

	byPadded, ok := idx.Lookup("007", "")
	assert.True(t, ok)
	byStripped, ok2 := idx.Lookup("7", "")
	assert.True(t, ok2)
	assert.Equal(t, byPadded.CustomerID, byStripped.CustomerID, "padded and stripped forms must resolve identically")

	// The reverse direction: stored without zeros, looked up with them.
	withZeros, ok := idx.Lookup("042", "")
	assert.True(t, ok)
	assert.Equal(t, "cust_2", withZeros.CustomerID)
}

func TestCustomerIndexNameFallback(t *testing.T) {
	customers := []model.Customer{
		{CustomerID: "cust_1", SequenceNumber: "10", FullName: "Ahmed Ali"},
	}

	idx := BuildCustomerIndex(customers)

	ref, ok := idx.Lookup("999", "Ahmed Ali")
	assert.True(t, ok, "expected name fallback to resolve")
	assert.Equal(t, "cust_1", ref.CustomerID)

	ref, ok = idx.Lookup("", "  Ahmed Ali  ")
	assert.True(t, ok, "name lookup should trim whitespace")
	assert.Equal(t, "cust_1", ref.CustomerID)
}

func TestCustomerIndexMiss(t *testing.T) {
	idx := BuildCustomerIndex([]model.Customer{
		{CustomerID: "cust_1", SequenceNumber: "10", FullName: "Ahmed Ali"},
	})

	_, ok := idx.Lookup("999", "Nobody")
	assert.False(t, ok)

	_, ok = idx.Lookup("", "")
	assert.False(t, ok)
}

func TestCustomerIndexNonNumericSequence(t *testing.T) {
	idx := BuildCustomerIndex([]model.Customer{
		{CustomerID: "cust_1", SequenceNumber: "A-17", FullName: "Ahmed Ali"},
	})

	ref, ok := idx.Lookup("A-17", "")
	assert.True(t, ok)
	assert.Equal(t, "cust_1", ref.CustomerID)
}
