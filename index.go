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
	"strconv"
	"strings"

	"github.com/taqseet/taqseet/model"
)

// CustomerRef is the minimal customer handle the import pipeline binds to.
type CustomerRef struct {
	CustomerID     string
	SequenceNumber string
}

// CustomerIndex holds the lookup structures for resolving import rows to
// customers. It is a plain value built fresh at the start of every batch
// and every retry; nothing caches it across invocations, so a customer
// added between a failed batch and its retry is always visible.
type CustomerIndex struct {
	bySequence map[string]CustomerRef
	byName     map[string]CustomerRef
}

// BuildCustomerIndex builds the lookup index from the full customer
// collection. Sequence numbers are keyed twice when they differ: by the
// raw trimmed string and by the integer-normalized form with leading
// zeros stripped, so "007" and "7" resolve to the same customer.
func BuildCustomerIndex(customers []model.Customer) *CustomerIndex {
	idx := &CustomerIndex{
		bySequence: make(map[string]CustomerRef, len(customers)*2),
		byName:     make(map[string]CustomerRef, len(customers)),
	}

	for _, customer := range customers {
		ref := CustomerRef{CustomerID: customer.CustomerID, SequenceNumber: customer.SequenceNumber}

		seq := strings.TrimSpace(customer.SequenceNumber)
		if seq != "" {
			idx.bySequence[seq] = ref
			if normalized, ok := normalizeSequence(seq); ok && normalized != seq {
				idx.bySequence[normalized] = ref
			}
		}

		name := strings.TrimSpace(customer.FullName)
		if name != "" {
			idx.byName[name] = ref
		}
	}

	return idx
}

// Lookup resolves a row's customer identifier. The sequence identifier is
// tried first, raw then integer-normalized; the name is the fallback. The
// second return reports whether a binding was made.
func (idx *CustomerIndex) Lookup(identifier, name string) (CustomerRef, bool) {
	identifier = strings.TrimSpace(identifier)
	if identifier != "" {
		if ref, ok := idx.bySequence[identifier]; ok {
			return ref, true
		}
		if normalized, ok := normalizeSequence(identifier); ok {
			if ref, ok := idx.bySequence[normalized]; ok {
				return ref, true
			}
		}
	}

	name = strings.TrimSpace(name)
	if name != "" {
		if ref, ok := idx.byName[name]; ok {
			return ref, true
		}
	}

	return CustomerRef{}, false
}

// normalizeSequence strips inconsistent leading zeros by round-tripping
// through an integer. Non-numeric sequence numbers have no normalized form.
func normalizeSequence(seq string) (string, bool) {
	n, err := strconv.ParseInt(seq, 10, 64)
	if err != nil {
		return "", false
	}
	return strconv.FormatInt(n, 10), true
}
