// Package execution defines the primitives to execute a transaction against a
// store snapshot and to report its outcome.
package execution

import (
	"go.dedis.ch/tally/core/store"
	"go.dedis.ch/tally/core/txn"
)

// Step is the input of a transition.
type Step struct {
	// Current is the transaction being executed.
	Current txn.Transaction
}

// Attribute is a key/value pair describing a transition.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Response is the outcome of a successful transition. The attributes are
// kept in the order they were added.
type Response struct {
	Attributes []Attribute `json:"attributes"`
}

// NewResponse returns an empty response.
func NewResponse() Response {
	return Response{Attributes: []Attribute{}}
}

// AddAttribute returns a copy of the response with the attribute appended.
func (r Response) AddAttribute(key, value string) Response {
	attrs := make([]Attribute, len(r.Attributes), len(r.Attributes)+1)
	copy(attrs, r.Attributes)

	r.Attributes = append(attrs, Attribute{Key: key, Value: value})

	return r
}

// GetAttribute returns the value of the first attribute with the key, and
// whether it exists.
func (r Response) GetAttribute(key string) (string, bool) {
	for _, attr := range r.Attributes {
		if attr.Key == key {
			return attr.Value, true
		}
	}

	return "", false
}

// Result is the result of a transaction execution.
type Result struct {
	// Accepted is the success state of the transaction.
	Accepted bool

	// Message gives a change to the execution to explain why a transaction has
	// failed.
	Message string

	// Response is the outcome of an accepted transaction.
	Response Response
}

// Service is the execution service that defines the primitives to execute a
// transaction.
type Service interface {
	// Execute must apply the transaction to the snapshot and return the result
	// of it.
	Execute(snap store.Snapshot, step Step) (Result, error)
}
