// Package storage abstracts where payment proof files live. The engine only
// needs a durable URL back; the concrete backend is the platform document
// service.
package storage

import (
	"context"
	"errors"
)

// ErrTimeout indicates the backend did not answer within the upload deadline.
// Callers surface it separately from other storage failures so customers can
// be told to retry.
var ErrTimeout = errors.New("proof upload timed out")

// ProofUpload describes a proof file to persist
type ProofUpload struct {
	MerchantID  string
	Filename    string
	ContentType string
	Data        []byte
}

// ProofStore persists proof-of-payment files and returns a durable URL
type ProofStore interface {
	Upload(ctx context.Context, upload ProofUpload) (string, error)
}
