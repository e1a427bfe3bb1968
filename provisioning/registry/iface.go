// Package registry persists the startup -> provisioned-infrastructure
// records that make provisioning idempotent and incremental.
package registry

import (
	"context"
	"errors"

	"github.com/platforge/provisioner/provisioning/domain"
)

var (
	// ErrCorruptStore is returned when the persisted registry cannot be
	// parsed. The existing data is never silently discarded.
	ErrCorruptStore = errors.New("account registry store is corrupt")
)

//go:generate mockery --name Accounts --output ./mocks
type Accounts interface {
	// Find returns the record for the startup's account key, or nil when
	// no record exists.
	Find(ctx context.Context, info domain.StartupInfo) (*domain.AccountRecord, error)

	// Upsert writes the record under the given key and flushes it to
	// durable storage before returning. Replace semantics.
	Upsert(ctx context.Context, key string, record *domain.AccountRecord) error

	// List returns account summaries sorted by last access, most recent
	// first. Operator inspection only.
	List(ctx context.Context) ([]domain.AccountSummary, error)
}
