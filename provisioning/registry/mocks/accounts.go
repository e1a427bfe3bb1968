package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/platforge/provisioner/provisioning/domain"
)

type Accounts struct {
	mock.Mock
}

func (m *Accounts) Find(ctx context.Context, info domain.StartupInfo) (*domain.AccountRecord, error) {
	args := m.Called(ctx, info)

	var record *domain.AccountRecord
	if args.Get(0) != nil {
		record = args.Get(0).(*domain.AccountRecord)
	}

	return record, args.Error(1)
}

func (m *Accounts) Upsert(ctx context.Context, key string, record *domain.AccountRecord) error {
	args := m.Called(ctx, key, record)
	return args.Error(0)
}

func (m *Accounts) List(ctx context.Context) ([]domain.AccountSummary, error) {
	args := m.Called(ctx)

	var summaries []domain.AccountSummary
	if args.Get(0) != nil {
		summaries = args.Get(0).([]domain.AccountSummary)
	}

	return summaries, args.Error(1)
}
