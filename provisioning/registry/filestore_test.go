package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platforge/provisioner/provisioning/domain"
)

func testRecord(info domain.StartupInfo, accessed int64) *domain.AccountRecord {
	return &domain.AccountRecord{
		StartupID:    domain.NewStartupID(info),
		StartupInfo:  info,
		CreatedAt:    accessed,
		LastAccessed: accessed,
		Environments: domain.Environments{
			GCP: &domain.GCPEnvironment{
				ProjectID:      "mock-project-123456",
				Status:         domain.StatusActive,
				IsolationLevel: domain.IsolationEnhancedShared,
				Credentials:    &domain.ServiceAccountInfo{Email: "pf-acme@mock-project-123456.iam.gserviceaccount.com"},
			},
		},
		ProvisionedResources: []domain.Resource{
			{Service: "BigQuery", Type: "dataset", Name: "acme_analytics", Status: domain.StatusMockCreated},
		},
		PipelineServices: []string{"bigquery"},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "accounts.json")
	info := domain.StartupInfo{Name: "Acme", Email: "f@acme.io", FounderName: "Jo"}

	store, err := NewFileStore(path)
	require.NoError(t, err)

	record := testRecord(info, time.Now().Unix())
	require.NoError(t, store.Upsert(ctx, domain.AccountKey(info), record))

	// A fresh store over the same file sees an equivalent record.
	reloaded, err := NewFileStore(path)
	require.NoError(t, err)

	got, err := reloaded.Find(ctx, info)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, record.StartupID, got.StartupID)
	assert.Equal(t, record.StartupInfo, got.StartupInfo)
	assert.Equal(t, record.PipelineServices, got.PipelineServices)
	require.NotNil(t, got.Environments.GCP)
	assert.Equal(t, record.Environments.GCP.Credentials.Email, got.Environments.GCP.Credentials.Email)
	require.Len(t, got.ProvisionedResources, 1)
	assert.Equal(t, record.ProvisionedResources[0], got.ProvisionedResources[0])
}

func TestFileStoreFindAbsent(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "accounts.json"))
	require.NoError(t, err)

	got, err := store.Find(context.Background(), domain.StartupInfo{Name: "Nobody", Email: "x@y.z"})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFileStoreUpsertReplaces(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "accounts.json"))
	require.NoError(t, err)

	info := domain.StartupInfo{Name: "Acme", Email: "f@acme.io"}
	key := domain.AccountKey(info)

	record := testRecord(info, 100)
	require.NoError(t, store.Upsert(ctx, key, record))

	record.LastAccessed = 200
	record.PipelineServices = append(record.PipelineServices, "aws_ec2")
	require.NoError(t, store.Upsert(ctx, key, record))

	assert.Equal(t, 1, store.Len())

	got, err := store.Find(ctx, info)
	require.NoError(t, err)
	assert.Equal(t, int64(200), got.LastAccessed)
	assert.Equal(t, []string{"bigquery", "aws_ec2"}, got.PipelineServices)
}

func TestFileStoreCorruptFileIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptStore)
	// the corrupt file must be left in place
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}

func TestFileStoreToleratesMissingOptionalFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.json")
	legacy := `{
		"accounts": {
			"acme_f@acme.io": {
				"startup_id": "acme-abc123",
				"startup_info": {"name": "Acme", "email": "f@acme.io", "founder_name": "Jo"},
				"created_at": 1700000000,
				"last_accessed": 1700000000
			}
		},
		"last_updated": 1700000000
	}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o600))

	store, err := NewFileStore(path)
	require.NoError(t, err)

	got, err := store.Find(context.Background(), domain.StartupInfo{Name: "Acme", Email: "f@acme.io"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.NotNil(t, got.ProvisionedResources)
	assert.Empty(t, got.ProvisionedResources)
	assert.NotNil(t, got.PipelineServices)
}

func TestFileStoreListOrdersByLastAccessed(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "accounts.json"))
	require.NoError(t, err)

	older := domain.StartupInfo{Name: "Older", Email: "a@a.io"}
	newer := domain.StartupInfo{Name: "Newer", Email: "b@b.io"}

	require.NoError(t, store.Upsert(ctx, domain.AccountKey(older), testRecord(older, 100)))
	require.NoError(t, store.Upsert(ctx, domain.AccountKey(newer), testRecord(newer, 200)))

	summaries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "Newer", summaries[0].StartupName)
	assert.Equal(t, "Older", summaries[1].StartupName)
	assert.Equal(t, 1, summaries[0].ServicesCount)
}
