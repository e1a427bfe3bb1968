package googlecloud

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platforge/provisioner/logger"
	"github.com/platforge/provisioner/provisioning/domain"
	"github.com/platforge/provisioner/secrets"
)

var testStartup = domain.StartupInfo{
	Name:        "Acme Analytics",
	Email:       "founder@acme.io",
	FounderName: "Jane Doe",
}

func newMockService(t *testing.T) *GCPService {
	t.Helper()

	s := NewGCPService(context.Background(), logger.FromContext, secrets.Mock().GCP)

	state, reason := s.State()
	require.Equal(t, StateNotConfigured, state)
	require.NotEmpty(t, reason)

	return s
}

func TestNewGCPServiceMockCredentials(t *testing.T) {
	s := newMockService(t)

	assert.False(t, s.connected())
	assert.Nil(t, s.iamService)
}

func TestNewGCPServiceEmptyCredentials(t *testing.T) {
	s := NewGCPService(context.Background(), logger.FromContext, secrets.GCPCredentials{})

	state, _ := s.State()
	assert.Equal(t, StateNotConfigured, state)
}

func TestCreateProjectEnvironmentMock(t *testing.T) {
	s := newMockService(t)

	env := s.CreateProjectEnvironment(context.Background(), testStartup, "acme-analytics-a1b2c3")
	require.NotNil(t, env)

	assert.Equal(t, "mock-project-123456", env.ProjectID)
	assert.Equal(t, "PlatForge-Acme Analytics-Isolated", env.ProjectName)
	assert.Equal(t, domain.StatusActive, env.Status)
	assert.Equal(t, "startup-acme-analytics-a1b2c3", env.StartupNamespace)
	assert.Equal(t, domain.IsolationEnhancedShared, env.IsolationLevel)
	assert.Equal(t, "platforge-acme-analytics-a1b2c3@mock-project-123456.iam.gserviceaccount.com", env.ServiceAccount)
	assert.Contains(t, env.Note, "Mock environment")

	require.NotNil(t, env.Credentials)
	assert.Equal(t, domain.StatusMockCreated, env.Credentials.Status)
	assert.Contains(t, env.Credentials.ServiceAccountJSON, `"project_id": "mock-project-123456"`)
}

func TestTenantServiceAccountID(t *testing.T) {
	tests := []struct {
		name      string
		startupID string
		want      string
	}{
		{
			name:      "short id kept whole",
			startupID: "acme-a1b2c3",
			want:      "pf-acme-a1b2c3",
		},
		{
			name:      "long id truncated to limit",
			startupID: "very-long-startup-name-here-a1b2c3",
			want:      "pf-very-long-startup-na",
		},
		{
			name:      "uppercase lowered",
			startupID: "Acme-A1B2C3",
			want:      "pf-acme-a1b2c3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tenantServiceAccountID(tt.startupID))
			assert.LessOrEqual(t, len(tenantServiceAccountID(tt.startupID)), 30)
		})
	}
}

func TestCreateTenantServiceAccountMock(t *testing.T) {
	s := newMockService(t)

	sa, err := s.createTenantServiceAccount(context.Background(), testStartup, "acme-analytics-a1b2c3")
	require.NoError(t, err)
	require.NotNil(t, sa)

	assert.Equal(t, "pf-acme-analytics-a1b2c", sa.Name)
	assert.Equal(t, "pf-acme-analytics-a1b2c@mock-project-123456.iam.gserviceaccount.com", sa.Email)
	assert.Equal(t, "PlatForge Service Account - Acme Analytics", sa.DisplayName)
	assert.Equal(t, domain.StatusMockCreated, sa.Status)
	assert.NotEmpty(t, sa.ConsoleURL)
	assert.NotEmpty(t, sa.KeysURL)
	assert.Len(t, sa.Instructions, 4)
}

func TestAnalyticsDatasetID(t *testing.T) {
	assert.Equal(t, "startup_acme_a1b2c3_acmeanalytics_analytics", AnalyticsDatasetID("startup-acme-a1b2c3", "Acme Analytics"))
	assert.Equal(t, "acmeanalytics_analytics", AnalyticsDatasetID("", "Acme Analytics"))
}

func TestCreateAnalyticsDatasetMock(t *testing.T) {
	s := newMockService(t)

	env := s.CreateProjectEnvironment(context.Background(), testStartup, "acme-a1b2c3")

	res := s.CreateAnalyticsDataset(context.Background(), env, testStartup)
	require.NotNil(t, res)

	assert.Equal(t, "BigQuery", res.Service)
	assert.Equal(t, "dataset", res.Type)
	assert.Equal(t, "startup_acme_a1b2c3_acmeanalytics_analytics", res.DatasetID)
	assert.Equal(t, res.DatasetID, res.Name)
	assert.Equal(t, domain.StatusMockCreated, res.Status)
	assert.Contains(t, res.Note, "Mock resource")
	assert.Equal(t, "bigquery://mock-project-123456/startup_acme_a1b2c3_acmeanalytics_analytics", res.ConnectionString)
}

func TestLookerInstanceName(t *testing.T) {
	assert.Equal(t, "startupacmea1b2c3-looker", LookerInstanceName("startup-acme-a1b2c3", "Acme Analytics"))
	assert.Equal(t, "acmeanalytics-looker", LookerInstanceName("", "Acme Analytics"))
}

func TestCreateLookerInstanceMock(t *testing.T) {
	s := newMockService(t)

	env := s.CreateProjectEnvironment(context.Background(), testStartup, "acme-a1b2c3")

	res := s.CreateLookerInstance(context.Background(), env, testStartup)
	require.NotNil(t, res)

	assert.Equal(t, "Looker", res.Service)
	assert.Equal(t, "analytics_platform", res.Type)
	assert.Equal(t, domain.StatusConfigured, res.Status)

	require.NotNil(t, res.BigQuery)
	assert.Equal(t, env.ProjectID, res.BigQuery.ProjectID)
	assert.Equal(t, AnalyticsDatasetID(env.StartupNamespace, testStartup.Name), res.BigQuery.Dataset)
	assert.Equal(t, env.ServiceAccount, res.BigQuery.ServiceAccount)
	assert.Len(t, res.SetupInstructions, 5)
}

func TestCreateStorageResourceMock(t *testing.T) {
	s := newMockService(t)

	env := s.CreateProjectEnvironment(context.Background(), testStartup, "acme-a1b2c3")

	res := s.CreateStorageResource(context.Background(), env, testStartup)
	require.NotNil(t, res)

	assert.Equal(t, "Cloud Storage", res.Service)
	assert.Equal(t, "storage", res.Type)
	assert.Equal(t, domain.StatusMockCreated, res.Status)
	assert.Contains(t, res.BucketName, "acme-analytics-storage-")
	assert.Equal(t, "gs://"+res.BucketName, res.Endpoint)
}

func TestCreateEventTopicMock(t *testing.T) {
	s := newMockService(t)

	env := s.CreateProjectEnvironment(context.Background(), testStartup, "acme-a1b2c3")

	res := s.CreateEventTopic(context.Background(), env, testStartup)
	require.NotNil(t, res)

	assert.Equal(t, "Pub/Sub", res.Service)
	assert.Equal(t, "messaging", res.Type)
	assert.Equal(t, "acme-analytics-events", res.Topic)
	assert.Equal(t, domain.StatusMockCreated, res.Status)
}

func TestVerifyEnvironmentMockSkips(t *testing.T) {
	s := newMockService(t)

	env := s.CreateProjectEnvironment(context.Background(), testStartup, "acme-a1b2c3")
	record := &domain.AccountRecord{
		Environments: domain.Environments{GCP: env},
	}

	checks := s.VerifyEnvironment(context.Background(), record)
	require.Len(t, checks, 1)
	assert.Equal(t, CheckSkipped, checks[0].Status)
}

func TestVerifyEnvironmentNoGCP(t *testing.T) {
	s := newMockService(t)

	checks := s.VerifyEnvironment(context.Background(), &domain.AccountRecord{})
	assert.Nil(t, checks)
}
