package secrets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFallsBackToMock(t *testing.T) {
	s := Load(context.Background())

	require.NotNil(t, s)
	assert.True(t, s.IsMock())
	assert.Equal(t, "o-mock123456", s.AWS.OrganizationID)
	assert.Equal(t, "mock-project-123456", s.GCP.ProjectID)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PLATFORGE_SECRETS_JSON", `{
		"aws": {"access_key_id": "AKIAREAL", "secret_access_key": "shh", "organization_id": "o-real"},
		"gcp": {"project_id": "platforge-prod", "billing_account_id": "01-02-03"}
	}`)

	s := Load(context.Background())

	require.NotNil(t, s)
	assert.Equal(t, SourceEnv, s.Source)
	assert.False(t, s.IsMock())
	assert.Equal(t, "AKIAREAL", s.AWS.AccessKeyID)
	// defaults applied for omitted fields
	assert.Equal(t, "us-east-1", s.AWS.Region)
	assert.Equal(t, "single_project", s.GCP.Mode)
}

func TestLoadIgnoresMalformedEnv(t *testing.T) {
	t.Setenv("PLATFORGE_SECRETS_JSON", "{not json")

	s := Load(context.Background())

	require.NotNil(t, s)
	assert.True(t, s.IsMock())
}
