package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccountKey(t *testing.T) {
	info := StartupInfo{Name: "Data Flow Startup", Email: "Founder@DataFlow.com"}

	key := AccountKey(info)

	assert.Equal(t, "data-flow-startup_founder@dataflow.com", key)
	// stable across calls
	assert.Equal(t, key, AccountKey(info))
}

func TestNewStartupID(t *testing.T) {
	info := StartupInfo{Name: "Acme", Email: "f@acme.io"}

	id := NewStartupID(info)

	assert.True(t, strings.HasPrefix(id, "acme-"))
	assert.Len(t, id, len("acme-")+6)
	assert.NotEqual(t, id, NewStartupID(info))
}

func TestSlugs(t *testing.T) {
	assert.Equal(t, "my-cool-startup", Slug("My Cool Startup"))
	assert.Equal(t, "mycoolstartup", AlnumSlug("My Cool-Startup"))
}

func TestRandomHex(t *testing.T) {
	assert.Len(t, RandomHex(8), 8)
	assert.Len(t, RandomHex(17), 17)
	assert.Len(t, RandomHex(64), 64)
	assert.NotEqual(t, RandomHex(16), RandomHex(16))
}

func TestAccountRecordLookups(t *testing.T) {
	r := &AccountRecord{
		PipelineServices:     []string{"bigquery", "airflow"},
		ProvisionedResources: []Resource{{Service: "BigQuery"}},
	}

	assert.True(t, r.HasService("bigquery"))
	assert.False(t, r.HasService("aws_ec2"))
	assert.True(t, r.HasResource("BigQuery"))
	assert.False(t, r.HasResource("AWS EC2"))
}

func TestDeploymentTarget(t *testing.T) {
	aws := &AWSEnvironment{AccountID: "123"}
	gcp := &GCPEnvironment{ProjectID: "p"}

	assert.Equal(t, ProviderAWS, Environments{AWS: aws, GCP: gcp}.DeploymentTarget())
	assert.Equal(t, ProviderGCP, Environments{GCP: gcp}.DeploymentTarget())
	assert.Equal(t, "", Environments{}.DeploymentTarget())
	assert.True(t, Environments{}.Empty())
}
