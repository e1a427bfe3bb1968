// Package secrets resolves the PlatForge master cloud credentials.
//
// Resolution order: PLATFORGE_SECRETS_JSON env var, Secret Manager,
// local platforge_secrets.json, built-in mock credentials. Missing
// credentials are never fatal; the provisioner runs in mock mode instead.
package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"

	"github.com/platforge/provisioner/common"
)

const (
	secretsEnvVar   = "PLATFORGE_SECRETS_JSON"
	secretsFileName = "platforge_secrets.json"
	secretName      = "platforge-secrets"
	latestVersion   = "latest"
)

// Source identifies where credentials were resolved from.
type Source string

const (
	SourceEnv           Source = "env"
	SourceSecretManager Source = "secret-manager"
	SourceFile          Source = "file"
	SourceMock          Source = "mock"
)

// AWSCredentials are the master AWS Organizations credentials.
type AWSCredentials struct {
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
	OrganizationID  string `json:"organization_id"`
	Region          string `json:"region"`
}

// GCPCredentials identify the shared GCP project and its master service account.
type GCPCredentials struct {
	ServiceAccountFile string `json:"service_account_file,omitempty"`
	ServiceAccountJSON string `json:"service_account_json,omitempty"`
	ProjectID          string `json:"project_id"`
	BillingAccountID   string `json:"billing_account_id"`
	Mode               string `json:"mode"`
}

// Secrets is the full credential input consumed by the provisioners.
type Secrets struct {
	AWS AWSCredentials `json:"aws"`
	GCP GCPCredentials `json:"gcp"`

	Source Source `json:"-"`
}

// IsMock reports whether the AWS credentials are the built-in placeholders.
func (s *Secrets) IsMock() bool {
	return s.Source == SourceMock || s.AWS.AccessKeyID == "MOCK_KEY"
}

// Load resolves credentials, falling back to mock placeholders when no
// real credential source is available.
func Load(ctx context.Context) *Secrets {
	if raw := common.GetEnv(secretsEnvVar, ""); raw != "" {
		if s, err := parse([]byte(raw)); err == nil {
			s.Source = SourceEnv
			return s
		}
	}

	if common.ProjectID != "" {
		if s, err := loadFromSecretManager(ctx); err == nil {
			s.Source = SourceSecretManager
			return s
		}
	}

	if raw, err := os.ReadFile(secretsFileName); err == nil {
		if s, err := parse(raw); err == nil {
			s.Source = SourceFile
			return s
		}
	}

	return Mock()
}

// Mock returns placeholder credentials for running without cloud access.
func Mock() *Secrets {
	return &Secrets{
		AWS: AWSCredentials{
			AccessKeyID:     "MOCK_KEY",
			SecretAccessKey: "MOCK_SECRET",
			OrganizationID:  "o-mock123456",
			Region:          "us-east-1",
		},
		GCP: GCPCredentials{
			ServiceAccountFile: "mock_service_account.json",
			ProjectID:          "mock-project-123456",
			BillingAccountID:   "MOCK-123456-ABCDEF",
			Mode:               "single_project",
		},
		Source: SourceMock,
	}
}

func parse(raw []byte) (*Secrets, error) {
	var s Secrets
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}

	if s.AWS.Region == "" {
		s.AWS.Region = "us-east-1"
	}

	if s.GCP.Mode == "" {
		s.GCP.Mode = "single_project"
	}

	return &s, nil
}

func loadFromSecretManager(ctx context.Context) (*Secrets, error) {
	sm, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, err
	}

	defer sm.Close()

	res, err := sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("projects/%s/secrets/%s/versions/%s", common.ProjectID, secretName, latestVersion),
	})
	if err != nil {
		return nil, err
	}

	return parse(res.Payload.GetData())
}
