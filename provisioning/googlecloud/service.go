// Package googlecloud provisions tenant-isolated GCP environments inside
// the shared PlatForge project: a dedicated service account, scoped IAM
// grants and per-startup storage, plus the analytics resources running
// against them.
//
// Provisioning entrypoints are total functions: failures degrade to
// descriptors whose status and note carry the cause.
package googlecloud

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/storage"
	"google.golang.org/api/cloudresourcemanager/v1"
	"google.golang.org/api/iam/v1"
	"google.golang.org/api/option"

	"github.com/platforge/provisioner/logger"
	"github.com/platforge/provisioner/secrets"
)

// Shared-project operating modes.
const (
	ModeEnhancedSharedProject = "enhanced_shared_project"
	ModeSingleProject         = "single_project"
)

// ConnectionState is the shared-project connectivity mode, decided once
// at construction.
type ConnectionState int

const (
	// StateNotConfigured means no real service account was provided; all
	// provisioning produces mock descriptors.
	StateNotConfigured ConnectionState = iota

	// StateConnected means the shared project is reachable.
	StateConnected

	// StateDegraded means credentials exist but the project probe failed.
	StateDegraded
)

// GCPService provisions GCP environments and resources for startups.
type GCPService struct {
	loggerProvider logger.Provider
	creds          secrets.GCPCredentials
	clientOptions  []option.ClientOption
	iamService     *iam.Service
	crmService     *cloudresourcemanager.Service
	storageClient  *storage.Client
	state          ConnectionState
	stateReason    string
}

// NewGCPService builds the provisioner and probes shared-project access.
// It never fails: missing or broken credentials put the service in a
// degraded state instead.
func NewGCPService(ctx context.Context, log logger.Provider, creds secrets.GCPCredentials) *GCPService {
	s := &GCPService{
		loggerProvider: log,
		creds:          creds,
		state:          StateNotConfigured,
	}

	if creds.ProjectID == "" || creds.ProjectID == "mock-project-123456" {
		s.stateReason = "no GCP project configured"
		return s
	}

	switch {
	case creds.ServiceAccountJSON != "":
		s.clientOptions = append(s.clientOptions, option.WithCredentialsJSON([]byte(creds.ServiceAccountJSON)))
	case creds.ServiceAccountFile != "" && creds.ServiceAccountFile != "mock_service_account.json":
		s.clientOptions = append(s.clientOptions, option.WithCredentialsFile(creds.ServiceAccountFile))
	default:
		s.stateReason = "no GCP service account configured"
		return s
	}

	iamService, err := iam.NewService(ctx, s.clientOptions...)
	if err != nil {
		s.state = StateDegraded
		s.stateReason = fmt.Sprintf("IAM client setup failed: %v", err)

		return s
	}

	crmService, err := cloudresourcemanager.NewService(ctx, s.clientOptions...)
	if err != nil {
		s.state = StateDegraded
		s.stateReason = fmt.Sprintf("Resource Manager client setup failed: %v", err)

		return s
	}

	storageClient, err := storage.NewClient(ctx, s.clientOptions...)
	if err != nil {
		s.state = StateDegraded
		s.stateReason = fmt.Sprintf("Storage client setup failed: %v", err)

		return s
	}

	s.iamService = iamService
	s.crmService = crmService
	s.storageClient = storageClient

	if _, err := crmService.Projects.Get(creds.ProjectID).Context(ctx).Do(); err != nil {
		s.state = StateDegraded
		s.stateReason = fmt.Sprintf("project %s not reachable: %v", creds.ProjectID, err)

		return s
	}

	s.state = StateConnected

	log(ctx).Infof("connected to GCP project %s", creds.ProjectID)

	return s
}

// State returns the connectivity mode and, for degraded modes, the reason.
func (s *GCPService) State() (ConnectionState, string) {
	return s.state, s.stateReason
}

func (s *GCPService) connected() bool {
	return s.state == StateConnected
}

func (s *GCPService) bigQueryClient(ctx context.Context) (*bigquery.Client, error) {
	return bigquery.NewClient(ctx, s.creds.ProjectID, s.clientOptions...)
}

func (s *GCPService) pubSubClient(ctx context.Context) (*pubsub.Client, error) {
	return pubsub.NewClient(ctx, s.creds.ProjectID, s.clientOptions...)
}

func projectConsoleURL(projectID string) string {
	return fmt.Sprintf("https://console.cloud.google.com/home/dashboard?project=%s", projectID)
}
