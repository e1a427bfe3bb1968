package googlecloud

import (
	"context"
	"fmt"
	"strings"

	"github.com/platforge/provisioner/provisioning/domain"
)

// tenantRoles are the IAM roles every startup service account receives,
// scoped to the shared project.
var tenantRoles = []string{
	"roles/bigquery.dataEditor",
	"roles/storage.objectAdmin",
	"roles/viewer",
}

// CreateProjectEnvironment provisions the startup's tenant namespace in
// the shared project. Isolation degrades in order: enhanced_shared
// (dedicated service account, IAM grants, per-startup bucket) to
// basic_shared to a minimal fallback descriptor; every downgrade carries
// a note with the cause.
func (s *GCPService) CreateProjectEnvironment(ctx context.Context, info domain.StartupInfo, startupID string) *domain.GCPEnvironment {
	l := s.loggerProvider(ctx)

	namespace := fmt.Sprintf("startup-%s", startupID)

	if !s.connected() {
		l.Infof("GCP not connected (%s) - creating mock environment for %s", s.stateReason, info.Name)
		return s.mockProjectEnvironment(info, startupID, namespace)
	}

	if s.creds.Mode != ModeEnhancedSharedProject {
		l.Infof("using basic shared project %s for %s", s.creds.ProjectID, info.Name)
		return s.basicProjectEnvironment(info, namespace, "")
	}

	l.Infof("creating enhanced isolation in shared project %s (namespace %s)", s.creds.ProjectID, namespace)

	serviceAccount, err := s.createTenantServiceAccount(ctx, info, startupID)
	if err != nil {
		l.Warningf("enhanced isolation setup failed for %s: %s - falling back to basic shared project", info.Name, err)
		return s.basicProjectEnvironment(info, namespace, fmt.Sprintf("Enhanced isolation failed - using basic isolation: %v", err))
	}

	if err := s.grantProjectRoles(ctx, serviceAccount.Email); err != nil {
		l.Warningf("IAM role granting failed for %s: %s", serviceAccount.Email, err)
	}

	bucketName := s.createTenantBucket(ctx, startupID)

	return &domain.GCPEnvironment{
		ProjectID:        s.creds.ProjectID,
		ProjectName:      fmt.Sprintf("PlatForge-%s-Isolated", info.Name),
		ConsoleURL:       projectConsoleURL(s.creds.ProjectID),
		Status:           domain.StatusActive,
		StartupNamespace: namespace,
		ServiceAccount:   serviceAccount.Email,
		StorageBucket:    bucketName,
		IsolationLevel:   domain.IsolationEnhancedShared,
		IAMRoles:         tenantRoles,
		Credentials:      serviceAccount,
	}
}

func (s *GCPService) mockProjectEnvironment(info domain.StartupInfo, startupID, namespace string) *domain.GCPEnvironment {
	projectID := s.creds.ProjectID
	if projectID == "" {
		projectID = "mock-project-123456"
	}

	accountName := fmt.Sprintf("platforge-%s", strings.ToLower(startupID))
	email := fmt.Sprintf("%s@%s.iam.gserviceaccount.com", accountName, projectID)

	return &domain.GCPEnvironment{
		ProjectID:        projectID,
		ProjectName:      fmt.Sprintf("PlatForge-%s-Isolated", info.Name),
		ConsoleURL:       projectConsoleURL(projectID),
		Status:           domain.StatusActive,
		StartupNamespace: namespace,
		ServiceAccount:   email,
		IsolationLevel:   domain.IsolationEnhancedShared,
		Note:             fmt.Sprintf("Mock environment - %s", s.stateReason),
		Credentials: &domain.ServiceAccountInfo{
			Email:              email,
			Name:               accountName,
			ProjectID:          projectID,
			Status:             domain.StatusMockCreated,
			ServiceAccountJSON: fmt.Sprintf(`{"type": "service_account", "project_id": %q, "client_email": %q}`, projectID, email),
		},
	}
}

func (s *GCPService) basicProjectEnvironment(info domain.StartupInfo, namespace, note string) *domain.GCPEnvironment {
	env := &domain.GCPEnvironment{
		ProjectID:        s.creds.ProjectID,
		ProjectName:      fmt.Sprintf("PlatForge-%s-Basic", info.Name),
		ConsoleURL:       projectConsoleURL(s.creds.ProjectID),
		Status:           domain.StatusActive,
		StartupNamespace: namespace,
		IsolationLevel:   domain.IsolationBasicShared,
		Note:             note,
		Credentials: &domain.ServiceAccountInfo{
			ProjectID:          s.creds.ProjectID,
			Status:             domain.StatusActive,
			ServiceAccountJSON: fmt.Sprintf(`{"type": "service_account", "project_id": %q}`, s.creds.ProjectID),
		},
	}

	if note == "" {
		env.ProjectName = "PlatForge-Shared-Project"
	}

	return env
}

// createTenantBucket provisions the startup's dedicated storage bucket
// inside the shared project. It always returns a bucket name; a "-mock"
// suffix marks a bucket that could not actually be created.
func (s *GCPService) createTenantBucket(ctx context.Context, startupID string) string {
	l := s.loggerProvider(ctx)

	bucketName := fmt.Sprintf("platforge-%s-data", strings.ToLower(startupID))

	if !s.connected() {
		return bucketName
	}

	if err := s.storageClient.Bucket(bucketName).Create(ctx, s.creds.ProjectID, nil); err != nil {
		l.Warningf("storage bucket creation failed for %s: %s", bucketName, err)
		return bucketName + "-mock"
	}

	l.Infof("created storage bucket %s", bucketName)

	return bucketName
}
