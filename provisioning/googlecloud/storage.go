package googlecloud

import (
	"context"
	"fmt"

	"github.com/platforge/provisioner/provisioning/domain"
)

// CreateStorageResource provisions a general-purpose GCS bucket for the
// startup, separate from the tenant isolation bucket.
func (s *GCPService) CreateStorageResource(ctx context.Context, env *domain.GCPEnvironment, info domain.StartupInfo) *domain.Resource {
	l := s.loggerProvider(ctx)

	bucketName := fmt.Sprintf("%s-storage-%s", info.Slug(), domain.RandomHex(8))

	if !s.connected() {
		return s.mockStorageResource(env, bucketName, s.stateReason)
	}

	l.Infof("creating GCS bucket %s", bucketName)

	if err := s.storageClient.Bucket(bucketName).Create(ctx, env.ProjectID, nil); err != nil {
		l.Errorf("GCS bucket creation failed for %s: %s", bucketName, err)
		return s.mockStorageResource(env, bucketName, err.Error())
	}

	return &domain.Resource{
		Service:    "Cloud Storage",
		Type:       "storage",
		Name:       bucketName,
		BucketName: bucketName,
		ProjectID:  env.ProjectID,
		Status:     domain.StatusActive,
		ConsoleURL: gcsConsoleURL(bucketName, env.ProjectID),
		Endpoint:   fmt.Sprintf("gs://%s", bucketName),
	}
}

func (s *GCPService) mockStorageResource(env *domain.GCPEnvironment, bucketName, cause string) *domain.Resource {
	return &domain.Resource{
		Service:    "Cloud Storage",
		Type:       "storage",
		Name:       bucketName,
		BucketName: bucketName,
		ProjectID:  env.ProjectID,
		Status:     domain.StatusMockCreated,
		Note:       fmt.Sprintf("Mock resource - real bucket creation failed: %s", cause),
		ConsoleURL: gcsConsoleURL(bucketName, env.ProjectID),
		Endpoint:   fmt.Sprintf("gs://%s", bucketName),
	}
}

func gcsConsoleURL(bucketName, projectID string) string {
	return fmt.Sprintf("https://console.cloud.google.com/storage/browser/%s?project=%s", bucketName, projectID)
}
