package googlecloud

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/bigquery"

	"github.com/platforge/provisioner/provisioning/domain"
)

// AnalyticsDatasetID derives the BigQuery dataset id for a startup.
// Dataset ids allow only alphanumerics and underscores, so the namespace
// and the startup name are flattened before joining.
func AnalyticsDatasetID(namespace, startupName string) string {
	cleanName := domain.AlnumSlug(startupName)

	if namespace == "" {
		return fmt.Sprintf("%s_analytics", cleanName)
	}

	cleanNamespace := strings.ReplaceAll(namespace, "-", "_")

	return fmt.Sprintf("%s_%s_analytics", cleanNamespace, cleanName)
}

// CreateAnalyticsDataset provisions the startup's BigQuery dataset inside
// its tenant namespace.
func (s *GCPService) CreateAnalyticsDataset(ctx context.Context, env *domain.GCPEnvironment, info domain.StartupInfo) *domain.Resource {
	l := s.loggerProvider(ctx)

	datasetID := AnalyticsDatasetID(env.StartupNamespace, info.Name)

	if !s.connected() {
		res := s.failedDataset(env, datasetID, s.stateReason)
		res.Status = domain.StatusMockCreated
		res.Note = fmt.Sprintf("Mock resource - %s", s.stateReason)

		return res
	}

	client, err := s.bigQueryClient(ctx)
	if err != nil {
		return s.failedDataset(env, datasetID, err.Error())
	}

	defer client.Close()

	l.Infof("creating BigQuery dataset %s", datasetID)

	meta := &bigquery.DatasetMetadata{
		Location:    "US",
		Description: fmt.Sprintf("Analytics dataset for %s - Created by PlatForge", info.Name),
	}

	if err := client.Dataset(datasetID).Create(ctx, meta); err != nil {
		l.Errorf("BigQuery dataset creation failed for %s: %s", datasetID, err)

		if strings.Contains(err.Error(), "bigquery.datasets.create") || strings.Contains(strings.ToLower(err.Error()), "permission") {
			l.Warningf("grant the BigQuery Admin role to the master account: https://console.cloud.google.com/iam-admin/iam?project=%s", env.ProjectID)
		}

		return s.failedDataset(env, datasetID, err.Error())
	}

	l.Infof("BigQuery dataset created successfully: %s", datasetID)

	consoleURL := fmt.Sprintf("https://console.cloud.google.com/bigquery?project=%s&ws=!1m5!1m4!4m3!1s%s!2s%s!3e1", env.ProjectID, env.ProjectID, datasetID)

	return &domain.Resource{
		Service:          "BigQuery",
		Type:             "dataset",
		Name:             datasetID,
		ProjectID:        env.ProjectID,
		DatasetID:        datasetID,
		StartupNamespace: env.StartupNamespace,
		QueryURL:         consoleURL,
		Status:           domain.StatusActive,
		ConnectionString: fmt.Sprintf("bigquery://%s/%s", env.ProjectID, datasetID),
		ConsoleURL:       consoleURL,
		DatasetURL:       fmt.Sprintf("https://console.cloud.google.com/bigquery?project=%s&p=%s&d=%s&page=dataset", env.ProjectID, env.ProjectID, datasetID),
	}
}

func (s *GCPService) failedDataset(env *domain.GCPEnvironment, datasetID, cause string) *domain.Resource {
	return &domain.Resource{
		Service:          "BigQuery",
		Type:             "dataset",
		Name:             datasetID,
		ProjectID:        env.ProjectID,
		DatasetID:        datasetID,
		StartupNamespace: env.StartupNamespace,
		QueryURL:         fmt.Sprintf("https://console.cloud.google.com/bigquery?project=%s", env.ProjectID),
		Status:           domain.StatusCreationFailed,
		Note:             fmt.Sprintf("Dataset creation failed: %s", cause),
		ConnectionString: fmt.Sprintf("bigquery://%s/%s", env.ProjectID, datasetID),
		ConsoleURL:       fmt.Sprintf("https://console.cloud.google.com/bigquery?project=%s", env.ProjectID),
	}
}
