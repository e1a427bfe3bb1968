package googlecloud

import (
	"context"
	"fmt"
	"strings"

	"github.com/platforge/provisioner/provisioning/domain"
)

// LookerInstanceName derives the Looker instance name for a startup.
func LookerInstanceName(namespace, startupName string) string {
	if namespace == "" {
		return fmt.Sprintf("%s-looker", domain.AlnumSlug(startupName))
	}

	cleanNamespace := strings.ReplaceAll(strings.ReplaceAll(namespace, "-", ""), "_", "")

	return fmt.Sprintf("%s-looker", cleanNamespace)
}

// CreateLookerInstance produces the Looker instance configuration for the
// startup, wired to its analytics dataset. Looker instances are managed
// through the Looker console; this configures the connection and setup
// steps rather than calling a provisioning API.
func (s *GCPService) CreateLookerInstance(ctx context.Context, env *domain.GCPEnvironment, info domain.StartupInfo) *domain.Resource {
	l := s.loggerProvider(ctx)

	instanceName := LookerInstanceName(env.StartupNamespace, info.Name)
	consoleURL := fmt.Sprintf("https://console.cloud.google.com/looker/instances?project=%s", env.ProjectID)

	var bigQueryConn *domain.LookerConnection

	datasetStep := "5. Connect to your BigQuery dataset"

	if env.StartupNamespace != "" {
		dataset := AnalyticsDatasetID(env.StartupNamespace, info.Name)
		bigQueryConn = &domain.LookerConnection{
			ProjectID:      env.ProjectID,
			Dataset:        dataset,
			ServiceAccount: env.ServiceAccount,
		}
		datasetStep = fmt.Sprintf("5. Use dataset: %s", dataset)
	}

	l.Infof("Looker configuration created for %s", instanceName)

	return &domain.Resource{
		Service:          "Looker",
		Type:             "analytics_platform",
		Name:             instanceName,
		ProjectID:        env.ProjectID,
		InstanceName:     instanceName,
		StartupNamespace: env.StartupNamespace,
		Status:           domain.StatusConfigured,
		BigQuery:         bigQueryConn,
		ConsoleURL:       consoleURL,
		ConnectionString: fmt.Sprintf("looker://%s/%s", env.ProjectID, instanceName),
		SetupInstructions: []string{
			"1. Go to Looker Console in GCP",
			"2. Create new Looker instance",
			fmt.Sprintf("3. Name it: %s", instanceName),
			"4. Connect to BigQuery using the service account created",
			datasetStep,
		},
	}
}
