package provisioning

import (
	"context"
	"fmt"

	"github.com/platforge/provisioner/provisioning/catalog"
	"github.com/platforge/provisioner/provisioning/domain"
)

// provisionServiceResource creates the concrete resource backing one
// pipeline service. Returns nil when the service needs an environment
// that was not provisioned, or maps to no direct resource.
func (s *Service) provisionServiceResource(ctx context.Context, service string, environments domain.Environments, info domain.StartupInfo) *domain.Resource {
	switch service {
	case "bigquery":
		if environments.GCP != nil {
			return s.gcp.CreateAnalyticsDataset(ctx, environments.GCP, info)
		}

	case "looker":
		if environments.GCP != nil {
			return s.gcp.CreateLookerInstance(ctx, environments.GCP, info)
		}

	case "cloud_storage":
		if environments.GCP != nil {
			return s.gcp.CreateStorageResource(ctx, environments.GCP, info)
		}

	case "gcp_pubsub":
		if environments.GCP != nil {
			return s.gcp.CreateEventTopic(ctx, environments.GCP, info)
		}

	case "aws_rds":
		if environments.AWS != nil {
			return s.aws.CreateDatabase(ctx, environments.AWS, info)
		}

	case "redshift":
		if environments.AWS != nil {
			return s.aws.CreateWarehouse(ctx, environments.AWS, info)
		}

	case "aws_ec2":
		if environments.AWS != nil {
			return s.aws.CreateComputeInstance(ctx, environments.AWS, info)
		}

	case "s3", "aws_s3":
		if environments.AWS != nil {
			return s.aws.CreateStorageBucket(ctx, environments.AWS, info)
		}

	case "dynamodb":
		if environments.AWS != nil {
			return s.aws.CreateNoSQLTable(ctx, environments.AWS, info)
		}

	case "metabase":
		if !environments.Empty() {
			return metabaseDashboard(info)
		}

	default:
		if entry, ok := s.catalog.Lookup(service); ok && entry.Kind == catalog.KindContainer && !environments.Empty() {
			return containerDeployment(entry, info)
		}
	}

	return nil
}

// metabaseDashboard describes the hosted Metabase deployment for the
// startup's dashboard.
func metabaseDashboard(info domain.StartupInfo) *domain.Resource {
	return &domain.Resource{
		Service:    "Metabase",
		Type:       "dashboard",
		Name:       fmt.Sprintf("%s-dashboard", info.Slug()),
		URL:        fmt.Sprintf("https://dashboard-%s.platforge.ai", domain.RandomHex(8)),
		AdminEmail: info.Email,
		Status:     domain.StatusRunning,
	}
}

// containerDeployment describes a managed container deployment for a
// deployable pipeline service, hosted against the startup's deployment
// provider.
func containerDeployment(entry catalog.Entry, info domain.StartupInfo) *domain.Resource {
	slug := domain.Slug(entry.Name)

	return &domain.Resource{
		Service:    entry.Name,
		Type:       "container_deployment",
		Name:       fmt.Sprintf("%s-%s", info.Slug(), slug),
		URL:        fmt.Sprintf("https://%s-%s.platforge.ai", slug, domain.RandomHex(8)),
		AdminEmail: info.Email,
		Status:     domain.StatusRunning,
	}
}
