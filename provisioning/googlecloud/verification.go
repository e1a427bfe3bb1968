package googlecloud

import (
	"context"
	"fmt"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"

	"github.com/platforge/provisioner/provisioning/domain"
)

// CheckStatus classifies one verification check outcome.
type CheckStatus string

const (
	CheckOK      CheckStatus = "ok"
	CheckMissing CheckStatus = "missing"
	CheckError   CheckStatus = "error"
	CheckSkipped CheckStatus = "skipped"
)

// Check is one verified item of a startup's GCP environment.
type Check struct {
	Item   string      `json:"item"`
	Target string      `json:"target"`
	Status CheckStatus `json:"status"`
	Detail string      `json:"detail,omitempty"`
}

// VerifyEnvironment runs read-only existence checks against the
// startup's GCP environment: the dedicated service account, the tenant
// bucket and every BigQuery dataset recorded for the account. Mock-mode
// checks report skipped instead of probing.
func (s *GCPService) VerifyEnvironment(ctx context.Context, record *domain.AccountRecord) []Check {
	env := record.Environments.GCP
	if env == nil {
		return nil
	}

	if !s.connected() {
		return []Check{
			{Item: "gcp_environment", Target: env.ProjectID, Status: CheckSkipped, Detail: s.stateReason},
		}
	}

	var checks []Check

	if env.ServiceAccount != "" {
		checks = append(checks, s.checkServiceAccount(ctx, env.ServiceAccount))
	}

	if env.StorageBucket != "" {
		checks = append(checks, s.checkBucket(ctx, env.StorageBucket))
	}

	for _, res := range record.ProvisionedResources {
		if res.Service == "BigQuery" && res.DatasetID != "" {
			checks = append(checks, s.checkDataset(ctx, res.DatasetID))
		}
	}

	return checks
}

func (s *GCPService) checkServiceAccount(ctx context.Context, email string) Check {
	name := fmt.Sprintf("projects/%s/serviceAccounts/%s", s.creds.ProjectID, email)

	_, err := s.iamService.Projects.ServiceAccounts.Get(name).Context(ctx).Do()

	return checkResult("service_account", email, err)
}

func (s *GCPService) checkBucket(ctx context.Context, bucketName string) Check {
	_, err := s.storageClient.Bucket(bucketName).Attrs(ctx)
	if err != nil {
		return Check{Item: "storage_bucket", Target: bucketName, Status: CheckMissing, Detail: err.Error()}
	}

	return Check{Item: "storage_bucket", Target: bucketName, Status: CheckOK}
}

func (s *GCPService) checkDataset(ctx context.Context, datasetID string) Check {
	client, err := s.bigQueryClient(ctx)
	if err != nil {
		return Check{Item: "bigquery_dataset", Target: datasetID, Status: CheckError, Detail: err.Error()}
	}

	defer client.Close()

	it := client.Datasets(ctx)
	for {
		ds, err := it.Next()
		if err == iterator.Done {
			break
		}

		if err != nil {
			return Check{Item: "bigquery_dataset", Target: datasetID, Status: CheckError, Detail: err.Error()}
		}

		if ds.DatasetID == datasetID {
			return Check{Item: "bigquery_dataset", Target: datasetID, Status: CheckOK}
		}
	}

	return Check{Item: "bigquery_dataset", Target: datasetID, Status: CheckMissing}
}

func checkResult(item, target string, err error) Check {
	if err == nil {
		return Check{Item: item, Target: target, Status: CheckOK}
	}

	if apiErr, ok := err.(*googleapi.Error); ok && apiErr.Code == 404 {
		return Check{Item: item, Target: target, Status: CheckMissing}
	}

	return Check{Item: item, Target: target, Status: CheckError, Detail: err.Error()}
}
