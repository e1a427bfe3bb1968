package amazonwebservices

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/redshift"

	"github.com/platforge/provisioner/provisioning/domain"
)

const (
	redshiftNodeType = "dc2.large"
	redshiftDatabase = "startupwarehouse"
	redshiftPort     = 5439
)

// CreateWarehouse provisions a single-node Redshift cluster inside the
// startup's sub-account.
func (s *AWSService) CreateWarehouse(ctx context.Context, env *domain.AWSEnvironment, info domain.StartupInfo) *domain.Resource {
	l := s.loggerProvider(ctx)

	clusterID := fmt.Sprintf("%s-warehouse", info.Slug())

	if !s.connected() {
		return s.mockWarehouse(clusterID, s.stateReason)
	}

	sess, err := s.sessionForAccount(ctx, env.AccountID)
	if err != nil {
		return s.mockWarehouse(clusterID, err.Error())
	}

	redshiftSvc := redshift.New(sess)

	l.Infof("creating Redshift cluster %s", clusterID)

	createInput := redshift.CreateClusterInput{
		ClusterIdentifier:  aws.String(clusterID),
		DBName:             aws.String(redshiftDatabase),
		MasterUsername:     aws.String(rdsMasterUsername),
		MasterUserPassword: aws.String(newResourcePassword()),
		NodeType:           aws.String(redshiftNodeType),
		ClusterType:        aws.String("single-node"),
		PubliclyAccessible: aws.Bool(true),
	}

	if _, err := redshiftSvc.CreateClusterWithContext(ctx, &createInput); err != nil {
		l.Errorf("Redshift creation failed for %s: %s", clusterID, err)
		s.logPermissionRemediation(ctx, err, "redshift:CreateCluster", "redshift:DescribeClusters")

		return s.mockWarehouse(clusterID, err.Error())
	}

	return &domain.Resource{
		Service:    "AWS Redshift",
		Type:       "data_warehouse",
		Name:       clusterID,
		Endpoint:   fmt.Sprintf("%s.%s.%s.redshift.amazonaws.com", clusterID, domain.RandomHex(8), s.creds.Region),
		Port:       redshiftPort,
		Database:   redshiftDatabase,
		Status:     domain.StatusCreating,
		ConsoleURL: fmt.Sprintf("https://console.aws.amazon.com/redshift/home?region=%s#cluster-details:cluster=%s", s.creds.Region, clusterID),
	}
}

func (s *AWSService) mockWarehouse(clusterID, cause string) *domain.Resource {
	return &domain.Resource{
		Service:  "AWS Redshift",
		Type:     "data_warehouse",
		Name:     clusterID,
		Endpoint: fmt.Sprintf("%s.%s.us-east-1.redshift.amazonaws.com", clusterID, domain.RandomHex(8)),
		Port:     redshiftPort,
		Database: redshiftDatabase,
		Status:   domain.StatusMockCreated,
		Note:     fmt.Sprintf("Mock resource - real Redshift creation failed: %s", cause),
	}
}
