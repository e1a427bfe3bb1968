package amazonwebservices

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/rds"

	"github.com/platforge/provisioner/provisioning/domain"
)

const (
	rdsInstanceClass  = "db.t3.micro"
	rdsEngine         = "postgres"
	rdsMasterUsername = "startupuser"
	rdsDatabaseName   = "startupdb"
	rdsPort           = 5432
)

// CreateDatabase provisions a PostgreSQL RDS instance inside the
// startup's sub-account. Failures degrade to a mock descriptor whose
// note carries the cause.
func (s *AWSService) CreateDatabase(ctx context.Context, env *domain.AWSEnvironment, info domain.StartupInfo) *domain.Resource {
	l := s.loggerProvider(ctx)

	dbInstanceID := fmt.Sprintf("%s-db", info.Slug())
	masterPassword := newResourcePassword()

	if !s.connected() {
		return s.mockDatabase(dbInstanceID, masterPassword, s.stateReason)
	}

	sess, err := s.sessionForAccount(ctx, env.AccountID)
	if err != nil {
		return s.mockDatabase(dbInstanceID, masterPassword, err.Error())
	}

	rdsSvc := rds.New(sess)

	l.Infof("creating RDS instance %s", dbInstanceID)

	createInput := rds.CreateDBInstanceInput{
		DBInstanceIdentifier:  aws.String(dbInstanceID),
		DBInstanceClass:       aws.String(rdsInstanceClass),
		Engine:                aws.String(rdsEngine),
		MasterUsername:        aws.String(rdsMasterUsername),
		MasterUserPassword:    aws.String(masterPassword),
		AllocatedStorage:      aws.Int64(20),
		DBName:                aws.String(rdsDatabaseName),
		PubliclyAccessible:    aws.Bool(true),
		StorageType:           aws.String("gp2"),
		BackupRetentionPeriod: aws.Int64(0),
		MultiAZ:               aws.Bool(false),
	}

	if _, err := rdsSvc.CreateDBInstanceWithContext(ctx, &createInput); err != nil {
		l.Errorf("RDS creation failed for %s: %s", dbInstanceID, err)
		s.logPermissionRemediation(ctx, err, "rds:CreateDBInstance", "rds:DescribeDBInstances", "rds:CreateDBSubnetGroup", "ec2:DescribeVpcs", "ec2:DescribeSubnets", "ec2:DescribeSecurityGroups")

		return s.mockDatabase(dbInstanceID, masterPassword, err.Error())
	}

	// The endpoint is only assigned once the instance record exists.
	time.Sleep(2 * time.Second)

	endpoint := fmt.Sprintf("%s.placeholder.%s.rds.amazonaws.com", dbInstanceID, s.creds.Region)

	describeOutput, err := rdsSvc.DescribeDBInstancesWithContext(ctx, &rds.DescribeDBInstancesInput{
		DBInstanceIdentifier: aws.String(dbInstanceID),
	})
	if err == nil && len(describeOutput.DBInstances) > 0 {
		if ep := describeOutput.DBInstances[0].Endpoint; ep != nil {
			endpoint = aws.StringValue(ep.Address)
		}
	}

	return &domain.Resource{
		Service:          "AWS RDS",
		Type:             "database",
		Name:             dbInstanceID,
		Endpoint:         endpoint,
		Port:             rdsPort,
		Database:         rdsDatabaseName,
		Username:         rdsMasterUsername,
		Password:         masterPassword,
		Status:           domain.StatusCreating,
		ConsoleURL:       fmt.Sprintf("https://console.aws.amazon.com/rds/home?region=%s#database:id=%s", s.creds.Region, dbInstanceID),
		ConnectionString: postgresConnectionString(endpoint, masterPassword),
	}
}

func (s *AWSService) mockDatabase(dbInstanceID, masterPassword, cause string) *domain.Resource {
	endpoint := fmt.Sprintf("%s.%s.us-east-1.rds.amazonaws.com", dbInstanceID, domain.RandomHex(8))

	return &domain.Resource{
		Service:          "AWS RDS",
		Type:             "database",
		Name:             dbInstanceID,
		Endpoint:         endpoint,
		Port:             rdsPort,
		Database:         rdsDatabaseName,
		Username:         rdsMasterUsername,
		Password:         masterPassword,
		Status:           domain.StatusMockCreated,
		Note:             fmt.Sprintf("Mock resource - real RDS creation failed: %s", cause),
		ConnectionString: postgresConnectionString(endpoint, masterPassword),
	}
}

func postgresConnectionString(endpoint, password string) string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%d/%s", rdsMasterUsername, password, endpoint, rdsPort, rdsDatabaseName)
}

// newResourcePassword generates a master password satisfying the RDS and
// Redshift character requirements.
func newResourcePassword() string {
	return fmt.Sprintf("StartupPass%s!", domain.RandomHex(8))
}

// logPermissionRemediation logs the IAM actions the master user needs
// when a provisioning call is rejected for missing permissions.
func (s *AWSService) logPermissionRemediation(ctx context.Context, err error, actions ...string) {
	if !isAccessDenied(err) {
		return
	}

	l := s.loggerProvider(ctx)
	l.Warningf("add these permissions to the platforge-api IAM user: %s", strings.Join(actions, ", "))
}

func isAccessDenied(err error) bool {
	if awsErr, ok := err.(awserr.Error); ok {
		switch awsErr.Code() {
		case "AccessDenied", "AccessDeniedException", "UnauthorizedOperation":
			return true
		}
	}

	return strings.Contains(err.Error(), "not authorized")
}
