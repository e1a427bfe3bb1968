package amazonwebservices

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"

	"github.com/platforge/provisioner/provisioning/domain"
)

// CreateNoSQLTable provisions an on-demand DynamoDB table inside the
// startup's sub-account.
func (s *AWSService) CreateNoSQLTable(ctx context.Context, env *domain.AWSEnvironment, info domain.StartupInfo) *domain.Resource {
	l := s.loggerProvider(ctx)

	tableName := fmt.Sprintf("%s-table", info.Slug())

	if !s.connected() {
		return s.mockNoSQLTable(tableName, s.stateReason)
	}

	sess, err := s.sessionForAccount(ctx, env.AccountID)
	if err != nil {
		return s.mockNoSQLTable(tableName, err.Error())
	}

	dynamoSvc := dynamodb.New(sess)

	l.Infof("creating DynamoDB table %s", tableName)

	createInput := dynamodb.CreateTableInput{
		TableName:   aws.String(tableName),
		BillingMode: aws.String(dynamodb.BillingModePayPerRequest),
		AttributeDefinitions: []*dynamodb.AttributeDefinition{
			{AttributeName: aws.String("pk"), AttributeType: aws.String(dynamodb.ScalarAttributeTypeS)},
			{AttributeName: aws.String("sk"), AttributeType: aws.String(dynamodb.ScalarAttributeTypeS)},
		},
		KeySchema: []*dynamodb.KeySchemaElement{
			{AttributeName: aws.String("pk"), KeyType: aws.String(dynamodb.KeyTypeHash)},
			{AttributeName: aws.String("sk"), KeyType: aws.String(dynamodb.KeyTypeRange)},
		},
	}

	if _, err := dynamoSvc.CreateTableWithContext(ctx, &createInput); err != nil {
		l.Errorf("DynamoDB table creation failed for %s: %s", tableName, err)
		s.logPermissionRemediation(ctx, err, "dynamodb:CreateTable", "dynamodb:DescribeTable")

		return s.mockNoSQLTable(tableName, err.Error())
	}

	return &domain.Resource{
		Service:    "DynamoDB",
		Type:       "nosql_database",
		Name:       tableName,
		TableName:  tableName,
		Region:     s.creds.Region,
		Status:     domain.StatusCreating,
		ConsoleURL: fmt.Sprintf("https://console.aws.amazon.com/dynamodbv2/home?region=%s#table?name=%s", s.creds.Region, tableName),
	}
}

func (s *AWSService) mockNoSQLTable(tableName, cause string) *domain.Resource {
	return &domain.Resource{
		Service:    "DynamoDB",
		Type:       "nosql_database",
		Name:       tableName,
		TableName:  tableName,
		Region:     s.creds.Region,
		Status:     domain.StatusMockCreated,
		Note:       fmt.Sprintf("Mock resource - real DynamoDB creation failed: %s", cause),
		ConsoleURL: fmt.Sprintf("https://console.aws.amazon.com/dynamodbv2/home?region=%s#table?name=%s", s.creds.Region, tableName),
	}
}
