package amazonwebservices

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platforge/provisioner/logger"
	"github.com/platforge/provisioner/provisioning/domain"
	"github.com/platforge/provisioner/secrets"
)

func newMockService(t *testing.T) *AWSService {
	t.Helper()

	s := NewAWSService(logger.FromContext, secrets.Mock().AWS)

	state, reason := s.State()
	require.Equal(t, StateNotConfigured, state)
	require.NotEmpty(t, reason)

	return s
}

var testStartup = domain.StartupInfo{
	Name:        "Acme Analytics",
	Email:       "founder@acme.io",
	FounderName: "Jane Doe",
}

func TestNewAWSServiceMockCredentials(t *testing.T) {
	s := newMockService(t)

	assert.False(t, s.connected())
	assert.Nil(t, s.masterSession)
}

func TestNewAWSServiceEmptyCredentials(t *testing.T) {
	s := NewAWSService(logger.FromContext, secrets.AWSCredentials{})

	state, _ := s.State()
	assert.Equal(t, StateNotConfigured, state)
}

func TestCreateSubAccountMock(t *testing.T) {
	s := newMockService(t)

	env := s.CreateSubAccount(context.Background(), testStartup, "acme-analytics-a1b2c3")
	require.NotNil(t, env)

	assert.Equal(t, "1234567892c3", env.AccountID)
	assert.Equal(t, "PlatForge-Acme Analytics", env.AccountName)
	assert.Equal(t, domain.StatusActive, env.Status)
	assert.Contains(t, env.Note, "Mock environment")
	assert.Equal(t, "https://1234567892c3.signin.aws.amazon.com/console", env.ConsoleURL)

	assert.True(t, strings.HasPrefix(env.Credentials.AccessKeyID, "AKIA"))
	assert.Len(t, env.Credentials.AccessKeyID, 20)
	assert.Len(t, env.Credentials.SecretAccessKey, 64)
	assert.Equal(t, "us-east-1", env.Credentials.Region)
}

func TestCreateSubAccountMockShortStartupID(t *testing.T) {
	s := newMockService(t)

	tests := []struct {
		startupID     string
		wantAccountID string
	}{
		{startupID: "", wantAccountID: "123456789"},
		{startupID: "ab", wantAccountID: "123456789ab"},
		{startupID: "abc", wantAccountID: "123456789abc"},
	}

	for _, tt := range tests {
		env := s.CreateSubAccount(context.Background(), testStartup, tt.startupID)
		require.NotNil(t, env)
		assert.Equal(t, tt.wantAccountID, env.AccountID)
		assert.Equal(t, domain.StatusActive, env.Status)
	}
}

func TestCreateSubAccountMockIsDeterministicPerStartupID(t *testing.T) {
	s := newMockService(t)

	env1 := s.CreateSubAccount(context.Background(), testStartup, "acme-analytics-a1b2c3")
	env2 := s.CreateSubAccount(context.Background(), testStartup, "acme-analytics-a1b2c3")

	assert.Equal(t, env1.AccountID, env2.AccountID)
}

func TestCreateDatabaseMock(t *testing.T) {
	s := newMockService(t)

	res := s.CreateDatabase(context.Background(), &domain.AWSEnvironment{AccountID: "123456789012"}, testStartup)
	require.NotNil(t, res)

	assert.Equal(t, "AWS RDS", res.Service)
	assert.Equal(t, "database", res.Type)
	assert.Equal(t, "acme-analytics-db", res.Name)
	assert.Equal(t, domain.StatusMockCreated, res.Status)
	assert.Contains(t, res.Note, "Mock resource")
	assert.Equal(t, 5432, res.Port)
	assert.Equal(t, "startupdb", res.Database)
	assert.Equal(t, "startupuser", res.Username)
	assert.True(t, strings.HasPrefix(res.Password, "StartupPass"))
	assert.Contains(t, res.Endpoint, "acme-analytics-db.")
	assert.Contains(t, res.Endpoint, ".rds.amazonaws.com")
	assert.Equal(t, "postgresql://startupuser:"+res.Password+"@"+res.Endpoint+":5432/startupdb", res.ConnectionString)
}

func TestCreateWarehouseMock(t *testing.T) {
	s := newMockService(t)

	res := s.CreateWarehouse(context.Background(), &domain.AWSEnvironment{AccountID: "123456789012"}, testStartup)
	require.NotNil(t, res)

	assert.Equal(t, "AWS Redshift", res.Service)
	assert.Equal(t, "data_warehouse", res.Type)
	assert.Equal(t, "acme-analytics-warehouse", res.Name)
	assert.Equal(t, domain.StatusMockCreated, res.Status)
	assert.Equal(t, 5439, res.Port)
	assert.Equal(t, "startupwarehouse", res.Database)
	assert.Contains(t, res.Endpoint, ".redshift.amazonaws.com")
}

func TestCreateComputeInstanceMock(t *testing.T) {
	s := newMockService(t)

	res := s.CreateComputeInstance(context.Background(), &domain.AWSEnvironment{AccountID: "123456789012"}, testStartup)
	require.NotNil(t, res)

	assert.Equal(t, "AWS EC2", res.Service)
	assert.Equal(t, "compute", res.Type)
	assert.Equal(t, "acme-analytics-server", res.Name)
	assert.Equal(t, domain.StatusMockCreated, res.Status)
	assert.Equal(t, "t3.micro", res.InstanceType)
	assert.True(t, strings.HasPrefix(res.InstanceID, "i-"))
	assert.Len(t, res.InstanceID, 19)
	assert.Equal(t, "mock.ip.address", res.PublicIP)
	assert.Equal(t, "10.0.0.100", res.PrivateIP)
	assert.Contains(t, res.SSHCommand, "ec2-user@")
}

func TestCreateStorageBucketMock(t *testing.T) {
	s := newMockService(t)

	res := s.CreateStorageBucket(context.Background(), &domain.AWSEnvironment{AccountID: "123456789012"}, testStartup)
	require.NotNil(t, res)

	assert.Equal(t, "AWS S3", res.Service)
	assert.Equal(t, "storage", res.Type)
	assert.True(t, strings.HasPrefix(res.Name, "acme-analytics-storage-"))
	assert.Equal(t, res.Name, res.BucketName)
	assert.Equal(t, domain.StatusMockCreated, res.Status)
	assert.Equal(t, "us-east-1", res.Region)
	assert.Contains(t, res.Endpoint, res.BucketName+".s3.us-east-1.amazonaws.com")
}

func TestCreateStorageBucketNamesAreUnique(t *testing.T) {
	s := newMockService(t)

	first := s.CreateStorageBucket(context.Background(), &domain.AWSEnvironment{AccountID: "123456789012"}, testStartup)
	second := s.CreateStorageBucket(context.Background(), &domain.AWSEnvironment{AccountID: "123456789012"}, testStartup)

	assert.NotEqual(t, first.BucketName, second.BucketName)
}

func TestCreateNoSQLTableMock(t *testing.T) {
	s := newMockService(t)

	res := s.CreateNoSQLTable(context.Background(), &domain.AWSEnvironment{AccountID: "123456789012"}, testStartup)
	require.NotNil(t, res)

	assert.Equal(t, "DynamoDB", res.Service)
	assert.Equal(t, "nosql_database", res.Type)
	assert.Equal(t, "acme-analytics-table", res.Name)
	assert.Equal(t, domain.StatusMockCreated, res.Status)
}

func TestIsAccessDenied(t *testing.T) {
	assert.True(t, isAccessDenied(errors.New("User is not authorized to perform rds:CreateDBInstance")))
	assert.False(t, isAccessDenied(errors.New("throttled")))
}
