// Package amazonwebservices provisions isolated AWS sub-accounts under
// the PlatForge organization and the per-service resources inside them.
//
// Every provisioning entrypoint is a total function: internal failures
// degrade to descriptors whose status and note reflect the failure, they
// never abort the caller's run.
package amazonwebservices

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/organizations"

	"github.com/platforge/provisioner/logger"
	"github.com/platforge/provisioner/provisioning/domain"
	"github.com/platforge/provisioner/secrets"
)

// managementRoleName is the cross-account role PlatForge assumes to
// provision resources inside a sub-account.
const managementRoleName = "PlatForgeManagementRole"

// ConnectionState is the master-account connectivity mode, decided once
// at construction and checked exhaustively by every provisioner.
type ConnectionState int

const (
	// StateNotConfigured means no real credentials were provided; all
	// provisioning produces mock descriptors.
	StateNotConfigured ConnectionState = iota

	// StateConnected means the master organization is reachable.
	StateConnected

	// StateDegraded means credentials exist but the organization check
	// failed; provisioning degrades to mock descriptors with the reason.
	StateDegraded
)

// AWSService provisions AWS environments and resources for startups.
type AWSService struct {
	loggerProvider logger.Provider
	creds          secrets.AWSCredentials
	masterSession  *session.Session
	state          ConnectionState
	stateReason    string
}

// NewAWSService builds the provisioner and probes master-account
// connectivity. It never fails: missing or broken credentials put the
// service in a degraded state instead.
func NewAWSService(log logger.Provider, creds secrets.AWSCredentials) *AWSService {
	s := &AWSService{
		loggerProvider: log,
		creds:          creds,
		state:          StateNotConfigured,
	}

	if creds.AccessKeyID == "" || creds.AccessKeyID == "MOCK_KEY" {
		s.stateReason = "no AWS credentials configured"
		return s
	}

	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(creds.Region),
		Credentials: credentials.NewStaticCredentials(creds.AccessKeyID, creds.SecretAccessKey, ""),
	})
	if err != nil {
		s.state = StateDegraded
		s.stateReason = fmt.Sprintf("AWS session setup failed: %v", err)

		return s
	}

	s.masterSession = sess

	orgSvc := organizations.New(sess)

	orgInfo, err := orgSvc.DescribeOrganization(&organizations.DescribeOrganizationInput{})
	if err != nil {
		s.state = StateDegraded
		s.stateReason = fmt.Sprintf("AWS Organizations not enabled or insufficient permissions: %v", err)

		return s
	}

	s.state = StateConnected

	log(context.Background()).Infof("connected to AWS organization %s", aws.StringValue(orgInfo.Organization.Id))

	return s
}

// State returns the connectivity mode and, for degraded modes, the reason.
func (s *AWSService) State() (ConnectionState, string) {
	return s.state, s.stateReason
}

func (s *AWSService) connected() bool {
	return s.state == StateConnected
}

// newMockAccessCredentials fabricates placeholder sub-account credentials
// with the real shape, for mock environments.
func newMockAccessCredentials() domain.AWSAccessCredentials {
	return domain.AWSAccessCredentials{
		AccessKeyID:     "AKIA" + strings.ToUpper(domain.RandomHex(16)),
		SecretAccessKey: domain.RandomHex(32) + domain.RandomHex(32),
		Region:          "us-east-1",
	}
}

