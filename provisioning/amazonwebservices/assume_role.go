package amazonwebservices

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sts"

	"github.com/platforge/provisioner/provisioning/domain"
)

// sessionForAccount returns a session scoped to the given sub-account by
// assuming its management role. When the role cannot be assumed the
// master session is returned instead; the caller's operation then runs
// with whatever permissions the master user has.
func (s *AWSService) sessionForAccount(ctx context.Context, accountID string) (*session.Session, error) {
	l := s.loggerProvider(ctx)

	if s.masterSession == nil {
		return nil, fmt.Errorf("no master AWS session available")
	}

	stsSvc := sts.New(s.masterSession)

	roleArn := fmt.Sprintf("arn:aws:iam::%s:role/%s", accountID, managementRoleName)
	roleSessionName := fmt.Sprintf("PlatForge-Session-%s", domain.RandomHex(8))

	assumedRole, err := stsSvc.AssumeRoleWithContext(ctx, &sts.AssumeRoleInput{
		RoleArn:         aws.String(roleArn),
		RoleSessionName: aws.String(roleSessionName),
	})
	if err != nil {
		l.Warningf("failed to assume %s in sub-account %s: %s - falling back to master session", managementRoleName, accountID, err)
		return s.masterSession, nil
	}

	assumedSession, err := session.NewSession(&aws.Config{
		Region: aws.String(s.creds.Region),
		Credentials: credentials.NewStaticCredentials(
			aws.StringValue(assumedRole.Credentials.AccessKeyId),
			aws.StringValue(assumedRole.Credentials.SecretAccessKey),
			aws.StringValue(assumedRole.Credentials.SessionToken),
		),
	})
	if err != nil {
		return s.masterSession, nil
	}

	return assumedSession, nil
}
