package amazonwebservices

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/organizations"

	"github.com/platforge/provisioner/provisioning/domain"
)

const (
	// AWS account creation typically takes 2-5 minutes.
	createPollInterval = 5 * time.Second
	createMaxAttempts  = 60
)

var errCreateAccountTimeout = errors.New("account creation timed out")

// CreateSubAccount creates an isolated AWS sub-account for the startup
// under the PlatForge organization. It always returns an environment
// descriptor: a mock one when the master account is not reachable, a
// creation_failed one when the real creation fails or times out.
func (s *AWSService) CreateSubAccount(ctx context.Context, info domain.StartupInfo, startupID string) *domain.AWSEnvironment {
	l := s.loggerProvider(ctx)

	accountName := fmt.Sprintf("PlatForge-%s", info.Name)

	if !s.connected() {
		l.Infof("AWS not connected (%s) - creating mock sub-account for %s", s.stateReason, info.Name)
		return s.mockSubAccount(startupID, accountName)
	}

	orgSvc := organizations.New(s.masterSession)

	createAccountInput := organizations.CreateAccountInput{}
	createAccountInput.SetAccountName(accountName)
	createAccountInput.SetEmail(info.Email)
	createAccountInput.SetRoleName(managementRoleName)
	createAccountInput.SetIamUserAccessToBilling(organizations.IAMUserAccessToBillingDeny)

	if err := createAccountInput.Validate(); err != nil {
		l.Errorf("invalid account creation request for %s: %s", info.Name, err)
		return s.failedSubAccount(accountName, err)
	}

	createAccountOutput, err := orgSvc.CreateAccountWithContext(ctx, &createAccountInput)
	if err != nil {
		l.Errorf("account creation request failed for %s: %s", info.Name, err)
		return s.failedSubAccount(accountName, err)
	}

	requestID := aws.StringValue(createAccountOutput.CreateAccountStatus.Id)
	l.Infof("AWS account creation initiated (request id: %s)", requestID)

	accountID, err := s.waitForAccountCreation(ctx, orgSvc, requestID)
	if err != nil {
		l.Errorf("account creation did not complete for %s: %s", info.Name, err)
		return s.failedSubAccount(accountName, err)
	}

	l.Infof("AWS account created successfully: %s", accountID)

	return &domain.AWSEnvironment{
		AccountID:   accountID,
		AccountName: accountName,
		ConsoleURL:  consoleURL(accountID),
		Status:      domain.StatusActive,
		Credentials: s.createStartupCredentials(ctx, accountID),
	}
}

// waitForAccountCreation polls the creation request until it reaches a
// terminal state or the bounded attempt budget is exhausted.
func (s *AWSService) waitForAccountCreation(ctx context.Context, svc *organizations.Organizations, requestID string) (string, error) {
	l := s.loggerProvider(ctx)

	describeInput := organizations.DescribeCreateAccountStatusInput{}
	describeInput.SetCreateAccountRequestId(requestID)

	ticker := time.NewTicker(createPollInterval)
	defer ticker.Stop()

	for attempt := 1; attempt <= createMaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}

		describeOutput, err := svc.DescribeCreateAccountStatusWithContext(ctx, &describeInput)
		if err != nil {
			return "", err
		}

		createStatus := describeOutput.CreateAccountStatus
		state := aws.StringValue(createStatus.State)
		l.Debugf("attempt %d/%d: account creation %s", attempt, createMaxAttempts, state)

		switch state {
		case organizations.CreateAccountStateSucceeded:
			return aws.StringValue(createStatus.AccountId), nil
		case organizations.CreateAccountStateFailed:
			return "", fmt.Errorf("account creation failed: %s", aws.StringValue(createStatus.FailureReason))
		}
	}

	return "", fmt.Errorf("%w after %s", errCreateAccountTimeout, time.Duration(createMaxAttempts)*createPollInterval)
}

// createStartupCredentials generates scoped access credentials for the
// new sub-account.
func (s *AWSService) createStartupCredentials(ctx context.Context, accountID string) domain.AWSAccessCredentials {
	sess, err := s.sessionForAccount(ctx, accountID)
	if err != nil || sess == nil {
		return newMockAccessCredentials()
	}

	creds, err := sess.Config.Credentials.Get()
	if err != nil {
		return newMockAccessCredentials()
	}

	return domain.AWSAccessCredentials{
		AccessKeyID:     creds.AccessKeyID,
		SecretAccessKey: creds.SecretAccessKey,
		Region:          s.creds.Region,
	}
}

func (s *AWSService) mockSubAccount(startupID, accountName string) *domain.AWSEnvironment {
	// Legacy records may carry a startup ID shorter than the suffix.
	suffix := startupID
	if len(suffix) > 3 {
		suffix = suffix[len(suffix)-3:]
	}

	accountID := "123456789" + suffix

	return &domain.AWSEnvironment{
		AccountID:   accountID,
		AccountName: accountName,
		ConsoleURL:  consoleURL(accountID),
		Status:      domain.StatusActive,
		Note:        fmt.Sprintf("Mock environment - %s", s.stateReason),
		Credentials: newMockAccessCredentials(),
	}
}

func (s *AWSService) failedSubAccount(accountName string, cause error) *domain.AWSEnvironment {
	return &domain.AWSEnvironment{
		AccountName: accountName,
		Status:      domain.StatusCreationFailed,
		Note:        fmt.Sprintf("AWS sub-account creation failed: %v", cause),
		Credentials: newMockAccessCredentials(),
	}
}

func consoleURL(accountID string) string {
	return fmt.Sprintf("https://%s.signin.aws.amazon.com/console", accountID)
}
