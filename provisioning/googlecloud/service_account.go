package googlecloud

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/api/iam/v1"

	"github.com/platforge/provisioner/provisioning/domain"
)

const (
	// GCP service account ids allow 6-30 characters.
	serviceAccountPrefix      = "pf-"
	serviceAccountIDMaxLength = 20

	policyReadRetries = 5
)

// tenantServiceAccountID derives the dedicated service account id for a
// startup: prefix plus the startup id truncated to the length limit.
func tenantServiceAccountID(startupID string) string {
	shortID := strings.ToLower(startupID)
	if len(shortID) > serviceAccountIDMaxLength {
		shortID = shortID[:serviceAccountIDMaxLength]
	}

	return serviceAccountPrefix + shortID
}

// createTenantServiceAccount creates the startup's dedicated service
// account in the shared project. The returned descriptor is always
// usable; a non-nil error signals the caller to downgrade isolation.
func (s *GCPService) createTenantServiceAccount(ctx context.Context, info domain.StartupInfo, startupID string) (*domain.ServiceAccountInfo, error) {
	l := s.loggerProvider(ctx)

	accountID := tenantServiceAccountID(startupID)
	email := fmt.Sprintf("%s@%s.iam.gserviceaccount.com", accountID, s.creds.ProjectID)
	displayName := fmt.Sprintf("PlatForge Service Account - %s", info.Name)
	consoleURL := fmt.Sprintf("https://console.cloud.google.com/iam-admin/serviceaccounts/details/%s?project=%s", email, s.creds.ProjectID)
	keysURL := fmt.Sprintf("https://console.cloud.google.com/iam-admin/serviceaccounts/details/%s/keys?project=%s", email, s.creds.ProjectID)

	if !s.connected() {
		return &domain.ServiceAccountInfo{
			Email:              email,
			Name:               accountID,
			DisplayName:        displayName,
			ProjectID:          s.creds.ProjectID,
			ConsoleURL:         consoleURL,
			KeysURL:            keysURL,
			Status:             domain.StatusMockCreated,
			Note:               "Mock service account - ready for real GCP integration",
			ServiceAccountJSON: fmt.Sprintf(`{"type": "service_account", "project_id": %q, "client_email": %q, "client_id": "mock-%s"}`, s.creds.ProjectID, email, startupID),
			Instructions: []string{
				fmt.Sprintf("1. Go to: %s", consoleURL),
				"2. Create a new key for this service account",
				"3. Download the JSON key file",
				"4. Use this key to authenticate with GCP services",
			},
		}, nil
	}

	l.Infof("creating service account %s", email)

	request := &iam.CreateServiceAccountRequest{
		AccountId: accountID,
		ServiceAccount: &iam.ServiceAccount{
			DisplayName: displayName,
			Description: fmt.Sprintf("Dedicated service account for %s - Created by PlatForge", info.Name),
		},
	}

	parent := fmt.Sprintf("projects/%s", s.creds.ProjectID)

	created, err := s.iamService.Projects.ServiceAccounts.Create(parent, request).Context(ctx).Do()
	if err != nil {
		s.logServiceAccountRemediation(ctx, err)

		return &domain.ServiceAccountInfo{
			Email:              email,
			Name:               accountID,
			DisplayName:        displayName,
			ProjectID:          s.creds.ProjectID,
			ConsoleURL:         consoleURL,
			KeysURL:            keysURL,
			Status:             domain.StatusCreationFailed,
			Note:               fmt.Sprintf("Service account creation failed: %v", err),
			ServiceAccountJSON: fmt.Sprintf(`{"type": "service_account", "project_id": %q, "client_email": %q}`, s.creds.ProjectID, email),
			Instructions: []string{
				"Manual creation required:",
				fmt.Sprintf("1. Go to: https://console.cloud.google.com/iam-admin/serviceaccounts?project=%s", s.creds.ProjectID),
				fmt.Sprintf("2. Create service account: %s", accountID),
				fmt.Sprintf("3. Set display name: %s", displayName),
				"4. Grant required roles for this startup",
			},
		}, err
	}

	// Policy reads right after creation race the account's propagation.
	resourceName := fmt.Sprintf("projects/%s/serviceAccounts/%s", s.creds.ProjectID, created.Email)

	err = backoff.Retry(
		func() error {
			_, err := s.iamService.Projects.ServiceAccounts.GetIamPolicy(resourceName).Context(ctx).Do()
			return err
		},
		backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Second), policyReadRetries),
	)
	if err != nil {
		l.Warningf("service account %s created but policy read failed: %s", created.Email, err)
	}

	l.Infof("service account created successfully: %s", created.Email)

	return &domain.ServiceAccountInfo{
		Email:              created.Email,
		Name:               accountID,
		DisplayName:        displayName,
		ProjectID:          s.creds.ProjectID,
		ConsoleURL:         consoleURL,
		KeysURL:            keysURL,
		Status:             domain.StatusActive,
		UniqueID:           created.UniqueId,
		ServiceAccountJSON: fmt.Sprintf(`{"type": "service_account", "project_id": %q, "client_email": %q}`, s.creds.ProjectID, created.Email),
		Instructions: []string{
			fmt.Sprintf("1. Go to: %s", consoleURL),
			"2. Click 'Keys' tab",
			"3. Create new key (JSON format)",
			"4. Download and use for service authentication",
		},
	}, nil
}

// logServiceAccountRemediation logs the concrete operator fix for the two
// common creation failures: the IAM API being disabled and the master
// account missing the admin role.
func (s *GCPService) logServiceAccountRemediation(ctx context.Context, err error) {
	l := s.loggerProvider(ctx)
	msg := err.Error()

	switch {
	case strings.Contains(msg, "SERVICE_DISABLED") || strings.Contains(msg, "has not been used"):
		l.Warningf("enable the IAM API: https://console.developers.google.com/apis/api/iam.googleapis.com/overview?project=%s", s.creds.ProjectID)
	case strings.Contains(msg, "iam.serviceAccounts.create") || strings.Contains(msg, "IAM_PERMISSION_DENIED"):
		l.Warningf("grant the Service Account Admin role to the master account: https://console.cloud.google.com/iam-admin/iam?project=%s", s.creds.ProjectID)
	}
}
