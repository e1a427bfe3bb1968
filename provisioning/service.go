// Package provisioning orchestrates startup infrastructure runs: it
// classifies the requested pipeline, provisions only the cloud
// environments and resources the pipeline needs, and keeps the durable
// account registry consistent across repeated requests.
package provisioning

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/im7mortal/kmutex"

	"github.com/platforge/provisioner/logger"
	"github.com/platforge/provisioner/provisioning/amazonwebservices"
	"github.com/platforge/provisioner/provisioning/catalog"
	"github.com/platforge/provisioner/provisioning/domain"
	"github.com/platforge/provisioner/provisioning/googlecloud"
	"github.com/platforge/provisioner/provisioning/registry"
	"github.com/platforge/provisioner/provisioning/thirdparty"
)

// Service is the provisioning orchestrator.
type Service struct {
	loggerProvider logger.Provider
	catalog        *catalog.Catalog
	accounts       registry.Accounts
	aws            *amazonwebservices.AWSService
	gcp            *googlecloud.GCPService
	thirdParty     *thirdparty.Service
	observers      []Observer

	// accountLocks serializes runs per account key so concurrent requests
	// for the same startup cannot race the find-then-create sequence.
	accountLocks *kmutex.Kmutex
}

func NewService(
	log logger.Provider,
	cat *catalog.Catalog,
	accounts registry.Accounts,
	aws *amazonwebservices.AWSService,
	gcp *googlecloud.GCPService,
	thirdParty *thirdparty.Service,
	observers ...Observer,
) *Service {
	return &Service{
		log,
		cat,
		accounts,
		aws,
		gcp,
		thirdParty,
		observers,
		kmutex.New(),
	}
}

// AutoProvision provisions exactly what the requested pipeline needs for
// the given startup. The same startup (name+email) always resolves to
// the same account: repeated requests reuse the existing infrastructure
// and provision only the service delta.
func (s *Service) AutoProvision(ctx context.Context, info domain.StartupInfo, pipelineServices []string) (*domain.Result, error) {
	l := s.loggerProvider(ctx)

	accountKey := domain.AccountKey(info)

	s.accountLocks.Lock(accountKey)
	defer s.accountLocks.Unlock(accountKey)

	l.Infof("auto-provisioning infrastructure for %s (%s)", info.Name, strings.Join(pipelineServices, ", "))

	services := uniqueServices(pipelineServices)

	for _, service := range services {
		if _, ok := s.catalog.Lookup(service); !ok {
			l.Warningf("unrecognized service %q will be skipped", service)
		}
	}

	requirements := s.catalog.Classify(services)
	s.notify(ctx, Event{
		Type: EventRequirementsClassified,
		Message: fmt.Sprintf("aws=%t gcp=%t third-party=%d deployable=%d",
			requirements.NeedsAWSAccount, requirements.NeedsGCPProject,
			len(requirements.NeedsThirdPartyAccount), len(requirements.DeployableServices)),
	})

	existing, err := s.accounts.Find(ctx, info)
	if err != nil {
		return nil, fmt.Errorf("account lookup for %s: %w", accountKey, err)
	}

	if existing != nil {
		s.notify(ctx, Event{Type: EventAccountMatched, StartupID: existing.StartupID, Message: accountKey})
		return s.provisionExisting(ctx, accountKey, existing, info, services, requirements)
	}

	return s.provisionNew(ctx, accountKey, info, services, requirements)
}

func (s *Service) provisionNew(ctx context.Context, accountKey string, info domain.StartupInfo, services []string, requirements *domain.Requirements) (*domain.Result, error) {
	l := s.loggerProvider(ctx)

	startupID := domain.NewStartupID(info)
	s.notify(ctx, Event{Type: EventAccountCreated, StartupID: startupID, Message: accountKey})

	var environments domain.Environments

	if requirements.NeedsAWSAccount {
		l.Infof("creating AWS sub-account for %d AWS services", len(requirements.AWSServices))

		environments.AWS = s.aws.CreateSubAccount(ctx, info, startupID)
		s.notify(ctx, Event{Type: EventEnvironmentProvisioned, StartupID: startupID, Resource: "aws", Message: environments.AWS.Status})
	} else {
		l.Info("no AWS services required - skipping AWS account creation")
	}

	if requirements.NeedsGCPProject {
		l.Infof("creating GCP namespace for %d GCP services", len(requirements.GCPServices))

		environments.GCP = s.gcp.CreateProjectEnvironment(ctx, info, startupID)
		s.notify(ctx, Event{Type: EventEnvironmentProvisioned, StartupID: startupID, Resource: "gcp", Message: environments.GCP.Status})
	} else {
		l.Info("no GCP services required - skipping GCP namespace creation")
	}

	var thirdPartyAccounts []domain.ThirdPartyAccount

	for _, req := range requirements.NeedsThirdPartyAccount {
		account := s.thirdParty.CreateAccount(ctx, req, info)
		thirdPartyAccounts = append(thirdPartyAccounts, account)
	}

	var resources []domain.Resource

	for _, service := range services {
		if resource := s.provisionServiceResource(ctx, service, environments, info); resource != nil {
			resources = append(resources, *resource)
			s.notify(ctx, Event{Type: EventResourceProvisioned, StartupID: startupID, Resource: resource.Service, Message: resource.Status})
		}
	}

	accessPackage := buildAccessPackage(environments, thirdPartyAccounts, resources)

	now := time.Now().Unix()
	record := &domain.AccountRecord{
		StartupID:            startupID,
		StartupInfo:          info,
		CreatedAt:            now,
		LastAccessed:         now,
		Environments:         environments,
		ProvisionedResources: resources,
		PipelineServices:     services,
		ThirdPartyAccounts:   thirdPartyAccounts,
		AccessPackage:        accessPackage,
	}

	// Flattened account identity for older store consumers, AWS first.
	switch {
	case environments.AWS != nil:
		record.AccountID = environments.AWS.AccountID
		record.AccountName = environments.AWS.AccountName
		record.ConsoleURL = environments.AWS.ConsoleURL
	case environments.GCP != nil:
		record.AccountID = environments.GCP.ProjectID
		record.AccountName = environments.GCP.ProjectName
		record.ConsoleURL = environments.GCP.ConsoleURL
	}

	if err := s.accounts.Upsert(ctx, accountKey, record); err != nil {
		return nil, fmt.Errorf("persist account %s: %w", accountKey, err)
	}

	s.notify(ctx, Event{Type: EventAccountPersisted, StartupID: startupID, Message: accountKey})

	result := &domain.Result{
		Status:             "success",
		StartupID:          startupID,
		StartupInfo:        info,
		Requirements:       requirements,
		Environments:       environments,
		ThirdPartyAccounts: thirdPartyAccounts,
		Resources:          resources,
		AccessPackage:      accessPackage,
		Message:            fmt.Sprintf("%s infrastructure is live!", info.Name),
		NextSteps: []string{
			"Your dedicated cloud environment is ready",
			"Access your AWS console with the provided account credentials",
			"All services are configured and connected",
			"Start building your product immediately!",
		},
		AccountInfo: newAccountInfo(environments, info),
	}

	s.notify(ctx, Event{Type: EventRunCompleted, StartupID: startupID, Message: result.Status})

	return result, nil
}

func (s *Service) provisionExisting(ctx context.Context, accountKey string, record *domain.AccountRecord, info domain.StartupInfo, services []string, requirements *domain.Requirements) (*domain.Result, error) {
	l := s.loggerProvider(ctx)

	record.LastAccessed = time.Now().Unix()

	var newServices []string

	for _, service := range services {
		if !record.HasService(service) {
			newServices = append(newServices, service)
		}
	}

	if len(newServices) > 0 {
		l.Infof("provisioning %d new services for existing account %s: %s", len(newServices), record.StartupID, strings.Join(newServices, ", "))

		delta := s.catalog.Classify(newServices)

		if delta.NeedsAWSAccount && record.Environments.AWS == nil {
			l.Infof("new services require an AWS sub-account for existing account %s", record.StartupID)

			record.Environments.AWS = s.aws.CreateSubAccount(ctx, info, record.StartupID)
			s.notify(ctx, Event{Type: EventEnvironmentProvisioned, StartupID: record.StartupID, Resource: "aws", Message: record.Environments.AWS.Status})

			if record.AccountID == "" {
				record.AccountID = record.Environments.AWS.AccountID
				record.AccountName = record.Environments.AWS.AccountName
				record.ConsoleURL = record.Environments.AWS.ConsoleURL
			}
		}

		if delta.NeedsGCPProject && record.Environments.GCP == nil {
			l.Infof("new services require a GCP namespace for existing account %s", record.StartupID)

			record.Environments.GCP = s.gcp.CreateProjectEnvironment(ctx, info, record.StartupID)
			s.notify(ctx, Event{Type: EventEnvironmentProvisioned, StartupID: record.StartupID, Resource: "gcp", Message: record.Environments.GCP.Status})
		}

		for _, req := range delta.NeedsThirdPartyAccount {
			account := s.thirdParty.CreateAccount(ctx, req, info)
			record.ThirdPartyAccounts = append(record.ThirdPartyAccounts, account)
		}

		for _, service := range newServices {
			resource := s.provisionServiceResource(ctx, service, record.Environments, info)
			if resource == nil {
				continue
			}

			if record.HasResource(resource.Service) {
				l.Debugf("resource %s already provisioned - skipping", resource.Service)
				continue
			}

			record.ProvisionedResources = append(record.ProvisionedResources, *resource)
			s.notify(ctx, Event{Type: EventResourceProvisioned, StartupID: record.StartupID, Resource: resource.Service, Message: resource.Status})
		}

		record.PipelineServices = unionServices(record.PipelineServices, newServices)
	}

	if err := s.accounts.Upsert(ctx, accountKey, record); err != nil {
		return nil, fmt.Errorf("persist account %s: %w", accountKey, err)
	}

	s.notify(ctx, Event{Type: EventAccountPersisted, StartupID: record.StartupID, Message: accountKey})

	result := &domain.Result{
		Status:             "success",
		StartupID:          record.StartupID,
		StartupInfo:        record.StartupInfo,
		Requirements:       requirements,
		Environments:       record.Environments,
		ThirdPartyAccounts: record.ThirdPartyAccounts,
		Resources:          record.ProvisionedResources,
		AccessPackage:      record.AccessPackage,
		Message:            fmt.Sprintf("Loaded existing infrastructure for %s", info.Name),
		NextSteps: []string{
			"Your existing cloud environment is ready",
			"All previously provisioned services are available",
			"New services have been added if requested",
			"Continue building your product!",
		},
		AccountInfo: existingAccountInfo(record, info),
	}

	s.notify(ctx, Event{Type: EventRunCompleted, StartupID: record.StartupID, Message: result.Status})

	return result, nil
}

// ListAccounts returns the operator-facing account listing, most recently
// accessed first.
func (s *Service) ListAccounts(ctx context.Context) ([]domain.AccountSummary, error) {
	return s.accounts.List(ctx)
}

// VerifyAccount runs the read-only environment checks for one account.
func (s *Service) VerifyAccount(ctx context.Context, info domain.StartupInfo) ([]googlecloud.Check, error) {
	record, err := s.accounts.Find(ctx, info)
	if err != nil {
		return nil, err
	}

	if record == nil {
		return nil, fmt.Errorf("no account for %s", domain.AccountKey(info))
	}

	return s.gcp.VerifyEnvironment(ctx, record), nil
}

// newAccountInfo condenses the provisioned environments into the account
// identity shown to the caller: the AWS sub-account when one exists, else
// the GCP dedicated service account, else the bare GCP project.
func newAccountInfo(environments domain.Environments, info domain.StartupInfo) *domain.AccountInfo {
	switch {
	case environments.AWS != nil:
		return &domain.AccountInfo{
			AccountID:   environments.AWS.AccountID,
			AccountName: environments.AWS.AccountName,
			ConsoleURL:  environments.AWS.ConsoleURL,
			Provider:    domain.ProviderAWS,
		}
	case environments.GCP != nil:
		return gcpAccountInfo(environments.GCP, info)
	default:
		return nil
	}
}

// existingAccountInfo mirrors the stored-account shape: GCP service
// account first, then the flattened legacy identity.
func existingAccountInfo(record *domain.AccountRecord, info domain.StartupInfo) *domain.AccountInfo {
	if record.Environments.GCP != nil {
		return gcpAccountInfo(record.Environments.GCP, info)
	}

	if record.AccountID != "" {
		return &domain.AccountInfo{
			AccountID:   record.AccountID,
			AccountName: record.AccountName,
			ConsoleURL:  record.ConsoleURL,
		}
	}

	return nil
}

func gcpAccountInfo(env *domain.GCPEnvironment, info domain.StartupInfo) *domain.AccountInfo {
	if env.Credentials != nil && env.Credentials.Email != "" {
		consoleURL := env.Credentials.ConsoleURL
		if consoleURL == "" {
			consoleURL = env.ConsoleURL
		}

		return &domain.AccountInfo{
			AccountID:           env.Credentials.Email,
			AccountName:         fmt.Sprintf("Service Account - %s", info.Name),
			ConsoleURL:          consoleURL,
			Provider:            domain.ProviderGCP,
			ServiceAccountEmail: env.Credentials.Email,
			KeysURL:             env.Credentials.KeysURL,
			ProjectID:           env.ProjectID,
		}
	}

	return &domain.AccountInfo{
		AccountID:   env.ProjectID,
		AccountName: fmt.Sprintf("GCP Project - %s", info.Name),
		ConsoleURL:  env.ConsoleURL,
		Provider:    domain.ProviderGCP,
	}
}

// uniqueServices drops duplicate identifiers while preserving request
// order, so a repeated service never provisions twice in one run.
func uniqueServices(services []string) []string {
	seen := make(map[string]struct{}, len(services))
	out := make([]string, 0, len(services))

	for _, service := range services {
		if _, ok := seen[service]; ok {
			continue
		}

		seen[service] = struct{}{}
		out = append(out, service)
	}

	return out
}

func unionServices(existing, added []string) []string {
	return uniqueServices(append(append([]string{}, existing...), added...))
}
