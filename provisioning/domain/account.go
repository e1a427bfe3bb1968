package domain

// AccessPackage bundles everything a founder needs to start using the
// provisioned infrastructure.
type AccessPackage struct {
	Environments       Environments        `json:"environments" firestore:"environments"`
	ThirdPartyAccounts []ThirdPartyAccount `json:"third_party_accounts" firestore:"thirdPartyAccounts"`
	Resources          []Resource          `json:"resources" firestore:"resources"`
	QuickStartGuide    map[string]string   `json:"quick_start_guide" firestore:"quickStartGuide"`
	Support            map[string]string   `json:"support" firestore:"support"`
}

// AccountRecord is the durable registry entry for one startup. Created on
// first successful provisioning, mutated on every later request for the
// same account key, never deleted by this subsystem.
type AccountRecord struct {
	StartupID            string              `json:"startup_id" firestore:"startupId"`
	StartupInfo          StartupInfo         `json:"startup_info" firestore:"startupInfo"`
	CreatedAt            int64               `json:"created_at" firestore:"createdAt"`
	LastAccessed         int64               `json:"last_accessed" firestore:"lastAccessed"`
	Environments         Environments        `json:"provisioned_environments" firestore:"provisionedEnvironments"`
	ProvisionedResources []Resource          `json:"provisioned_resources" firestore:"provisionedResources"`
	PipelineServices     []string            `json:"pipeline_services" firestore:"pipelineServices"`
	ThirdPartyAccounts   []ThirdPartyAccount `json:"third_party_accounts,omitempty" firestore:"thirdPartyAccounts"`
	AccessPackage        *AccessPackage      `json:"access_package,omitempty" firestore:"accessPackage"`

	// Legacy flattened account fields, kept for records persisted by
	// earlier store versions. AWS preferred when both providers exist.
	AccountID   string `json:"account_id,omitempty" firestore:"accountId"`
	AccountName string `json:"account_name,omitempty" firestore:"accountName"`
	ConsoleURL  string `json:"console_url,omitempty" firestore:"consoleUrl"`
}

// HasService reports whether the given service is already part of the
// record's pipeline.
func (r *AccountRecord) HasService(service string) bool {
	for _, s := range r.PipelineServices {
		if s == service {
			return true
		}
	}

	return false
}

// HasResource reports whether a resource with the given service label
// already exists in the record.
func (r *AccountRecord) HasResource(service string) bool {
	for _, res := range r.ProvisionedResources {
		if res.Service == service {
			return true
		}
	}

	return false
}

// AccountSummary is the operator-facing listing row.
type AccountSummary struct {
	Key              string   `json:"key"`
	StartupName      string   `json:"startup_name"`
	FounderEmail     string   `json:"founder_email"`
	AccountID        string   `json:"account_id"`
	CreatedAt        int64    `json:"created_at"`
	LastAccessed     int64    `json:"last_accessed"`
	ServicesCount    int      `json:"services_count"`
	PipelineServices []string `json:"pipeline_services"`
}
