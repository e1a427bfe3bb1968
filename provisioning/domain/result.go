package domain

// AccountInfo is the condensed account identity surfaced to the caller,
// preferring the AWS sub-account, then the GCP dedicated service account,
// then the bare GCP project.
type AccountInfo struct {
	AccountID           string `json:"account_id"`
	AccountName         string `json:"account_name"`
	ConsoleURL          string `json:"console_url"`
	Provider            string `json:"provider,omitempty"`
	ServiceAccountEmail string `json:"service_account_email,omitempty"`
	KeysURL             string `json:"keys_url,omitempty"`
	ProjectID           string `json:"project_id,omitempty"`
}

// Result is the structured outcome of one provisioning run. Status is
// "success" whenever any progress was made; individual environment and
// resource descriptors carry their own granular statuses.
type Result struct {
	Status             string              `json:"status"`
	StartupID          string              `json:"startup_id"`
	StartupInfo        StartupInfo         `json:"startup_info"`
	Requirements       *Requirements       `json:"requirements"`
	Environments       Environments        `json:"provisioned_environments"`
	ThirdPartyAccounts []ThirdPartyAccount `json:"third_party_accounts"`
	Resources          []Resource          `json:"provisioned_resources"`
	AccessPackage      *AccessPackage      `json:"access_package"`
	Message            string              `json:"message"`
	NextSteps          []string            `json:"next_steps"`
	AccountInfo        *AccountInfo        `json:"account_info,omitempty"`
}
