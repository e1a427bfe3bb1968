package domain

// Environment and resource lifecycle statuses. Descriptors always carry a
// status; degraded modes are expressed here rather than by raised errors.
const (
	StatusActive                 = "active"
	StatusCreating               = "creating"
	StatusLaunching              = "launching"
	StatusRunning                = "running"
	StatusConfigured             = "configured"
	StatusMockCreated            = "mock_created"
	StatusCreationFailed         = "creation_failed"
	StatusSetupRequired          = "setup_required"
	StatusManualCreationRequired = "manual_creation_required"
)

// GCP tenant isolation levels, strongest first.
const (
	IsolationEnhancedShared = "enhanced_shared"
	IsolationBasicShared    = "basic_shared"
	IsolationFallback       = "fallback"
)

// AWSAccessCredentials are scoped credentials for a provisioned sub-account.
type AWSAccessCredentials struct {
	AccessKeyID     string `json:"access_key_id" firestore:"accessKeyId"`
	SecretAccessKey string `json:"secret_access_key" firestore:"secretAccessKey"`
	Region          string `json:"region" firestore:"region"`
}

// AWSEnvironment describes an isolated AWS sub-account.
type AWSEnvironment struct {
	AccountID   string               `json:"account_id" firestore:"accountId"`
	AccountName string               `json:"account_name" firestore:"accountName"`
	ConsoleURL  string               `json:"console_url" firestore:"consoleUrl"`
	Status      string               `json:"status" firestore:"status"`
	Note        string               `json:"note,omitempty" firestore:"note"`
	Credentials AWSAccessCredentials `json:"credentials" firestore:"credentials"`
}

// ServiceAccountInfo describes the dedicated per-startup GCP service
// account that carries the tenant's scoped credentials.
type ServiceAccountInfo struct {
	Email              string   `json:"email,omitempty" firestore:"email"`
	Name               string   `json:"name,omitempty" firestore:"name"`
	DisplayName        string   `json:"display_name,omitempty" firestore:"displayName"`
	ProjectID          string   `json:"project_id,omitempty" firestore:"projectId"`
	ConsoleURL         string   `json:"console_url,omitempty" firestore:"consoleUrl"`
	KeysURL            string   `json:"keys_url,omitempty" firestore:"keysUrl"`
	Status             string   `json:"status,omitempty" firestore:"status"`
	UniqueID           string   `json:"unique_id,omitempty" firestore:"uniqueId"`
	Note               string   `json:"note,omitempty" firestore:"note"`
	ServiceAccountJSON string   `json:"service_account_json,omitempty" firestore:"serviceAccountJson"`
	Instructions       []string `json:"instructions,omitempty" firestore:"instructions"`
}

// GCPEnvironment describes a shared-project tenant namespace: a dedicated
// service account plus scoped IAM grants inside the PlatForge project.
type GCPEnvironment struct {
	ProjectID        string              `json:"project_id" firestore:"projectId"`
	ProjectName      string              `json:"project_name" firestore:"projectName"`
	ConsoleURL       string              `json:"console_url" firestore:"consoleUrl"`
	Status           string              `json:"status" firestore:"status"`
	StartupNamespace string              `json:"startup_namespace" firestore:"startupNamespace"`
	ServiceAccount   string              `json:"service_account,omitempty" firestore:"serviceAccount"`
	StorageBucket    string              `json:"storage_bucket,omitempty" firestore:"storageBucket"`
	IsolationLevel   string              `json:"isolation_level" firestore:"isolationLevel"`
	Note             string              `json:"note,omitempty" firestore:"note"`
	IAMRoles         []string            `json:"iam_roles,omitempty" firestore:"iamRoles"`
	Credentials      *ServiceAccountInfo `json:"credentials,omitempty" firestore:"credentials"`
}

// Environments holds the provider environments provisioned for a startup,
// at most one per provider.
type Environments struct {
	AWS *AWSEnvironment `json:"aws,omitempty" firestore:"aws"`
	GCP *GCPEnvironment `json:"gcp,omitempty" firestore:"gcp"`
}

// DeploymentTarget returns the environment container deployments run
// against, preferring AWS when both providers exist.
func (e Environments) DeploymentTarget() string {
	switch {
	case e.AWS != nil:
		return ProviderAWS
	case e.GCP != nil:
		return ProviderGCP
	default:
		return ""
	}
}

// Empty reports whether no provider environment exists.
func (e Environments) Empty() bool {
	return e.AWS == nil && e.GCP == nil
}
