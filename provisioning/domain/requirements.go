package domain

// Cloud providers an environment can be provisioned in.
const (
	ProviderAWS        = "aws"
	ProviderGCP        = "gcp"
	ProviderDeployable = "deployable"
)

// ThirdPartyRequest asks for an account with an external SaaS provider.
type ThirdPartyRequest struct {
	Service  string `json:"service" firestore:"service"`
	Provider string `json:"provider" firestore:"provider"`
}

// Requirements is the classifier output: which cloud environments and
// account types a pipeline needs, and the per-provider service partition.
type Requirements struct {
	NeedsAWSAccount        bool                `json:"needs_aws_account" firestore:"needsAwsAccount"`
	NeedsGCPProject        bool                `json:"needs_gcp_project" firestore:"needsGcpProject"`
	NeedsThirdPartyAccount []ThirdPartyRequest `json:"needs_third_party_accounts" firestore:"needsThirdPartyAccounts"`
	NeedsDeploymentTarget  bool                `json:"needs_deployment_target" firestore:"needsDeploymentTarget"`
	AWSServices            []string            `json:"aws_services" firestore:"awsServices"`
	GCPServices            []string            `json:"gcp_services" firestore:"gcpServices"`
	ThirdPartyServices     []string            `json:"third_party_services" firestore:"thirdPartyServices"`
	DeployableServices     []string            `json:"deployable_services" firestore:"deployableServices"`
	DeploymentProvider     string              `json:"deployment_provider,omitempty" firestore:"deploymentProvider"`
}
