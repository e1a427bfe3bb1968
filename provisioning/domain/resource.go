package domain

// LookerConnection links a Looker instance to the startup's BigQuery dataset.
type LookerConnection struct {
	ProjectID      string `json:"project_id" firestore:"projectId"`
	Dataset        string `json:"dataset" firestore:"dataset"`
	ServiceAccount string `json:"service_account,omitempty" firestore:"serviceAccount"`
}

// Resource describes one provisioned (or mock-provisioned) service
// artifact. The connection metadata fields are a flat superset across
// resource types; each provisioner fills only the ones that apply.
type Resource struct {
	Service string `json:"service" firestore:"service"`
	Type    string `json:"type" firestore:"type"`
	Name    string `json:"name" firestore:"name"`
	Status  string `json:"status" firestore:"status"`
	Note    string `json:"note,omitempty" firestore:"note"`

	// Database/warehouse connection metadata.
	Endpoint         string `json:"endpoint,omitempty" firestore:"endpoint"`
	Port             int    `json:"port,omitempty" firestore:"port"`
	Database         string `json:"database,omitempty" firestore:"database"`
	Username         string `json:"username,omitempty" firestore:"username"`
	Password         string `json:"password,omitempty" firestore:"password"`
	ConnectionString string `json:"connection_string,omitempty" firestore:"connectionString"`

	// Object storage metadata.
	BucketName string `json:"bucket_name,omitempty" firestore:"bucketName"`
	Region     string `json:"region,omitempty" firestore:"region"`

	// Compute metadata.
	InstanceID   string `json:"instance_id,omitempty" firestore:"instanceId"`
	InstanceType string `json:"instance_type,omitempty" firestore:"instanceType"`
	PublicIP     string `json:"public_ip,omitempty" firestore:"publicIp"`
	PrivateIP    string `json:"private_ip,omitempty" firestore:"privateIp"`
	SSHCommand   string `json:"ssh_command,omitempty" firestore:"sshCommand"`

	// Analytics metadata.
	ProjectID        string            `json:"project_id,omitempty" firestore:"projectId"`
	DatasetID        string            `json:"dataset_id,omitempty" firestore:"datasetId"`
	StartupNamespace string            `json:"startup_namespace,omitempty" firestore:"startupNamespace"`
	InstanceName     string            `json:"instance_name,omitempty" firestore:"instanceName"`
	Topic            string            `json:"topic,omitempty" firestore:"topic"`
	TableName        string            `json:"table_name,omitempty" firestore:"tableName"`
	BigQuery         *LookerConnection `json:"bigquery_connection,omitempty" firestore:"bigqueryConnection"`

	// Access URLs and setup guidance.
	URL               string   `json:"url,omitempty" firestore:"url"`
	ConsoleURL        string   `json:"console_url,omitempty" firestore:"consoleUrl"`
	QueryURL          string   `json:"query_url,omitempty" firestore:"queryUrl"`
	DatasetURL        string   `json:"dataset_url,omitempty" firestore:"datasetUrl"`
	AdminEmail        string   `json:"admin_email,omitempty" firestore:"adminEmail"`
	SetupInstructions []string `json:"setup_instructions,omitempty" firestore:"setupInstructions"`
}

// ThirdPartyAccount describes an account created with an external SaaS
// provider (MongoDB Atlas, Snowflake, Tableau, ...).
type ThirdPartyAccount struct {
	Service          string            `json:"service" firestore:"service"`
	Provider         string            `json:"provider,omitempty" firestore:"provider"`
	AccountID        string            `json:"account_id,omitempty" firestore:"accountId"`
	ConnectionString string            `json:"connection_string,omitempty" firestore:"connectionString"`
	DashboardURL     string            `json:"dashboard_url,omitempty" firestore:"dashboardUrl"`
	SiteURL          string            `json:"site_url,omitempty" firestore:"siteUrl"`
	Status           string            `json:"status,omitempty" firestore:"status"`
	Credentials      map[string]string `json:"credentials,omitempty" firestore:"credentials"`
}
