// Package catalog holds the fixed mapping of supported service
// identifiers to their provider and kind classification, and the
// requirement classifier built on top of it.
package catalog

import (
	"fmt"

	"github.com/platforge/provisioner/provisioning/domain"
)

// Service kinds.
const (
	KindManagedService = "managed_service"
	KindThirdParty     = "third_party"
	KindContainer      = "container"
	KindTool           = "tool"
)

// Third-party provider identifiers.
const (
	ProviderMongoDBAtlas = "mongodb_atlas"
	ProviderSnowflake    = "snowflake"
	ProviderTableau      = "tableau"
	ProviderMicrosoft    = "microsoft"
)

// Entry classifies one supported service identifier.
type Entry struct {
	Name     string
	Category string
	Provider string
	Kind     string
}

// Catalog is the immutable service classification table, built once at
// process start.
type Catalog struct {
	entries map[string]Entry
}

var defaultEntries = map[string]Entry{
	// AWS services - need an AWS sub-account
	"aws_rds":  {Name: "AWS RDS", Category: "Data Storage & Databases", Provider: domain.ProviderAWS, Kind: KindManagedService},
	"redshift": {Name: "Amazon Redshift", Category: "Data Storage & Databases", Provider: domain.ProviderAWS, Kind: KindManagedService},
	"dynamodb": {Name: "DynamoDB", Category: "Data Storage & Databases", Provider: domain.ProviderAWS, Kind: KindManagedService},
	"aws_glue": {Name: "AWS Glue", Category: "Data Processing & ETL", Provider: domain.ProviderAWS, Kind: KindManagedService},
	"aws_ec2":  {Name: "AWS EC2", Category: "Cloud Infrastructure", Provider: domain.ProviderAWS, Kind: KindManagedService},
	"s3":       {Name: "AWS S3", Category: "Data Storage & Databases", Provider: domain.ProviderAWS, Kind: KindManagedService},
	"aws_s3":   {Name: "AWS S3", Category: "Data Storage & Databases", Provider: domain.ProviderAWS, Kind: KindManagedService},

	// GCP services - need a GCP project namespace
	"gcp_cloud_sql": {Name: "Google Cloud SQL", Category: "Data Storage & Databases", Provider: domain.ProviderGCP, Kind: KindManagedService},
	"bigquery":      {Name: "Google BigQuery", Category: "Data Storage & Databases", Provider: domain.ProviderGCP, Kind: KindManagedService},
	"firestore":     {Name: "Google Firestore", Category: "Data Storage & Databases", Provider: domain.ProviderGCP, Kind: KindManagedService},
	"gcp_dataflow":  {Name: "Google Cloud Dataflow", Category: "Data Processing & ETL", Provider: domain.ProviderGCP, Kind: KindManagedService},
	"gcp_compute":   {Name: "Google Compute Engine", Category: "Cloud Infrastructure", Provider: domain.ProviderGCP, Kind: KindManagedService},
	"gke":           {Name: "Google Kubernetes Engine (GKE)", Category: "Cloud Infrastructure", Provider: domain.ProviderGCP, Kind: KindManagedService},
	"gcp_pubsub":    {Name: "Google Pub/Sub", Category: "Data Processing & ETL", Provider: domain.ProviderGCP, Kind: KindManagedService},
	"looker":        {Name: "Looker", Category: "Analytics & Visualization", Provider: domain.ProviderGCP, Kind: KindManagedService},
	"gcp_build":     {Name: "Google Cloud Build", Category: "DevOps & Monitoring", Provider: domain.ProviderGCP, Kind: KindManagedService},
	"cloud_storage": {Name: "Google Cloud Storage", Category: "Data Storage & Databases", Provider: domain.ProviderGCP, Kind: KindManagedService},

	// Third-party services - need external accounts
	"mongodb":   {Name: "MongoDB Atlas", Category: "Data Storage & Databases", Provider: ProviderMongoDBAtlas, Kind: KindThirdParty},
	"snowflake": {Name: "Snowflake", Category: "Data Storage & Databases", Provider: ProviderSnowflake, Kind: KindThirdParty},
	"tableau":   {Name: "Tableau", Category: "Analytics & Visualization", Provider: ProviderTableau, Kind: KindThirdParty},
	"powerbi":   {Name: "Power BI", Category: "Analytics & Visualization", Provider: ProviderMicrosoft, Kind: KindThirdParty},

	// Deployable services - need a deployment target
	"airflow":   {Name: "Apache Airflow", Category: "Data Processing & ETL", Provider: domain.ProviderDeployable, Kind: KindContainer},
	"spark":     {Name: "Apache Spark", Category: "Data Processing & ETL", Provider: domain.ProviderDeployable, Kind: KindContainer},
	"dbt":       {Name: "dbt", Category: "Data Processing & ETL", Provider: domain.ProviderDeployable, Kind: KindContainer},
	"metabase":  {Name: "Metabase", Category: "Analytics & Visualization", Provider: domain.ProviderDeployable, Kind: KindContainer},
	"grafana":   {Name: "Grafana", Category: "DevOps & Monitoring", Provider: domain.ProviderDeployable, Kind: KindContainer},
	"docker":    {Name: "Docker", Category: "DevOps & Monitoring", Provider: domain.ProviderDeployable, Kind: KindContainer},
	"terraform": {Name: "Terraform", Category: "DevOps & Monitoring", Provider: domain.ProviderDeployable, Kind: KindTool},
}

// Default returns the built-in service catalog.
func Default() *Catalog {
	c, err := New(defaultEntries)
	if err != nil {
		// The built-in table is validated by tests; reaching this is a bug.
		panic(err)
	}

	return c
}

// New builds a catalog from the given entries, validating that every
// entry carries a complete classification.
func New(entries map[string]Entry) (*Catalog, error) {
	for id, e := range entries {
		if e.Provider == "" || e.Kind == "" {
			return nil, fmt.Errorf("catalog entry %q is missing a provider/kind classification", id)
		}
	}

	copied := make(map[string]Entry, len(entries))
	for id, e := range entries {
		copied[id] = e
	}

	return &Catalog{entries: copied}, nil
}

// Lookup returns the classification for a service identifier.
func (c *Catalog) Lookup(service string) (Entry, bool) {
	e, ok := c.entries[service]
	return e, ok
}

// DisplayName returns the human-readable service name, or the identifier
// itself for unknown services.
func (c *Catalog) DisplayName(service string) string {
	if e, ok := c.entries[service]; ok {
		return e.Name
	}

	return service
}

// Services returns the identifiers of all supported services.
func (c *Catalog) Services() []string {
	ids := make([]string, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}

	return ids
}
