package catalog

import (
	"github.com/platforge/provisioner/provisioning/domain"
)

// Classify partitions the requested services into provider domains and
// decides which cloud environments must exist. Unknown identifiers are
// skipped; the upstream recommendation catalog already validated them.
func (c *Catalog) Classify(services []string) *domain.Requirements {
	req := &domain.Requirements{
		NeedsThirdPartyAccount: []domain.ThirdPartyRequest{},
		AWSServices:            []string{},
		GCPServices:            []string{},
		ThirdPartyServices:     []string{},
		DeployableServices:     []string{},
	}

	for _, service := range services {
		entry, ok := c.entries[service]
		if !ok {
			continue
		}

		switch {
		case entry.Provider == domain.ProviderAWS:
			req.NeedsAWSAccount = true
			req.AWSServices = append(req.AWSServices, service)

		case entry.Provider == domain.ProviderGCP:
			req.NeedsGCPProject = true
			req.GCPServices = append(req.GCPServices, service)

		case entry.Kind == KindThirdParty:
			req.NeedsThirdPartyAccount = append(req.NeedsThirdPartyAccount, domain.ThirdPartyRequest{
				Service:  service,
				Provider: entry.Provider,
			})
			req.ThirdPartyServices = append(req.ThirdPartyServices, service)

		case entry.Provider == domain.ProviderDeployable:
			req.NeedsDeploymentTarget = true
			req.DeployableServices = append(req.DeployableServices, service)
		}
	}

	// Deployable services with no cloud provider requested default to AWS.
	// With both providers present, AWS is the preferred deployment target.
	if req.NeedsDeploymentTarget {
		switch {
		case !req.NeedsAWSAccount && !req.NeedsGCPProject:
			req.NeedsAWSAccount = true
			req.DeploymentProvider = domain.ProviderAWS
		case req.NeedsAWSAccount:
			req.DeploymentProvider = domain.ProviderAWS
		default:
			req.DeploymentProvider = domain.ProviderGCP
		}
	}

	return req
}
