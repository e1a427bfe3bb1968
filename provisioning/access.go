package provisioning

import (
	"github.com/platforge/provisioner/provisioning/domain"
)

// buildAccessPackage bundles the provisioned infrastructure with the
// founder-facing onboarding guidance.
func buildAccessPackage(environments domain.Environments, thirdPartyAccounts []domain.ThirdPartyAccount, resources []domain.Resource) *domain.AccessPackage {
	return &domain.AccessPackage{
		Environments:       environments,
		ThirdPartyAccounts: thirdPartyAccounts,
		Resources:          resources,
		QuickStartGuide: map[string]string{
			"step_1": "Access your AWS console with the provided credentials",
			"step_2": "All your services are provisioned and ready",
			"step_3": "Start uploading data and building analytics",
			"step_4": "Scale up as your startup grows",
		},
		Support: map[string]string{
			"documentation": "https://docs.platforge.ai",
			"support_email": "support@platforge.ai",
			"slack_channel": "#platforge-support",
		},
	}
}
