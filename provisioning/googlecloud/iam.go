package googlecloud

import (
	"context"
	"fmt"

	"google.golang.org/api/cloudresourcemanager/v1"
)

// grantProjectRoles binds the tenant roles to the service account on the
// shared project's IAM policy. Membership is idempotent: existing
// bindings are left untouched.
func (s *GCPService) grantProjectRoles(ctx context.Context, serviceAccountEmail string) error {
	l := s.loggerProvider(ctx)

	policy, err := s.crmService.Projects.GetIamPolicy(s.creds.ProjectID, &cloudresourcemanager.GetIamPolicyRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get project IAM policy: %w", err)
	}

	member := fmt.Sprintf("serviceAccount:%s", serviceAccountEmail)

	changed := false

	for _, role := range tenantRoles {
		binding := findBinding(policy, role)
		if binding == nil {
			binding = &cloudresourcemanager.Binding{Role: role}
			policy.Bindings = append(policy.Bindings, binding)
		}

		if containsMember(binding, member) {
			l.Debugf("%s already has %s", serviceAccountEmail, role)
			continue
		}

		binding.Members = append(binding.Members, member)
		changed = true

		l.Infof("granted %s to %s", role, serviceAccountEmail)
	}

	if !changed {
		return nil
	}

	_, err = s.crmService.Projects.SetIamPolicy(s.creds.ProjectID, &cloudresourcemanager.SetIamPolicyRequest{
		Policy: policy,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("set project IAM policy: %w", err)
	}

	return nil
}

func findBinding(policy *cloudresourcemanager.Policy, role string) *cloudresourcemanager.Binding {
	for _, b := range policy.Bindings {
		if b.Role == role {
			return b
		}
	}

	return nil
}

func containsMember(binding *cloudresourcemanager.Binding, member string) bool {
	for _, m := range binding.Members {
		if m == member {
			return true
		}
	}

	return false
}
