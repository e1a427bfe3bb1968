package googlecloud

import (
	"context"
	"fmt"

	"github.com/platforge/provisioner/provisioning/domain"
)

// CreateEventTopic provisions a Pub/Sub topic for the startup's event
// stream.
func (s *GCPService) CreateEventTopic(ctx context.Context, env *domain.GCPEnvironment, info domain.StartupInfo) *domain.Resource {
	l := s.loggerProvider(ctx)

	topicName := fmt.Sprintf("%s-events", info.Slug())

	if !s.connected() {
		return s.mockEventTopic(env, topicName, s.stateReason)
	}

	client, err := s.pubSubClient(ctx)
	if err != nil {
		return s.mockEventTopic(env, topicName, err.Error())
	}

	defer client.Close()

	l.Infof("creating Pub/Sub topic %s", topicName)

	if _, err := client.CreateTopic(ctx, topicName); err != nil {
		l.Errorf("Pub/Sub topic creation failed for %s: %s", topicName, err)
		return s.mockEventTopic(env, topicName, err.Error())
	}

	return &domain.Resource{
		Service:          "Pub/Sub",
		Type:             "messaging",
		Name:             topicName,
		Topic:            topicName,
		ProjectID:        env.ProjectID,
		Status:           domain.StatusActive,
		ConsoleURL:       pubSubConsoleURL(topicName, env.ProjectID),
		ConnectionString: fmt.Sprintf("pubsub://%s/%s", env.ProjectID, topicName),
	}
}

func (s *GCPService) mockEventTopic(env *domain.GCPEnvironment, topicName, cause string) *domain.Resource {
	return &domain.Resource{
		Service:          "Pub/Sub",
		Type:             "messaging",
		Name:             topicName,
		Topic:            topicName,
		ProjectID:        env.ProjectID,
		Status:           domain.StatusMockCreated,
		Note:             fmt.Sprintf("Mock resource - real topic creation failed: %s", cause),
		ConsoleURL:       pubSubConsoleURL(topicName, env.ProjectID),
		ConnectionString: fmt.Sprintf("pubsub://%s/%s", env.ProjectID, topicName),
	}
}

func pubSubConsoleURL(topicName, projectID string) string {
	return fmt.Sprintf("https://console.cloud.google.com/cloudpubsub/topic/detail/%s?project=%s", topicName, projectID)
}
