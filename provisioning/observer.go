package provisioning

import (
	"context"
	"time"

	"github.com/platforge/provisioner/logger"
)

// EventType labels the stages of a provisioning run.
type EventType string

const (
	// EventRequirementsClassified fires after the requested pipeline is
	// partitioned into provider requirements.
	EventRequirementsClassified EventType = "requirements.classified"

	// EventAccountMatched fires when the request resolves to an existing
	// account.
	EventAccountMatched EventType = "account.matched"

	// EventAccountCreated fires when a new account identity is minted.
	EventAccountCreated EventType = "account.created"

	// EventEnvironmentProvisioned fires per cloud environment.
	EventEnvironmentProvisioned EventType = "environment.provisioned"

	// EventResourceProvisioned fires per provisioned resource descriptor.
	EventResourceProvisioned EventType = "resource.provisioned"

	// EventAccountPersisted fires after the registry write completes.
	EventAccountPersisted EventType = "account.persisted"

	// EventRunCompleted fires once per run, after the result is assembled.
	EventRunCompleted EventType = "run.completed"
)

// Event is one structured observation of a provisioning run.
type Event struct {
	Type      EventType
	StartupID string
	Resource  string
	Message   string
	Timestamp time.Time
}

// Observer receives provisioning run events. Implementations must not
// block; the run waits on each delivery.
type Observer interface {
	HandleEvent(ctx context.Context, event Event)
}

// LogObserver writes run events through the application logger.
type LogObserver struct {
	loggerProvider logger.Provider
}

func NewLogObserver(log logger.Provider) *LogObserver {
	return &LogObserver{
		loggerProvider: log,
	}
}

func (o *LogObserver) HandleEvent(ctx context.Context, event Event) {
	l := o.loggerProvider(ctx)

	if event.Resource != "" {
		l.Infof("%s startup=%s resource=%s %s", event.Type, event.StartupID, event.Resource, event.Message)
		return
	}

	l.Infof("%s startup=%s %s", event.Type, event.StartupID, event.Message)
}

func (s *Service) notify(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	for _, o := range s.observers {
		o.HandleEvent(ctx, event)
	}
}
