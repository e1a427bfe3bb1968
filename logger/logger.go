package logger

import (
	"context"
	"strconv"

	"cloud.google.com/go/logging"
	"google.golang.org/genproto/googleapis/api/monitoredres"

	"github.com/platforge/provisioner/common"
)

type contextKey string

const (
	// CtxLoggerKey is how request values are stored/retrieved.
	CtxLoggerKey contextKey = "app-logger"

	// appLogID is the name of the log stream for provisioning logging.
	appLogID = "provisioner"

	// labels keys for monitored resource definition
	moduleIDField  = "module_id"
	projectIDField = "project_id"
	versionIDField = "version_id"

	// labels from env vars for monitored resource definition
	appEngineService = "GAE_SERVICE"
	appEngineVersion = "GAE_VERSION"
	appEngineType    = "gae_app"

	gcpLogging = "GCP_LOGGING"
)

var (
	appLogger    *logging.Logger
	resource     *monitoredres.MonitoredResource
	cloudLogging bool
)

type Provider func(ctx context.Context) ILogger

type Logging struct {
}

// NewLogging initializes the google cloud logging client. When cloud
// logging is disabled (localhost, or GCP_LOGGING=false) entries are only
// written to the local stderr logger.
func NewLogging(ctx context.Context) (*Logging, error) {
	cloudLogging = !common.IsLocalhost

	var err error

	cloudLogging, err = strconv.ParseBool(common.GetEnv(gcpLogging, strconv.FormatBool(cloudLogging)))
	if err != nil {
		return nil, err
	}

	if cloudLogging {
		client, err := logging.NewClient(ctx, common.ProjectID)
		if err != nil {
			return nil, err
		}

		appLogger = client.Logger(appLogID)
	}

	moduleID := common.GetEnv(appEngineService, "provisioner")
	versionID := common.GetEnv(appEngineVersion, "localhost")

	resource = &monitoredres.MonitoredResource{
		Labels: map[string]string{
			moduleIDField:  moduleID,
			projectIDField: common.ProjectID,
			versionIDField: versionID,
		},
		Type: appEngineType,
	}

	return &Logging{}, nil
}

// Logger returns the logger that was stored inside the context.
func (l *Logging) Logger(ctx context.Context) ILogger {
	return FromContext(ctx)
}

// NewContext returns a child context carrying a new logger.
func NewContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, CtxLoggerKey, newDefaultLogger())
}

// FromContext returns the logger that was stored in context.
// If there isn't a logger stored, returns a new logger.
func FromContext(ctx context.Context) ILogger {
	if l, ok := ctx.Value(CtxLoggerKey).(*Logger); ok {
		return l
	}

	return newDefaultLogger()
}
