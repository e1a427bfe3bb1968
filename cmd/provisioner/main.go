package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/platforge/provisioner/common"
	"github.com/platforge/provisioner/logger"
	"github.com/platforge/provisioner/provisioning"
	"github.com/platforge/provisioner/provisioning/amazonwebservices"
	"github.com/platforge/provisioner/provisioning/catalog"
	"github.com/platforge/provisioner/provisioning/domain"
	"github.com/platforge/provisioner/provisioning/googlecloud"
	"github.com/platforge/provisioner/provisioning/registry"
	"github.com/platforge/provisioner/provisioning/thirdparty"
	"github.com/platforge/provisioner/secrets"
)

const defaultAccountsFile = "provisioned_accounts.json"

// provisionRequest is the JSON body accepted on stdin or from -request.
type provisionRequest struct {
	StartupInfo      domain.StartupInfo `json:"startup_info"`
	PipelineServices []string           `json:"pipeline_services"`
}

func main() {
	if err := run(); err != nil {
		log.Println("error: ", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		requestPath  = flag.String("request", "-", "path to the provision request JSON (\"-\" for stdin)")
		accountsFile = flag.String("accounts-file", defaultAccountsFile, "path to the local account registry file")
		listAccounts = flag.Bool("list", false, "list provisioned accounts and exit")
		verify       = flag.Bool("verify", false, "verify the startup's cloud resources instead of provisioning")
	)

	flag.Parse()

	ctx := context.Background()

	if _, err := logger.NewLogging(ctx); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}

	ctx = logger.NewContext(ctx)

	creds := secrets.Load(ctx)

	accounts, err := newAccountsRegistry(ctx, *accountsFile)
	if err != nil {
		return err
	}

	service := provisioning.NewService(
		logger.FromContext,
		catalog.Default(),
		accounts,
		amazonwebservices.NewAWSService(logger.FromContext, creds.AWS),
		googlecloud.NewGCPService(ctx, logger.FromContext, creds.GCP),
		thirdparty.NewService(logger.FromContext),
		provisioning.NewLogObserver(logger.FromContext),
	)

	if *listAccounts {
		summaries, err := service.ListAccounts(ctx)
		if err != nil {
			return err
		}

		return printJSON(summaries)
	}

	request, err := readRequest(*requestPath)
	if err != nil {
		return err
	}

	if *verify {
		checks, err := service.VerifyAccount(ctx, request.StartupInfo)
		if err != nil {
			return err
		}

		return printJSON(checks)
	}

	result, err := service.AutoProvision(ctx, request.StartupInfo, request.PipelineServices)
	if err != nil {
		return err
	}

	return printJSON(result)
}

// newAccountsRegistry picks Firestore when a project is configured and
// falls back to the local file registry otherwise.
func newAccountsRegistry(ctx context.Context, accountsFile string) (registry.Accounts, error) {
	if common.ProjectID != "" {
		accounts, err := registry.NewAccountsFirestore(ctx, common.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("initialize firestore registry: %w", err)
		}

		return accounts, nil
	}

	return registry.NewFileStore(accountsFile)
}

func readRequest(path string) (*provisionRequest, error) {
	var raw []byte

	var err error

	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}

	if err != nil {
		return nil, fmt.Errorf("read request: %w", err)
	}

	var request provisionRequest
	if err := json.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("parse request: %w", err)
	}

	if request.StartupInfo.Name == "" || request.StartupInfo.Email == "" {
		return nil, errors.New("request requires startup_info.name and startup_info.email")
	}

	return &request, nil
}

func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}
