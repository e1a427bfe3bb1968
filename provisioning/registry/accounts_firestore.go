package registry

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/platforge/provisioner/provisioning/domain"
)

const accountsCollection = "provisionedAccounts"

// FirestoreFromContextFun resolves the Firestore client for a request.
type FirestoreFromContextFun func(ctx context.Context) *firestore.Client

// AccountsFirestore is an Accounts implementation backed by Firestore,
// for deployments that outgrow the local file store.
type AccountsFirestore struct {
	firestoreClientFun FirestoreFromContextFun
}

// NewAccountsFirestore returns a new AccountsFirestore with given project id.
func NewAccountsFirestore(ctx context.Context, projectID string) (*AccountsFirestore, error) {
	fs, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return NewAccountsFirestoreWithClient(
		func(ctx context.Context) *firestore.Client {
			return fs
		},
	), nil
}

// NewAccountsFirestoreWithClient returns a new AccountsFirestore using given client.
func NewAccountsFirestoreWithClient(fun FirestoreFromContextFun) *AccountsFirestore {
	return &AccountsFirestore{
		firestoreClientFun: fun,
	}
}

func (d *AccountsFirestore) GetRef(ctx context.Context, key string) *firestore.DocumentRef {
	return d.firestoreClientFun(ctx).Collection(accountsCollection).Doc(key)
}

func (d *AccountsFirestore) Find(ctx context.Context, info domain.StartupInfo) (*domain.AccountRecord, error) {
	snap, err := d.GetRef(ctx, domain.AccountKey(info)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}

		return nil, err
	}

	var record domain.AccountRecord
	if err := snap.DataTo(&record); err != nil {
		return nil, err
	}

	if record.ProvisionedResources == nil {
		record.ProvisionedResources = []domain.Resource{}
	}

	if record.PipelineServices == nil {
		record.PipelineServices = []string{}
	}

	return &record, nil
}

func (d *AccountsFirestore) Upsert(ctx context.Context, key string, record *domain.AccountRecord) error {
	_, err := d.GetRef(ctx, key).Set(ctx, record)
	return err
}

func (d *AccountsFirestore) List(ctx context.Context) ([]domain.AccountSummary, error) {
	iter := d.firestoreClientFun(ctx).
		Collection(accountsCollection).
		OrderBy("lastAccessed", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var summaries []domain.AccountSummary

	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}

		if err != nil {
			return nil, err
		}

		var record domain.AccountRecord
		if err := snap.DataTo(&record); err != nil {
			return nil, err
		}

		summaries = append(summaries, domain.AccountSummary{
			Key:              snap.Ref.ID,
			StartupName:      record.StartupInfo.Name,
			FounderEmail:     record.StartupInfo.Email,
			AccountID:        record.AccountID,
			CreatedAt:        record.CreatedAt,
			LastAccessed:     record.LastAccessed,
			ServicesCount:    len(record.ProvisionedResources),
			PipelineServices: record.PipelineServices,
		})
	}

	return summaries, nil
}

var _ Accounts = (*AccountsFirestore)(nil)
