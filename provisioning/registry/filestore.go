package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/platforge/provisioner/provisioning/domain"
)

// storeFile is the on-disk shape of the registry.
type storeFile struct {
	Accounts    map[string]*domain.AccountRecord `json:"accounts"`
	LastUpdated int64                            `json:"last_updated"`
}

// FileStore is a JSON file backed Accounts implementation. Every mutation
// is flushed to disk before returning, so a crash does not roll back
// already-persisted work.
type FileStore struct {
	path string

	mu sync.Mutex
	db storeFile
}

// NewFileStore loads the registry from path, creating an empty one when
// the file does not exist. An unparseable file is a fatal error: the
// caller must not continue with a guessed-at registry.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		s.db = storeFile{Accounts: map[string]*domain.AccountRecord{}, LastUpdated: time.Now().Unix()}
		return s, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading account registry %s: %w", path, err)
	}

	if err := json.Unmarshal(raw, &s.db); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptStore, path, err)
	}

	if s.db.Accounts == nil {
		s.db.Accounts = map[string]*domain.AccountRecord{}
	}

	// Tolerate records persisted before optional fields existed.
	for _, record := range s.db.Accounts {
		if record.ProvisionedResources == nil {
			record.ProvisionedResources = []domain.Resource{}
		}

		if record.PipelineServices == nil {
			record.PipelineServices = []string{}
		}
	}

	return s, nil
}

func (s *FileStore) Find(_ context.Context, info domain.StartupInfo) (*domain.AccountRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.db.Accounts[domain.AccountKey(info)]
	if !ok {
		return nil, nil
	}

	copied := *record

	return &copied, nil
}

func (s *FileStore) Upsert(_ context.Context, key string, record *domain.AccountRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *record
	s.db.Accounts[key] = &copied
	s.db.LastUpdated = time.Now().Unix()

	return s.flush()
}

func (s *FileStore) List(_ context.Context) ([]domain.AccountSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summaries := make([]domain.AccountSummary, 0, len(s.db.Accounts))

	for key, record := range s.db.Accounts {
		summaries = append(summaries, domain.AccountSummary{
			Key:              key,
			StartupName:      record.StartupInfo.Name,
			FounderEmail:     record.StartupInfo.Email,
			AccountID:        record.AccountID,
			CreatedAt:        record.CreatedAt,
			LastAccessed:     record.LastAccessed,
			ServicesCount:    len(record.ProvisionedResources),
			PipelineServices: record.PipelineServices,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].LastAccessed > summaries[j].LastAccessed
	})

	return summaries, nil
}

// Len returns the number of persisted accounts.
func (s *FileStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.db.Accounts)
}

// flush writes the store atomically: temp file in the same directory,
// then rename. Caller holds s.mu.
func (s *FileStore) flush() error {
	raw, err := json.MarshalIndent(&s.db, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding account registry: %w", err)
	}

	dir := filepath.Dir(s.path)

	tmp, err := os.CreateTemp(dir, ".accounts-*.json")
	if err != nil {
		return fmt.Errorf("writing account registry: %w", err)
	}

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return fmt.Errorf("writing account registry: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing account registry: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing account registry: %w", err)
	}

	return nil
}
