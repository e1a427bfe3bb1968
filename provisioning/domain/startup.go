package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// StartupInfo identifies the tenant infrastructure is provisioned for.
type StartupInfo struct {
	Name        string `json:"name" firestore:"name"`
	Email       string `json:"email" firestore:"email"`
	FounderName string `json:"founder_name" firestore:"founderName"`
}

// AccountKey derives the stable registry key for a startup. Two requests
// with the same name+email always resolve to the same key, across restarts.
func AccountKey(info StartupInfo) string {
	return fmt.Sprintf("%s_%s", Slug(info.Name), strings.ToLower(info.Email))
}

// NewStartupID generates the public startup identifier: a slug of the
// startup name plus a short random suffix.
func NewStartupID(info StartupInfo) string {
	return fmt.Sprintf("%s-%s", Slug(info.Name), uuid.New().String()[:6])
}

// Slug returns the hyphenated form of the startup name, the base for
// resource identifiers.
func (s StartupInfo) Slug() string {
	return Slug(s.Name)
}

// Slug lowercases a display name and replaces spaces with hyphens.
func Slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

// AlnumSlug lowercases a display name and strips spaces and hyphens.
// BigQuery dataset ids allow only alphanumerics and underscores.
func AlnumSlug(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, " ", "")

	return strings.ReplaceAll(s, "-", "")
}

// RandomHex returns n characters of random hex, used for resource name
// suffixes and placeholder credentials.
func RandomHex(n int) string {
	h := strings.ReplaceAll(uuid.New().String(), "-", "")
	for len(h) < n {
		h += strings.ReplaceAll(uuid.New().String(), "-", "")
	}

	return h[:n]
}
