package model

import (
	"path/filepath"
	"time"
)

// Repository maps a repository identity (usually owner/repo) to a local clone.
type Repository struct {
	// Identity is the key derived from the URI, e.g. "DankNeon/meta".
	Identity string `json:"identity"`
	// Path is the absolute filesystem path of the clone.
	Path string `json:"path"`
	// LastUsed is the Unix timestamp of the last resolution.
	LastUsed int64 `json:"last_used"`
	// CreatedAt is when the mapping was first stored.
	CreatedAt int64 `json:"created_at"`
}

// NewRepository creates a mapping stamped with the current time.
func NewRepository(identity, path string) *Repository {
	now := time.Now().Unix()
	return &Repository{
		Identity:  identity,
		Path:      path,
		CreatedAt: now,
		LastUsed:  now,
	}
}

// Touch updates the LastUsed timestamp to now.
func (r *Repository) Touch() {
	r.LastUsed = time.Now().Unix()
}

// DisplayName returns the identity, or the clone's directory name when the
// identity is empty.
func (r *Repository) DisplayName() string {
	if r.Identity != "" {
		return r.Identity
	}
	return filepath.Base(r.Path)
}
