// Package model defines core data structures for GHOpen.
package model

// ActionName is the lowercased host part of an x-github-client URI.
type ActionName string

const (
	// ActionOAuth delivers an OAuth authorization code.
	ActionOAuth ActionName = "oauth"
	// ActionOpenRepo opens a repository identified by a URL path.
	ActionOpenRepo ActionName = "openrepo"
	// ActionOpenLocalRepo registers a repository by local filesystem path.
	ActionOpenLocalRepo ActionName = "openlocalrepo"
)

// PickerMode selects how the user chooses a local clone.
type PickerMode string

const (
	// PickerDialog prompts for a directory in a text input with path completion.
	PickerDialog PickerMode = "dialog"
	// PickerFuzzy lists discovered git clones in a fuzzy finder.
	PickerFuzzy PickerMode = "fuzzy"
)

// OutcomeStatus reports how a checkout run ended.
type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeFailure OutcomeStatus = "failure"
)

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	// Desktop enables desktop notifications via system APIs.
	Desktop bool `json:"desktop"`
	// WebhookURL is the optional URL to send webhook notifications.
	WebhookURL string `json:"webhook_url,omitempty"`
}
