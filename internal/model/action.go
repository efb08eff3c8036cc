package model

// Action is the result of parsing an incoming URI. The set of implementations
// is closed: Unknown, OAuthCallback, OpenRepositoryFromURL and
// OpenRepositoryFromPath.
type Action interface {
	// Name returns a short identifier used in logs.
	Name() string
	isAction()
}

// Unknown is returned for any URI that is not a valid, recognised action.
type Unknown struct {
	RawURL string `json:"raw_url"`
}

// OAuthCallback carries the parameters of an OAuth redirect.
type OAuthCallback struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

// OpenRepositoryFromURL asks for a repository to be opened, optionally on a
// branch or pull request ref. Empty optional fields mean "not given".
type OpenRepositoryFromURL struct {
	// RepoPath is the URI path without its leading slash, still escaped.
	RepoPath          string `json:"repo_path"`
	Branch            string `json:"branch,omitempty"`
	PullRequestNumber string `json:"pr,omitempty"`
	FilePath          string `json:"filepath,omitempty"`
}

// OpenRepositoryFromPath asks for a local clone to be remembered.
type OpenRepositoryFromPath struct {
	LocalPath string `json:"local_path"`
}

func (Unknown) Name() string                { return "unknown" }
func (OAuthCallback) Name() string          { return "oauth" }
func (OpenRepositoryFromURL) Name() string  { return "open-repository-from-url" }
func (OpenRepositoryFromPath) Name() string { return "open-repository-from-path" }

func (Unknown) isAction()                {}
func (OAuthCallback) isAction()          {}
func (OpenRepositoryFromURL) isAction()  {}
func (OpenRepositoryFromPath) isAction() {}
