package checkout

import (
	"net/url"
	"strings"
)

// DefaultHostPrefixes are stripped from repository paths to form identities.
var DefaultHostPrefixes = []string{"https://github.com/"}

// RepositoryIdentity derives the mapping key for a repository path by
// removing the first matching host prefix. A path with no known prefix is used
// unchanged.
func RepositoryIdentity(repoPath string, hostPrefixes []string) string {
	for _, prefix := range hostPrefixes {
		if prefix != "" && strings.HasPrefix(repoPath, prefix) {
			return strings.TrimPrefix(repoPath, prefix)
		}
	}
	return repoPath
}

// RemoteIdentity derives an identity from a git remote URL. Both URL forms
// (https://host/owner/repo.git, ssh://git@host/owner/repo) and the scp-like
// form git@host:owner/repo.git reduce to owner/repo.
func RemoteIdentity(remote string, hostPrefixes []string) string {
	remote = strings.TrimSpace(remote)

	path := remote
	if identity := RepositoryIdentity(remote, hostPrefixes); identity != remote {
		path = identity
	} else if strings.Contains(remote, "://") {
		if u, err := url.Parse(remote); err == nil {
			path = strings.TrimPrefix(u.Path, "/")
		}
	} else if _, rest, ok := strings.Cut(remote, ":"); ok {
		path = rest
	}

	path = strings.TrimSuffix(path, "/")
	return strings.TrimSuffix(path, ".git")
}
