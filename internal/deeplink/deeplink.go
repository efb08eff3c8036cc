// Package deeplink turns x-github-client:// URIs into typed actions.
package deeplink

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/lazyvibe/ghopen/internal/model"
	"github.com/lazyvibe/ghopen/internal/refname"
)

// Scheme is the URI scheme handled by GHOpen.
const Scheme = "x-github-client"

var (
	pullRequestPattern = regexp.MustCompile(`^\d+$`)
	prBranchPattern    = regexp.MustCompile(`^pr/\d+$`)
)

// Parse converts a raw URI into an action. It never fails: anything that is
// malformed or unrecognised is returned as model.Unknown.
//
// Example: x-github-client://openRepo/DankNeon/meta?branch=wuz-new-colors
func Parse(raw string) model.Action {
	unknown := model.Unknown{RawURL: raw}

	u, err := url.Parse(raw)
	if err != nil {
		return unknown
	}
	host := u.Hostname()
	if host == "" {
		return unknown
	}
	query := parseQuery(u.RawQuery)

	name := model.ActionName(strings.ToLower(host))
	if name == model.ActionOAuth {
		code, hasCode := first(query, "code")
		state, hasState := first(query, "state")
		if !hasCode || !hasState || code == "" || state == "" {
			return unknown
		}
		return model.OAuthCallback{Code: code, State: state}
	}

	// Everything else needs something resembling a path, not just "/".
	pathname := u.EscapedPath()
	if len(pathname) <= 1 {
		return unknown
	}
	path := pathname[1:]

	switch name {
	case model.ActionOpenRepo:
		return parseOpenRepo(unknown, path, query)

	case model.ActionOpenLocalRepo:
		local, err := url.PathUnescape(path)
		if err != nil {
			return unknown
		}
		return model.OpenRepositoryFromPath{LocalPath: local}

	default:
		return unknown
	}
}

func parseOpenRepo(unknown model.Unknown, path string, query url.Values) model.Action {
	pr, hasPR := first(query, "pr")
	branch, hasBranch := first(query, "branch")
	filePath, _ := first(query, "filepath")

	if hasPR {
		if !pullRequestPattern.MatchString(pr) {
			return unknown
		}
		// The branch for a forked pull request must use the pr/<n> form.
		if hasBranch && !prBranchPattern.MatchString(branch) {
			return unknown
		}
	}
	if hasBranch && refname.IsInvalid(branch) {
		return unknown
	}

	return model.OpenRepositoryFromURL{
		RepoPath:          path,
		Branch:            branch,
		PullRequestNumber: pr,
		FilePath:          filePath,
	}
}

// first returns the first value of key and whether the key was present.
func first(query url.Values, key string) (string, bool) {
	values, ok := query[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// Build renders an actionable action back into a URI. Unknown actions return
// their raw URL.
func Build(action model.Action) string {
	u := url.URL{Scheme: Scheme}

	switch a := action.(type) {
	case model.OAuthCallback:
		u.Host = string(model.ActionOAuth)
		q := url.Values{}
		q.Set("code", a.Code)
		q.Set("state", a.State)
		u.RawQuery = q.Encode()

	case model.OpenRepositoryFromURL:
		u.Host = string(model.ActionOpenRepo)
		u.Opaque = "//" + u.Host + "/" + a.RepoPath
		q := url.Values{}
		if a.PullRequestNumber != "" {
			q.Set("pr", a.PullRequestNumber)
		}
		if a.Branch != "" {
			q.Set("branch", a.Branch)
		}
		if a.FilePath != "" {
			q.Set("filepath", a.FilePath)
		}
		u.RawQuery = q.Encode()

	case model.OpenRepositoryFromPath:
		u.Host = string(model.ActionOpenLocalRepo)
		u.Opaque = "//" + u.Host + "/" + url.PathEscape(a.LocalPath)

	case model.Unknown:
		return a.RawURL
	}

	return u.String()
}
