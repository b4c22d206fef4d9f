// Package source parses dependency source URLs into the pieces the add and
// install commands need: a raw download URL, a canonical manifest form, and
// the ref the file was requested at.
package source

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// rawBaseURL is the base used to construct raw-content download URLs for the
// github shorthand. Tests point it at an httptest server.
var rawBaseURL = "https://raw.githubusercontent.com"
var rawBaseURLMutex sync.Mutex

// SetRawBaseURLForTest overrides the raw-content base URL. Intended to be
// called only from test packages; returns a restore function.
func SetRawBaseURLForTest(base string) func() {
	rawBaseURLMutex.Lock()
	prev := rawBaseURL
	rawBaseURL = base
	rawBaseURLMutex.Unlock()
	return func() {
		rawBaseURLMutex.Lock()
		rawBaseURL = prev
		rawBaseURLMutex.Unlock()
	}
}

func rawBase() string {
	rawBaseURLMutex.Lock()
	defer rawBaseURLMutex.Unlock()
	return rawBaseURL
}

// ParsedSourceInfo holds the details extracted from a source URL.
type ParsedSourceInfo struct {
	RawURL            string // The raw URL to download the file content
	CanonicalURL      string // The canonical representation (e.g., github:owner/repo/path/to/file@ref)
	Ref               string // The commit hash, branch, or tag
	Provider          string // e.g., "github"
	Owner             string
	Repo              string
	PathInRepo        string
	SuggestedFilename string
}

// IsCommitSHA reports whether ref looks like a full 40-character Git SHA-1.
func IsCommitSHA(ref string) bool {
	if len(ref) != 40 {
		return false
	}
	for _, r := range ref {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')) {
			return false
		}
	}
	return true
}

// ParseSourceURL analyzes the input source URL string and returns structured
// information. It understands the github:owner/repo/path@ref shorthand,
// github.com blob URLs, and falls back to treating anything else as a direct
// download URL.
func ParseSourceURL(sourceURL string) (*ParsedSourceInfo, error) {
	if strings.HasPrefix(sourceURL, "github:") {
		return parseGithubShorthand(sourceURL)
	}

	u, err := url.Parse(sourceURL)
	if err != nil {
		return nil, fmt.Errorf("invalid source URL '%s': %w", sourceURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported source URL scheme '%s' in '%s'", u.Scheme, sourceURL)
	}

	if u.Host == "github.com" {
		return parseGithubBlobURL(sourceURL, u)
	}

	// Direct URL to a file on some other host. No ref semantics.
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	suggested := ""
	if len(segments) > 0 {
		suggested = segments[len(segments)-1]
	}
	if suggested == "" {
		return nil, fmt.Errorf("cannot infer a filename from source URL '%s'", sourceURL)
	}
	return &ParsedSourceInfo{
		RawURL:            sourceURL,
		CanonicalURL:      sourceURL,
		Provider:          "direct",
		SuggestedFilename: suggested,
	}, nil
}

func parseGithubShorthand(sourceURL string) (*ParsedSourceInfo, error) {
	content := strings.TrimPrefix(sourceURL, "github:")

	lastAt := strings.LastIndex(content, "@")
	if lastAt == -1 {
		return nil, fmt.Errorf("invalid github shorthand source '%s': missing @ref (e.g., @main or @commitsha)", sourceURL)
	}
	if lastAt == len(content)-1 {
		return nil, fmt.Errorf("invalid github shorthand source '%s': ref part is empty after @", sourceURL)
	}

	repoAndPathPart := content[:lastAt]
	ref := content[lastAt+1:]

	pathComponents := strings.Split(repoAndPathPart, "/")
	if len(pathComponents) < 3 {
		return nil, fmt.Errorf("invalid github shorthand source '%s': expected format owner/repo/path/to/file, got '%s'", sourceURL, repoAndPathPart)
	}

	owner := pathComponents[0]
	repo := pathComponents[1]
	pathInRepo := strings.Join(pathComponents[2:], "/")
	suggestedFilename := pathComponents[len(pathComponents)-1]

	if owner == "" || repo == "" || pathInRepo == "" || suggestedFilename == "" {
		return nil, fmt.Errorf("invalid github shorthand source '%s': owner, repo, or path/filename cannot be empty", sourceURL)
	}

	return &ParsedSourceInfo{
		RawURL:            fmt.Sprintf("%s/%s/%s/%s/%s", rawBase(), owner, repo, ref, pathInRepo),
		CanonicalURL:      fmt.Sprintf("github:%s/%s/%s@%s", owner, repo, pathInRepo, ref),
		Ref:               ref,
		Provider:          "github",
		Owner:             owner,
		Repo:              repo,
		PathInRepo:        pathInRepo,
		SuggestedFilename: suggestedFilename,
	}, nil
}

func parseGithubBlobURL(sourceURL string, u *url.URL) (*ParsedSourceInfo, error) {
	// Expected form: /owner/repo/blob/ref/path/to/file
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 5 || segments[2] != "blob" {
		return nil, fmt.Errorf("unsupported github.com URL '%s': expected https://github.com/owner/repo/blob/ref/path/to/file", sourceURL)
	}

	owner := segments[0]
	repo := segments[1]
	ref := segments[3]
	pathInRepo := strings.Join(segments[4:], "/")
	suggestedFilename := segments[len(segments)-1]

	return &ParsedSourceInfo{
		RawURL:            fmt.Sprintf("%s/%s/%s/%s/%s", rawBase(), owner, repo, ref, pathInRepo),
		CanonicalURL:      fmt.Sprintf("github:%s/%s/%s@%s", owner, repo, pathInRepo, ref),
		Ref:               ref,
		Provider:          "github",
		Owner:             owner,
		Repo:              repo,
		PathInRepo:        pathInRepo,
		SuggestedFilename: suggestedFilename,
	}, nil
}
