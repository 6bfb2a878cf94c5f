// Package selfupdate replaces the running quizgen binary with a published
// GitHub release.
package selfupdate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

const (
	defaultAPIURL      = "https://api.github.com"
	defaultDownloadURL = "https://github.com"
	defaultOwner       = "abhisek"
	defaultRepo        = "quizgen"
)

var (
	ErrDevBuild      = errors.New("cannot update a development build")
	ErrAlreadyLatest = errors.New("already running the latest version")
	ErrChecksum      = errors.New("checksum verification failed")
	ErrBadVersion    = errors.New("not a semantic version")
)

// Release is the latest published release compared against the running build.
type Release struct {
	Tag   string
	URL   string
	Newer bool
}

// Checker talks to the GitHub releases API and download host.
type Checker struct {
	client          *http.Client
	apiURL          string
	downloadBaseURL string
	owner, repo     string
	execPath        func() (string, error)
}

type Option func(*Checker)

func WithBaseURL(u string) Option { return func(c *Checker) { c.apiURL = u } }

func WithDownloadBaseURL(u string) Option { return func(c *Checker) { c.downloadBaseURL = u } }

func WithTimeout(d time.Duration) Option { return func(c *Checker) { c.client.Timeout = d } }

func WithRepo(owner, repo string) Option {
	return func(c *Checker) { c.owner, c.repo = owner, repo }
}

func withExecPath(fn func() (string, error)) Option { return func(c *Checker) { c.execPath = fn } }

func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		client:          &http.Client{Timeout: 30 * time.Second},
		apiURL:          defaultAPIURL,
		downloadBaseURL: defaultDownloadURL,
		owner:           defaultOwner,
		repo:            defaultRepo,
		execPath:        os.Executable,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Check fetches the latest release and reports whether it is newer than current.
func (c *Checker) Check(ctx context.Context, current string) (*Release, error) {
	cur, err := canonical(current)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", strings.TrimRight(c.apiURL, "/"), c.owner, c.repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query latest release: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("query latest release: HTTP %d", resp.StatusCode)
	}

	var body struct {
		TagName string `json:"tag_name"`
		HTMLURL string `json:"html_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode release: %w", err)
	}
	latest, err := canonical(body.TagName)
	if err != nil {
		return nil, fmt.Errorf("latest release: %w", err)
	}

	return &Release{
		Tag:   body.TagName,
		URL:   body.HTMLURL,
		Newer: semver.Compare(latest, cur) > 0,
	}, nil
}

// canonical accepts "1.2.3" or "v1.2.3" and returns the v-prefixed form.
func canonical(v string) (string, error) {
	if v == "" || v == "(devel)" {
		return "", ErrDevBuild
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", fmt.Errorf("%w: %q", ErrBadVersion, v)
	}
	return v, nil
}
