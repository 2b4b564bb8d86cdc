// Package updater checks GitHub for newer winsize releases.
package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Dicklesworthstone/winsize/pkg/version"
)

// ReleasesURL is the GitHub API endpoint for the latest release.
const ReleasesURL = "https://api.github.com/repos/Dicklesworthstone/winsize/releases/latest"

type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Checker queries a releases endpoint.
type Checker struct {
	URL    string
	Client *http.Client
	// Current is the running version; defaults to version.Version.
	Current string
}

// NewChecker returns a Checker against GitHub with a short timeout so it
// never holds up the command for long.
func NewChecker() *Checker {
	return &Checker{
		URL:     ReleasesURL,
		Client:  &http.Client{Timeout: 2 * time.Second},
		Current: version.Version,
	}
}

// Check returns the newer tag and its URL, or empty strings when the running
// version is current.
func (c *Checker) Check(ctx context.Context) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("github api returned status: %s", resp.Status)
	}

	var rel Release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return "", "", fmt.Errorf("failed to decode release: %w", err)
	}

	if CompareVersions(rel.TagName, c.Current) > 0 {
		return rel.TagName, rel.HTMLURL, nil
	}
	return "", "", nil
}

// CompareVersions compares dotted numeric versions with an optional "v"
// prefix: 1 if v1 > v2, -1 if v1 < v2, 0 if equal. Pre-release suffixes
// ("-rc1") are ignored.
func CompareVersions(v1, v2 string) int {
	a, b := segments(v1), segments(v2)
	for i := 0; i < len(a) || i < len(b); i++ {
		var x, y int
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		switch {
		case x > y:
			return 1
		case x < y:
			return -1
		}
	}
	return 0
}

func segments(v string) []int {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	var out []int
	for _, part := range strings.Split(v, ".") {
		n, err := strconv.Atoi(part)
		if err != nil {
			n = 0
		}
		out = append(out, n)
	}
	return out
}
