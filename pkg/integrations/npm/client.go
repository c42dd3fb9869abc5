package npm

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	fareerrors "github.com/matzehuels/farelock/pkg/errors"
	"github.com/matzehuels/farelock/pkg/integrations"
)

const (
	// DefaultRegistryURL is the public npm registry.
	DefaultRegistryURL = "https://registry.npmjs.com"

	// HostName identifies the public registry in query results.
	HostName = "npmjs.com"
)

// Client queries the npm registry.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient returns a Client for the registry at baseURL. An empty baseURL
// selects [DefaultRegistryURL]; a zero timeout selects the shared default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultRegistryURL
	}
	return &Client{
		Client:  integrations.NewClient(timeout, map[string]string{"Accept": "application/json"}),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// BaseURL returns the registry root the client queries.
func (c *Client) BaseURL() string { return c.baseURL }

// LatestVersion returns the last version listed in the registry document
// for name. The registry lists versions in publication order, so the last
// key is taken as the newest release.
//
// ok is false when the package exists but has no published versions.
// A missing "versions" field is an invalid response, not an empty one.
func (c *Client) LatestVersion(ctx context.Context, name string) (version string, ok bool, err error) {
	if err := fareerrors.ValidatePackageName(name); err != nil {
		return "", false, err
	}

	var doc packument
	if err := c.Get(ctx, c.baseURL+"/"+url.PathEscape(name), &doc); err != nil {
		switch {
		case errors.Is(err, integrations.ErrNotFound):
			return "", false, fareerrors.Wrap(fareerrors.ErrCodePackageNotFound, err, "npm package %s", name)
		case isTimeout(err):
			return "", false, fareerrors.Wrap(fareerrors.ErrCodeTimeout, err, "fetch npm package %s", name)
		case errors.Is(err, integrations.ErrInvalidResponse):
			return "", false, fareerrors.Wrap(fareerrors.ErrCodeInvalidResponse, err, "npm package %s", name)
		default:
			return "", false, fareerrors.Wrap(fareerrors.ErrCodeNetwork, err, "fetch npm package %s", name)
		}
	}

	if doc.Versions == nil {
		return "", false, fareerrors.New(fareerrors.ErrCodeInvalidResponse, "npm package %s: registry response has no versions field", name)
	}
	version, ok = doc.Versions.last()
	return version, ok, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

// packument is the subset of the registry's package document we read.
type packument struct {
	Name     string       `json:"name"`
	Versions *versionKeys `json:"versions"`
}
