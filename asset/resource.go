// Package asset opens configuration and scene description files that live
// either on disk or behind an http(s) URL.
package asset

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Resource is a readable local file or remote document.
type Resource struct {
	io.ReadCloser
	url *url.URL
}

// Returns the path or URL of this resource.
func (r *Resource) Path() string {
	return r.url.String()
}

// Returns true if the Resource is fetched over http/https.
func (r *Resource) IsRemote() bool {
	return r.url.Scheme != ""
}

// Ext returns the lower-cased extension of the resource path.
func (r *Resource) Ext() string {
	return strings.ToLower(filepath.Ext(r.url.Path))
}

// Open a resource. Paths without a scheme are read from disk; when relTo is
// a resource they are resolved against its directory. Callers must close the
// returned resource.
func NewResource(location string, relTo *Resource) (*Resource, error) {
	u, err := url.Parse(strings.ReplaceAll(location, `\`, `/`))
	if err != nil {
		return nil, fmt.Errorf("asset: invalid location %q: %w", location, err)
	}

	if u.Scheme == "" && relTo != nil && !filepath.IsAbs(u.Path) {
		rel := u.Path
		base := *relTo.url
		u = &base
		if u.Scheme == "" {
			u.Path = filepath.Join(filepath.Dir(u.Path), rel)
		} else {
			u.Path = path.Join(path.Dir(u.Path), rel)
		}
	}

	var reader io.ReadCloser
	switch u.Scheme {
	case "":
		reader, err = os.Open(filepath.Clean(u.Path))
		if err != nil {
			return nil, err
		}
	case "http", "https":
		resp, err := http.Get(u.String())
		if err != nil {
			return nil, fmt.Errorf("asset: could not fetch '%s': %w", u.String(), err)
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, fmt.Errorf("asset: could not fetch '%s': status %d", u.String(), resp.StatusCode)
		}
		reader = resp.Body
	default:
		return nil, fmt.Errorf("asset: unsupported scheme '%s'", u.Scheme)
	}

	return &Resource{ReadCloser: reader, url: u}, nil
}

// Wrap a reader into a resource with the given name.
func NewResourceFromStream(name string, source io.Reader) *Resource {
	u, err := url.Parse(name)
	if err != nil {
		u = &url.URL{Path: name}
	}
	return &Resource{ReadCloser: io.NopCloser(source), url: u}
}
