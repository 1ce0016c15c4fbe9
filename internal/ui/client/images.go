package client

import (
	"net/url"
	"strings"
)

// ImageURL maps an image path returned by the API to a URL the browser can load.
// Empty paths stay empty. Absolute and protocol-relative (//host/path) URLs are returned unchanged,
// anything else is resolved against the API base URL.
func (c *Client) ImageURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "//") {
		return path
	}
	if u, err := url.Parse(path); err == nil && (u.IsAbs() || u.Host != "") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}
