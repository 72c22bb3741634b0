package server

import (
	"net/http"
	"regexp"
	"slices"
)

const (
	// DefaultAPIVersion is used when the client does not ask for one.
	DefaultAPIVersion = "v1"

	// APIVersionHeader reports the negotiated version.
	APIVersionHeader = "X-API-Version"
)

var (
	supportedAPIVersions = []string{"v1"}

	vendorAccept = regexp.MustCompile(`application/vnd\.pyngctl\.(v[0-9]+)\+json`)
)

// negotiateAPIVersion reads a vendor media type such as
// application/vnd.pyngctl.v1+json from Accept, falling back to the default
// for anything absent or unsupported.
func negotiateAPIVersion(r *http.Request) string {
	m := vendorAccept.FindStringSubmatch(r.Header.Get("Accept"))
	if m == nil || !isValidAPIVersion(m[1]) {
		return DefaultAPIVersion
	}
	return m[1]
}

func isValidAPIVersion(v string) bool {
	return slices.Contains(supportedAPIVersions, v)
}
