package header

import (
	"maps"
	"time"
)

// Metadata keys written by pyngctl.
const (
	MetadataTimestamp = "timestamp"
	MetadataUser      = "user"
)

// Option is a functional option for configuring Header instances.
type Option func(*Header)

// WithMetadata returns an Option that adds a metadata key-value pair to the Header.
// If the Metadata map is nil, it will be initialized.
func WithMetadata(key, value string) Option {
	return func(h *Header) {
		if h.Metadata == nil {
			h.Metadata = make(map[string]string)
		}
		h.Metadata[key] = value
	}
}

// WithTimestamp records t in RFC 3339 form, UTC.
func WithTimestamp(t time.Time) Option {
	return WithMetadata(MetadataTimestamp, t.UTC().Format(time.RFC3339))
}

// New creates a Header for a resource of the given kind and API version.
func New(kind, apiVersion string, opts ...Option) Header {
	h := Header{
		Kind:       kind,
		APIVersion: apiVersion,
	}
	for _, opt := range opts {
		opt(&h)
	}
	return h
}

// Header identifies a serialized pyngctl resource. It is embedded inline so
// documents read as kind/apiVersion/metadata followed by their body.
type Header struct {
	// Kind is the resource type, e.g. "DispatchReport".
	Kind string `json:"kind" yaml:"kind"`

	// APIVersion is the version of the resource layout.
	APIVersion string `json:"apiVersion" yaml:"apiVersion"`

	// Metadata holds free-form annotations such as the issuing user.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Get returns a metadata value.
func (h Header) Get(key string) (string, bool) {
	v, ok := h.Metadata[key]
	return v, ok
}

// Clone returns a copy with its own metadata map.
func (h Header) Clone() Header {
	h.Metadata = maps.Clone(h.Metadata)
	return h
}
