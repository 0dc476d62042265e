// Package storage maps application file references onto hosted image resources.
// The Cloudinary implementation stores images remotely and persists only a
// "{folder}/{identifier}" reference on the owning record.
package storage

import (
	"context"
	"io"
)

// Storage is the file-storage contract used by the persistence layer.
// Only Save reports remote failures; the other operations map them to the
// zero value of their result (see Probe for the distinction).
type Storage interface {
	// Save uploads content and returns the reference to persist.
	Save(ctx context.Context, name string, content io.Reader) (string, error)
	// Delete removes the hosted resource behind ref. It never fails.
	Delete(ctx context.Context, ref string)
	// Exists reports whether ref resolves to a hosted resource.
	Exists(ctx context.Context, ref string) bool
	// URL renders the display URL for ref, or "" when there is nothing to show.
	URL(ref string) string
	// Size returns the hosted byte size of ref, or 0.
	Size(ctx context.Context, ref string) int64
	// AvailableName returns a fresh identifier for name. maxLength is ignored.
	AvailableName(name string, maxLength int) string
}

// Presence is the outcome of a remote lookup.
type Presence int

const (
	// PresenceUnknown means the lookup failed for a reason other than not-found.
	PresenceUnknown Presence = iota
	// PresenceAbsent means the reference is empty or the remote has no such resource.
	PresenceAbsent
	// PresencePresent means the remote returned the resource.
	PresencePresent
)

func (p Presence) String() string {
	switch p {
	case PresenceAbsent:
		return "absent"
	case PresencePresent:
		return "present"
	default:
		return "unknown"
	}
}

// Probe is the result of looking up a reference without collapsing errors.
type Probe struct {
	Presence Presence
	Bytes    int64
	Err      error // set only when Presence is PresenceUnknown
}

// typedContent carries the media type declared by an upload alongside its bytes.
type typedContent struct {
	io.Reader
	contentType string
}

func (c typedContent) ContentType() string { return c.contentType }

// seekableContent is typedContent over a reader that can be rewound.
type seekableContent struct {
	typedContent
	seeker io.Seeker
}

func (c seekableContent) Seek(offset int64, whence int) (int64, error) {
	return c.seeker.Seek(offset, whence)
}

// WithContentType attaches a declared media type (e.g. from a multipart
// header) to r so that Save can prefer it over the file extension. The
// result is an io.Seeker only when r is.
func WithContentType(r io.Reader, contentType string) io.Reader {
	c := typedContent{Reader: r, contentType: contentType}
	if s, ok := r.(io.Seeker); ok {
		return seekableContent{typedContent: c, seeker: s}
	}
	return c
}
