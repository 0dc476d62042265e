package storage

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// uploadFormats is the allow-list of upload formats keyed by file extension.
var uploadFormats = map[string]string{
	"jpg":  "jpg",
	"jpeg": "jpg",
	"png":  "png",
	"gif":  "gif",
	"webp": "webp",
	"svg":  "svg",
}

var invalidIDChars = regexp.MustCompile(`[^a-z0-9_-]+`)

// randomSuffix returns 8 lowercase hex characters.
func randomSuffix() string {
	return uuid.NewString()[:8]
}

// sanitizeName lower-cases the base name of filename without its extension
// and collapses characters outside [a-z0-9_-] into single hyphens.
func sanitizeName(filename string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), `\`, "/"))
	if base == "." || base == "/" {
		base = ""
	}
	base = stripExt(base)
	base = strings.ToLower(base)
	base = invalidIDChars.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")
	if base == "" {
		base = "file"
	}
	return base
}

// uploadFormat picks the upload format: the declared media type's subtype
// wins when it is in the allow-list, otherwise the mapped file extension.
// An empty result lets the remote detect the format.
func uploadFormat(filename, contentType string) string {
	format := uploadFormats[strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))]

	if i := strings.LastIndex(contentType, "/"); i >= 0 {
		declared := strings.ToLower(strings.TrimSpace(contentType[i+1:]))
		if j := strings.IndexByte(declared, ';'); j >= 0 {
			declared = strings.TrimSpace(declared[:j])
		}
		if isAllowedFormat(declared) {
			format = declared
		}
	}
	return format
}

func isAllowedFormat(format string) bool {
	for _, v := range uploadFormats {
		if v == format {
			return true
		}
	}
	return false
}

// stripExt removes the extension of the last path element. Dot-files such as
// ".png" keep their name.
func stripExt(name string) string {
	ext := path.Ext(name)
	if ext == "" || ext == path.Base(name) {
		return name
	}
	return strings.TrimSuffix(name, ext)
}

// extractPublicID resolves a stored reference to a public id. References were
// written in three formats over time (bare filename, full hosted URL,
// "{folder}/{id}") and all of them must keep resolving. New writes only ever
// produce the last one; keep other legacy handling confined to this function.
func extractPublicID(ref, folder string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}

	if strings.HasPrefix(ref, folder+"/") {
		return stripExt(ref)
	}

	if isHostedURL(ref) {
		last := ref
		if u, err := url.Parse(ref); err == nil && u.Path != "" {
			last = u.Path
		}
		last = strings.TrimRight(last, "/")
		if i := strings.LastIndex(last, "/"); i >= 0 {
			last = last[i+1:]
		}
		last = stripExt(last)
		if last == "" {
			return ""
		}
		return folder + "/" + last
	}

	id := stripExt(ref)
	switch {
	case strings.Contains(id, "/") && !strings.HasPrefix(id, folder):
		// pre-existing nested path outside the folder
		return id
	case strings.HasPrefix(id, folder):
		return id
	default:
		return folder + "/" + id
	}
}

func isHostedURL(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "http://") ||
		strings.Contains(lower, "cloudinary.com")
}
