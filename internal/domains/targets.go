// Package domains computes the DNS records a provider must create to serve
// the booking site from a custom domain.
package domains

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidSlug is returned when a booking slug cannot form a DNS label.
var ErrInvalidSlug = errors.New("booking slug is not a valid DNS label")

// maxLabelLength is the longest DNS label allowed by RFC 1035.
const maxLabelLength = 63

var invalidLabelChars = regexp.MustCompile(`[^a-z0-9-]+`)

// Targets are the per-provider DNS names.
type Targets struct {
	CNAMETarget   string `json:"cnameTarget"`
	TXTRecordName string `json:"txtRecordName"`
}

// Namer derives DNS names from a provider's booking slug.
type Namer struct {
	Base      string // e.g. "nextslot.in"
	TXTPrefix string // e.g. "_nextslot-verify"
}

// Targets returns both DNS names for slug.
func (n Namer) Targets(slug string) (Targets, error) {
	cname, err := CNAMETarget(slug, n.Base)
	if err != nil {
		return Targets{}, err
	}
	txt, err := TXTRecordName(slug, n.TXTPrefix)
	if err != nil {
		return Targets{}, err
	}
	return Targets{CNAMETarget: cname, TXTRecordName: txt}, nil
}

// CNAMETarget returns "{slug}.{base}", e.g. "okmentor.nextslot.in".
func CNAMETarget(slug, base string) (string, error) {
	label, err := Label(slug)
	if err != nil {
		return "", err
	}
	base = strings.Trim(strings.ToLower(strings.TrimSpace(base)), ".")
	if base == "" {
		return label, nil
	}
	return label + "." + base, nil
}

// TXTRecordName returns the verification record label, "{prefix}-{slug}".
// It is created under the provider's custom domain.
func TXTRecordName(slug, prefix string) (string, error) {
	label, err := Label(slug)
	if err != nil {
		return "", err
	}
	prefix = strings.Trim(strings.TrimSpace(prefix), ".-")
	if prefix == "" {
		return label, nil
	}
	name := prefix + "-" + label
	if len(name) > maxLabelLength {
		name = strings.TrimRight(name[:maxLabelLength], "-")
	}
	return name, nil
}

// Label normalizes a booking slug to a DNS label: lower-case, runs of
// characters outside [a-z0-9-] become "-", no leading or trailing hyphen.
func Label(slug string) (string, error) {
	label := strings.ToLower(strings.TrimSpace(slug))
	label = invalidLabelChars.ReplaceAllString(label, "-")
	label = strings.Trim(label, "-")
	if label == "" || len(label) > maxLabelLength {
		return "", ErrInvalidSlug
	}
	return label, nil
}
