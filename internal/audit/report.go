package audit

import (
	"fmt"
	"io"
	"strings"
)

var rule = strings.Repeat("=", 60)

// WriteReport prints the audit in a human-readable form.
func WriteReport(w io.Writer, r *Report) error {
	var b strings.Builder

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "Cloudinary image verification")
	fmt.Fprintln(&b, rule)

	fmt.Fprintf(&b, "\n1. Images hosted under %q\n", r.Prefix)
	if r.ListErr != nil {
		fmt.Fprintf(&b, "   Error listing hosted images: %v\n", r.ListErr)
	}
	for _, a := range r.Hosted {
		fmt.Fprintf(&b, "   Found: %s\n", a.PublicID)
	}
	fmt.Fprintf(&b, "\n   Total hosted images: %d\n", len(r.Hosted))

	fmt.Fprintln(&b, "\n2. Logos referenced in the database")
	fmt.Fprintf(&b, "   Providers with logos: %d\n", len(r.Findings))
	for _, f := range r.Findings {
		fmt.Fprintf(&b, "\n   Provider: %s\n", f.Provider.BusinessName)
		fmt.Fprintf(&b, "   Logo field value: %s\n", f.Provider.Logo)
		if f.Found {
			fmt.Fprintln(&b, "   [OK] Image exists in Cloudinary")
			fmt.Fprintf(&b, "   URL: %s\n", f.URL)
			continue
		}
		fmt.Fprintf(&b, "   [WARNING] %s not found in Cloudinary\n", f.PublicID)
		if len(f.Similar) == 0 {
			fmt.Fprintln(&b, "   [ERROR] No similar images found, re-upload the logo for this provider")
			continue
		}
		for _, id := range f.Similar {
			fmt.Fprintf(&b, "   [FOUND] Similar image: %s\n", id)
		}
	}

	fmt.Fprintf(&b, "\n%s\nSummary: %d ok, %d missing\n", rule, len(r.Findings)-len(r.Missing()), len(r.Missing()))
	if len(r.Hosted) == 0 && r.ListErr == nil {
		fmt.Fprintln(&b, "No images are hosted yet; re-uploading a logo stores it in Cloudinary.")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteInspection prints how one logo reference resolves.
func WriteInspection(w io.Writer, in *Inspection) error {
	var b strings.Builder

	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Provider: %s (%s)\n", in.Provider.BusinessName, in.Provider.ID)
	fmt.Fprintln(&b, rule)
	if in.Provider.Logo == "" {
		fmt.Fprintln(&b, "No logo stored for this provider.")
		_, err := io.WriteString(w, b.String())
		return err
	}

	fmt.Fprintf(&b, "Database value: %s\n", in.Provider.Logo)
	fmt.Fprintf(&b, "Public id:      %s\n", in.PublicID)
	fmt.Fprintf(&b, "Hosted:         %s", in.Probe.Presence)
	if in.Probe.Err != nil {
		fmt.Fprintf(&b, " (%v)", in.Probe.Err)
	}
	if in.Probe.Bytes > 0 {
		fmt.Fprintf(&b, ", %d bytes", in.Probe.Bytes)
	}
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "\nGenerated URL:\n%s\n", in.URL)
	fmt.Fprintf(&b, "\nUntransformed URL:\n%s\n", in.OriginalURL)

	_, err := io.WriteString(w, b.String())
	return err
}
