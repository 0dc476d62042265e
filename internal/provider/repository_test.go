package provider

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// selectList splits a SELECT column list on commas outside parentheses.
func selectList(cols string) []string {
	var (
		out   []string
		depth int
		start int
	)
	for i, c := range cols {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(cols[start:i]))
				start = i + 1
			}
		}
	}
	return append(out, strings.TrimSpace(cols[start:]))
}

func TestProviderColumnsReadNullTextAsEmpty(t *testing.T) {
	cols := selectList(providerColumns)
	require.Len(t, cols, 12)

	for i, name := range map[int]string{
		3: "logo",
		4: "custom_domain",
		5: "custom_domain_type",
		8: "cname_target",
		9: "txt_record_name",
	} {
		assert.Equal(t, fmt.Sprintf("COALESCE(%s, '')", name), cols[i])
	}
}

// valuesRow scans a fixed list of values into the destinations.
type valuesRow []any

func (r valuesRow) Scan(dest ...any) error {
	if len(dest) != len(r) {
		return fmt.Errorf("scan: %d destinations for %d columns", len(dest), len(r))
	}
	for i, v := range r {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *bool:
			*d = v.(bool)
		case *time.Time:
			*d = v.(time.Time)
		default:
			return fmt.Errorf("scan: unsupported destination %T", d)
		}
	}
	return nil
}

func TestScanProviderMatchesColumns(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	row := valuesRow{
		"p1", "OK Mentor", "okmentor",
		"", "book.okmentor.com", "",
		false, true,
		"", "", created, created,
	}
	require.Len(t, row, len(selectList(providerColumns)))

	p, err := scanProvider(row)
	require.NoError(t, err)

	assert.Equal(t, "okmentor", p.Slug)
	assert.Empty(t, p.Logo)
	assert.Equal(t, "book.okmentor.com", p.CustomDomain)
	assert.Empty(t, p.CNAMETarget)
	assert.True(t, p.SSLEnabled)
	assert.Equal(t, created, p.UpdatedAt)
}
