package domains

import (
	"io"
	"strings"
	"text/template"
)

var funcs = template.FuncMap{
	"join": strings.Join,
	"rule": func() string { return strings.Repeat("=", 70) },
	"line": func() string { return strings.Repeat("-", 70) },
}

var instructionsTmpl = template.Must(template.New("instructions").Funcs(funcs).Parse(`
{{rule}}
CNAME CONFIGURATION FOR SERVICE PROVIDERS
{{rule}}
{{if not .Results}}
No providers with custom domains found
{{else}}
Found {{len .Results}} provider(s) with custom domains
{{range .Results}}
Provider: {{.Provider.BusinessName}}
Custom Domain: {{.Provider.CustomDomain}}
Domain Type: {{.Provider.CustomDomainType}}
Domain Verified: {{.Provider.DomainVerified}}
SSL Enabled: {{.Provider.SSLEnabled}}
{{if .Err}}
Skipped: {{.Err}}
{{else}}
REQUIRED DNS RECORDS:
{{line}}

1. CNAME RECORD:
   Name/Host: {{.Provider.CustomDomain}}
   Type: CNAME
   Value/Target: {{.Targets.CNAMETarget}}
   TTL: {{$.TTL}}

2. TXT RECORD (domain verification):
   Name: {{.Targets.TXTRecordName}}.{{.Provider.CustomDomain}}
   Type: TXT
   Value: (unique code provided in dashboard)
   TTL: {{$.TTL}}
{{if .Updated}}
{{if $.Applied}}Updated provider record{{else}}Pending update{{end}}: {{join .Updated ", "}}
{{else}}
DNS targets already up to date
{{end}}
SETUP INSTRUCTIONS:
{{line}}
1. Log in to your domain registrar
2. Open the DNS settings
3. Remove conflicting A/ALIAS records for the host if present
4. Add the CNAME record above pointing to your unique target
5. Add the TXT record for verification
6. Wait for DNS propagation (5-30 minutes)
7. SSL is provisioned automatically once verification succeeds
{{end}}
{{rule}}
{{end}}{{end}}
CNAME TARGET FORMAT: <provider-slug>.{{.Base}}
Example: ramesh-salon.{{.Base}}
{{rule}}
`))

// Sheet holds the settings shared by every entry of the instructions.
type Sheet struct {
	Base    string
	TTL     int
	Applied bool // whether Updated fields were written to the database
}

// WriteInstructions renders the DNS record sheet for results.
func WriteInstructions(w io.Writer, results []Result, sheet Sheet) error {
	return instructionsTmpl.Execute(w, struct {
		Sheet
		Results []Result
	}{sheet, results})
}
