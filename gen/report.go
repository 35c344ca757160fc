package gen

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/ddlgen/ddlgen/gen/drivers"
)

const summaryTemplate = `{{- range .Databases }}
{{ .Name }} ({{ len .Tables }} {{ if eq (len .Tables) 1 }}table{{ else }}tables{{ end }})
{{- range .Tables }}
  {{ .Name }}{{ if .IsJoinTable }} [join]{{ end }}
    columns: {{ join ", " (columnNames .Columns) }}
{{- if .PrimaryKey }}
    primary key: {{ join ", " .PrimaryKey }}
{{- end }}
{{- range .ForeignKeys }}
    {{ .Column }} -> {{ .ForeignDatabase }}.{{ .ForeignTable }}.{{ .ForeignColumn }}
{{- end }}
{{- range .Indexes }}
    {{ ternary "unique" "index" .Unique }} {{ .Name }} ({{ join ", " .Columns }})
{{- end }}
{{- if .ReferencedBy }}
    referenced by: {{ join ", " .ReferencedBy }}
{{- end }}
{{- end }}
{{- end }}
`

// Summary renders a plain text overview of the schema, one block per
// database listing its tables with their keys and indexes
func Summary(schema *drivers.Schema) (string, error) {
	funcs := sprig.TxtFuncMap()
	funcs["columnNames"] = func(cols []drivers.ColumnInfo) []string {
		names := make([]string, len(cols))
		for i, c := range cols {
			names[i] = c.Name
		}
		return names
	}

	tpl, err := template.New("summary").Funcs(funcs).Parse(summaryTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing summary template: %w", err)
	}

	var sb strings.Builder
	if err := tpl.Execute(&sb, schema.Describe()); err != nil {
		return "", fmt.Errorf("executing summary template: %w", err)
	}

	return strings.TrimLeft(sb.String(), "\n"), nil
}
