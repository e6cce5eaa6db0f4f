package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatHTML  Format = "html"
)

// StructuredFormats are accepted by every listing command.
var StructuredFormats = []Format{FormatTable, FormatJSON, FormatYAML}

// ParseFormat parses v, which must be one of allowed. With no allowed formats
// it accepts StructuredFormats. An empty value means table.
func ParseFormat(v string, allowed ...Format) (Format, error) {
	if len(allowed) == 0 {
		allowed = StructuredFormats
	}
	want := Format(strings.ToLower(strings.TrimSpace(v)))
	if want == "" {
		want = FormatTable
	}
	names := make([]string, 0, len(allowed))
	for _, f := range allowed {
		if f == want {
			return f, nil
		}
		names = append(names, string(f))
	}
	return "", fmt.Errorf("invalid output format %q (expected %s)", v, strings.Join(names, ", "))
}

func WriteStructured(w io.Writer, format Format, payload any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(payload); err != nil {
			return fmt.Errorf("encode json output: %w", err)
		}
		return nil
	case FormatYAML:
		data, err := yaml.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode yaml output: %w", err)
		}
		if len(data) == 0 || data[len(data)-1] != '\n' {
			data = append(data, '\n')
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("structured output is only supported for json/yaml")
	}
}
