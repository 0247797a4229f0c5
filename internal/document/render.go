package document

import (
	"encoding/json"
	"fmt"

	"github.com/ginjaninja78/salesdocs/internal/types"
	"github.com/ginjaninja78/salesdocs/internal/xlsxwriter"
	"github.com/ginjaninja78/salesdocs/internal/xmlwriter"
)

// Render produces one rendering of a document: "xlsx", "xml" or "json".
// The JSON rendering is the stored content.
func Render(format string, v types.Rendering) ([]byte, error) {
	switch format {
	case "xlsx":
		return xlsxwriter.Render(v)
	case "xml":
		return xmlwriter.Generate(v)
	case "json":
		data, err := json.MarshalIndent(v.Document.Content, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
