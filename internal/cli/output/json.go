package output

import (
	"encoding/json"
	"io"
)

// jsonIndent is the indentation used for all JSON output.
const jsonIndent = "  "

// JSONFormatter formats data as JSON.
type JSONFormatter struct{}

// Format formats data as indented JSON.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	return encodeJSON(w, data)
}

// encodeJSON writes data as indented JSON. Shared with the table
// formatter's fallback path so both emit the same shape.
func encodeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", jsonIndent)
	return encoder.Encode(data)
}
