package output

import (
	"encoding/json"
	"fmt"
	"os"
)

// JSONResult is the envelope every command writes in JSON mode.
type JSONResult struct {
	Status string      `json:"status"` // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// JSON writes an "ok" envelope carrying data to stdout.
func JSON(data interface{}) {
	writeJSON(JSONResult{Status: "ok", Data: data})
}

// JSONError writes an "error" envelope to stdout.
func JSONError(err error) {
	writeJSON(JSONResult{Status: "error", Error: err.Error()})
}

// JSONFailure writes an "error" envelope that still carries a payload, used
// when a batch finished with some failed items.
func JSONFailure(data interface{}, msg string) {
	writeJSON(JSONResult{Status: "error", Data: data, Error: msg})
}

// jsonWritten records whether an envelope went out since Init.
var jsonWritten bool

// JSONWritten reports whether a command already wrote its envelope.
func JSONWritten() bool {
	return jsonWritten
}

func writeJSON(result JSONResult) {
	jsonWritten = true
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "error encoding JSON output: %v\n", err)
	}
}
