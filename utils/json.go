package utils

import (
	"encoding/json"
	"io"
)

// Unmarshal JSON to generic struct
func UnmarshalFromJSON[T any](data []byte, output *T) error {
	return json.Unmarshal(data, output)
}

// WriteIndentedJSON pretty-prints input to w.
func WriteIndentedJSON[T any](w io.Writer, input T) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(input)
}
