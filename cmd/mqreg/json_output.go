package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"mqreg/internal/mqueue"
	"mqreg/internal/ops"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type queueJSON struct {
	Name       string             `json:"name"`
	Attributes *mqueue.Attributes `json:"attributes,omitempty"`
	Mode       string             `json:"mode,omitempty"`
	Error      string             `json:"error,omitempty"`
}

func queueRecords(results []ops.InfoResult) []queueJSON {
	records := make([]queueJSON, 0, len(results))
	for _, result := range results {
		record := queueJSON{Name: result.Name}
		if result.Err != nil {
			record.Error = result.Err.Error()
		} else {
			attrs := result.Attributes
			record.Attributes = &attrs
			record.Mode = attrs.Mode()
		}
		records = append(records, record)
	}
	return records
}
