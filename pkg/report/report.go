// Package report writes finished sweep results to files, terminals and
// databases.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/dd0wney/cluso-conductance/pkg/sweep"
)

// WriteJSON writes the full result, per-community scores included
func WriteJSON(w io.Writer, res *sweep.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

var csvHeader = []string{"param", "path", "communities", "mean", "std_dev", "modularity"}

// WriteCSV writes one row per sweep parameter
func WriteCSV(w io.Writer, res *sweep.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	for _, p := range res.Points {
		row := []string{
			formatFloat(p.Param),
			p.Path,
			strconv.Itoa(len(p.Communities)),
			formatFloat(p.Mean),
			formatFloat(p.StdDev),
			formatFloat(p.Modularity),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
