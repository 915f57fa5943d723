package report

import (
	"fmt"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/dd0wney/cluso-conductance/pkg/sweep"
)

const parquetWriters int64 = 4

// CommunityRow is one community of one sweep point, as stored in Parquet
type CommunityRow struct {
	RunID       string  `parquet:"name=run_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Param       float64 `parquet:"name=param, type=DOUBLE"`
	Position    int32   `parquet:"name=position, type=INT32"`
	Label       string  `parquet:"name=label, type=BYTE_ARRAY, convertedtype=UTF8"`
	Size        int64   `parquet:"name=size, type=INT64"`
	Conductance float64 `parquet:"name=conductance, type=DOUBLE"`
	Mean        float64 `parquet:"name=mean, type=DOUBLE"`
	StdDev      float64 `parquet:"name=std_dev, type=DOUBLE"`
}

// Rows flattens res into one row per community
func Rows(res *sweep.Result) []CommunityRow {
	var rows []CommunityRow
	for _, p := range res.Points {
		for i, c := range p.Communities {
			rows = append(rows, CommunityRow{
				RunID:       res.RunID,
				Param:       p.Param,
				Position:    int32(i),
				Label:       c.Label,
				Size:        int64(c.Size),
				Conductance: c.Conductance,
				Mean:        p.Mean,
				StdDev:      p.StdDev,
			})
		}
	}
	return rows
}

// WriteParquet writes one row per community to a local Parquet file
func WriteParquet(path string, res *sweep.Result) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("create parquet file: %w", err)
	}
	defer fw.Close()

	pw, err := writer.NewParquetWriter(fw, new(CommunityRow), parquetWriters)
	if err != nil {
		return fmt.Errorf("create parquet writer: %w", err)
	}
	for _, row := range Rows(res) {
		if err := pw.Write(row); err != nil {
			return fmt.Errorf("write parquet row: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("finish parquet file: %w", err)
	}
	return nil
}
