package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"

	"github.com/dd0wney/cluso-conductance/pkg/sweep"
)

func sampleResult() *sweep.Result {
	return &sweep.Result{
		RunID:     "4a1c7f0e-93f4-4d0b-a0a5-6f1f3c1f9a21",
		Attribute: "Modularity Class",
		Points: []sweep.Point{
			{
				Param: 10, Path: "mmgephi graphs/mmgephi_10.graphml", Nodes: 10, Edges: 21, Modularity: 0.45,
				Communities: []sweep.CommunityScore{
					{Label: "0", Size: 5, Conductance: 0.1},
					{Label: "1", Size: 5, Conductance: 0.3},
				},
				Summary: sweep.Summary{Mean: 0.2, StdDev: 0.1},
			},
			{
				Param: 20, Path: "mmgephi graphs/mmgephi_20.graphml", Nodes: 6, Edges: 5, Modularity: 0.3,
				Communities: []sweep.CommunityScore{
					{Label: "0", Size: 2, Conductance: 0.25},
					{Label: "1", Size: 2, Conductance: 0.5},
					{Label: "2", Size: 2, Conductance: 0.25},
				},
				Summary: sweep.Summary{Mean: 1.0 / 3, StdDev: 0.118},
			},
		},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleResult()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "Modularity Class", decoded["attribute"])

	points := decoded["points"].([]any)
	require.Len(t, points, 2)
	first := points[0].(map[string]any)
	assert.Equal(t, 0.2, first["mean"], "summary fields are inlined into the point")
	assert.Len(t, first["communities"], 2)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleResult()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, []string{"10", "mmgephi graphs/mmgephi_10.graphml", "2", "0.2", "0.1", "0.45"}, records[1])
	assert.Equal(t, "3", records[2][2])
}

func TestRows(t *testing.T) {
	rows := Rows(sampleResult())
	require.Len(t, rows, 5)
	assert.Equal(t, CommunityRow{
		RunID: "4a1c7f0e-93f4-4d0b-a0a5-6f1f3c1f9a21", Param: 20, Position: 1, Label: "1",
		Size: 2, Conductance: 0.5, Mean: 1.0 / 3, StdDev: 0.118,
	}, rows[3])
}

func TestWriteParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.parquet")
	require.NoError(t, WriteParquet(path, sampleResult()))

	fr, err := local.NewLocalFileReader(path)
	require.NoError(t, err)
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(CommunityRow), 1)
	require.NoError(t, err)
	defer pr.ReadStop()

	require.Equal(t, int64(5), pr.GetNumRows())
	rows := make([]CommunityRow, 5)
	require.NoError(t, pr.Read(&rows))
	assert.Equal(t, Rows(sampleResult()), rows)
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(sampleResult())

	assert.Contains(t, out, "Modularity Class")
	assert.Contains(t, out, "modularity")
	assert.Contains(t, out, "0.2000")
	assert.Contains(t, out, "0.3333")
	assert.Contains(t, out, "20")
}

// recordingExecer captures statements instead of running them
type recordingExecer struct {
	statements []string
	args       [][]any
	failAt     int
}

func (r *recordingExecer) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	r.statements = append(r.statements, sql)
	r.args = append(r.args, args)
	if r.failAt > 0 && len(r.statements) == r.failAt {
		return pgconn.CommandTag{}, errors.New("connection reset")
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func TestPostgresSink_Save(t *testing.T) {
	db := &recordingExecer{}
	sink := NewPostgresSinkWithExecer(db)
	require.NoError(t, sink.Save(context.Background(), sampleResult()))

	// schema + run + 2 points + 5 communities
	require.Len(t, db.statements, 9)
	assert.Contains(t, db.statements[0], "CREATE TABLE IF NOT EXISTS sweep_runs")
	assert.True(t, strings.HasPrefix(db.statements[1], "INSERT INTO sweep_runs"))
	assert.Equal(t, "4a1c7f0e-93f4-4d0b-a0a5-6f1f3c1f9a21", db.args[1][0])
	assert.True(t, strings.HasPrefix(db.statements[2], "INSERT INTO sweep_points"))
	assert.Equal(t, 10.0, db.args[2][1])
	assert.True(t, strings.HasPrefix(db.statements[3], "INSERT INTO sweep_communities"))
	assert.Equal(t, []any{"4a1c7f0e-93f4-4d0b-a0a5-6f1f3c1f9a21", 10.0, 0, "0", 5, 0.1}, db.args[3])
}

func TestPostgresSink_SaveError(t *testing.T) {
	db := &recordingExecer{failAt: 3}
	sink := NewPostgresSinkWithExecer(db)

	err := sink.Save(context.Background(), sampleResult())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert point 10")
	assert.Len(t, db.statements, 3, "save must stop at the first failure")
}
