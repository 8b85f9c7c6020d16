package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/sekka-mobility/forecast/core/evaluate"
	"github.com/sekka-mobility/forecast/core/model"
)

func sampleResults() []evaluate.Result {
	return []evaluate.Result{
		{
			RouteID: "R-1001",
			Report:  model.EvaluationReport{RouteID: "R-1001", MAE: 0.42, RMSE: 0.61, TrainRows: 16000, TestRows: 720},
		},
		{
			RouteID: "R-1002",
			Err:     errors.New("route R-1002: 12 hourly observations, need at least 720"),
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleResults()); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header plus 2 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "route_id,mae,rmse") {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "0.4200") || !strings.Contains(lines[1], "0.6100") {
		t.Fatalf("metrics missing from row: %s", lines[1])
	}
	if !strings.Contains(lines[2], "hourly observations") {
		t.Fatalf("failure reason missing from row: %s", lines[2])
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleResults()); err != nil {
		t.Fatalf("write: %v", err)
	}
	var rows []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0]["route_id"] != "R-1001" {
		t.Fatalf("unexpected first row: %v", rows[0])
	}
	if _, ok := rows[1]["error"]; !ok {
		t.Fatal("failed route should carry its error")
	}
}
