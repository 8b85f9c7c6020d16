// Package export writes the cross-route training report consumed by the
// dashboard and ops tooling.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/sekka-mobility/forecast/core/evaluate"
)

// WriteJSON writes the training results to w in JSON format.
func WriteJSON(w io.Writer, results []evaluate.Result) error {
	type row struct {
		RouteID   string  `json:"route_id"`
		MAE       float64 `json:"mae"`
		RMSE      float64 `json:"rmse"`
		TrainRows int     `json:"train_rows"`
		TestRows  int     `json:"test_rows"`
		Error     string  `json:"error,omitempty"`
	}
	rows := make([]row, 0, len(results))
	for _, r := range results {
		out := row{RouteID: r.RouteID}
		if r.Err != nil {
			out.Error = r.Err.Error()
		} else {
			out.MAE = r.Report.MAE
			out.RMSE = r.Report.RMSE
			out.TrainRows = r.Report.TrainRows
			out.TestRows = r.Report.TestRows
		}
		rows = append(rows, out)
	}
	enc := json.NewEncoder(w)
	return enc.Encode(rows)
}

// WriteCSV writes the training report to w, one row per route. Failed routes
// keep their row with the error in the last column.
func WriteCSV(w io.Writer, results []evaluate.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"route_id", "mae", "rmse", "train_rows", "test_rows", "error"}); err != nil {
		return err
	}
	for _, r := range results {
		rec := []string{r.RouteID, "", "", "", "", ""}
		if r.Err != nil {
			rec[5] = r.Err.Error()
		} else {
			rec[1] = strconv.FormatFloat(r.Report.MAE, 'f', 4, 64)
			rec[2] = strconv.FormatFloat(r.Report.RMSE, 'f', 4, 64)
			rec[3] = strconv.Itoa(r.Report.TrainRows)
			rec[4] = strconv.Itoa(r.Report.TestRows)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
