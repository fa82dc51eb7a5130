package backtest

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

// WriteEquityCSV writes the per-bar ledger for spreadsheet inspection.
func WriteEquityCSV(path string, rows []EquityRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"index",
		"timestamp",
		"close",
		"signal",
		"cash",
		"shares",
		"equity",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		row := []string{
			strconv.Itoa(r.Index),
			r.Timestamp.Format(time.RFC3339),
			fmtFloat(r.Close),
			string(r.Signal),
			fmtFloat(r.Cash),
			strconv.FormatInt(r.Shares, 10),
			fmtFloat(r.Equity),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 4, 64)
}
