package data

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"

	"nifty-signals/internal/model"
)

// archiveRow is the parquet on-disk shape: timestamps as Unix milliseconds.
type archiveRow struct {
	Timestamp int64   `parquet:"t"`
	Open      float64 `parquet:"o"`
	High      float64 `parquet:"h"`
	Low       float64 `parquet:"l"`
	Close     float64 `parquet:"c"`
	Volume    int64   `parquet:"v"`
}

// Archive persists daily bars as one parquet file per symbol, so backtests
// can replay without hitting the API.
type Archive struct {
	Dir string
}

func NewArchive(dir string) *Archive {
	return &Archive{Dir: dir}
}

func (a *Archive) path(symbol string) string {
	return filepath.Join(a.Dir, symbol+".parquet")
}

// SaveBars writes the series for a symbol, replacing any previous file.
func (a *Archive) SaveBars(symbol string, series model.Series) error {
	if err := series.Validate(); err != nil {
		return fmt.Errorf("archive %s: %w", symbol, err)
	}
	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return err
	}

	rows := make([]archiveRow, len(series))
	for i, b := range series {
		rows[i] = archiveRow{
			Timestamp: b.Timestamp.UnixMilli(),
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
		}
	}
	return parquet.WriteFile(a.path(symbol), rows)
}

// DailyBars implements Provider: reads the archived series for a symbol.
func (a *Archive) DailyBars(symbol string) (model.Series, error) {
	rows, err := parquet.ReadFile[archiveRow](a.path(symbol))
	if err != nil {
		return nil, fmt.Errorf("archive %s: %w", symbol, err)
	}

	series := make(model.Series, len(rows))
	for i, r := range rows {
		series[i] = model.PriceBar{
			Timestamp: time.UnixMilli(r.Timestamp).UTC(),
			Open:      r.Open,
			High:      r.High,
			Low:       r.Low,
			Close:     r.Close,
			Volume:    r.Volume,
		}
	}
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("archive %s: %w", symbol, err)
	}
	return series, nil
}
