package data

import (
	"encoding/json"
	"fmt"
	"os"

	"nifty-signals/internal/model"
)

// BarsFile is the JSON fixture shape for offline runs and backtests.
type BarsFile struct {
	Symbol string           `json:"symbol"`
	Data   []model.PriceBar `json:"data"`
}

// LoadBarsJSON reads a bar fixture from disk and validates the series.
func LoadBarsJSON(path string) (*BarsFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f BarsFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	if err := model.Series(f.Data).Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &f, nil
}
