package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"TrendCast/internal/model"
)

const dateLayout = "2006-01-02"

// BarsPath returns the CSV location for a symbol's historical bars.
func BarsPath(dir, symbol string) string {
	return filepath.Join(dir, strings.ToUpper(symbol)+"_historical_data.csv")
}

// ForecastPath returns the CSV location for a symbol's forecast.
func ForecastPath(dir, symbol string) string {
	return filepath.Join(dir, strings.ToUpper(symbol)+"_forecast.csv")
}

// WriteBarsCSV writes the series as Date,Open,High,Low,Close,Volume, creating dir if needed.
func WriteBarsCSV(dir string, series model.Series) (string, error) {
	rows := make([][]string, 0, len(series.Bars)+1)
	rows = append(rows, []string{"Date", "Open", "High", "Low", "Close", "Volume"})
	for _, b := range series.Bars {
		rows = append(rows, []string{
			b.Date.Format(dateLayout),
			formatFloat(b.Open),
			formatFloat(b.High),
			formatFloat(b.Low),
			formatFloat(b.Close),
			strconv.FormatInt(b.Volume, 10),
		})
	}
	path := BarsPath(dir, series.Symbol)
	return path, writeRows(path, rows)
}

// WriteForecastCSV writes the projected points as Date,Prediction,Lower,Upper.
func WriteForecastCSV(dir string, f *model.Forecast) (string, error) {
	rows := make([][]string, 0, len(f.Points)+1)
	rows = append(rows, []string{"Date", "Prediction", "Lower", "Upper"})
	for _, p := range f.Points {
		rows = append(rows, []string{
			p.Date.Format(dateLayout),
			formatFloat(p.Predicted),
			formatFloat(p.Lower),
			formatFloat(p.Upper),
		})
	}
	path := ForecastPath(dir, f.Symbol)
	return path, writeRows(path, rows)
}

func writeRows(path string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	w := csv.NewWriter(file)
	if err := w.WriteAll(rows); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("write csv: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	return os.Rename(tmp, path)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
