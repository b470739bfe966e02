// Package ingestion loads daily-bar and dividend CSV files into the stores.
package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"dividend-recovery-lab/internal/domain"
)

const dateLayout = "2006-01-02"

var barsHeader = []string{"date", "open", "high", "low", "close", "volume"}

var dividendsHeader = []string{"ex_date", "amount"}

// ParseBarsCSV parses daily OHLCV bars from r. Expected header:
// date,open,high,low,close,volume. Dates use the 2006-01-02 layout and
// are normalized to UTC midnight.
func ParseBarsCSV(r io.Reader, symbol string) ([]*domain.PricePoint, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read bars header: %w", err)
	}
	if err := checkHeader(header, barsHeader); err != nil {
		return nil, err
	}

	var bars []*domain.PricePoint
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read bars line %d: %w", line, err)
		}

		date, err := time.Parse(dateLayout, record[0])
		if err != nil {
			return nil, fmt.Errorf("bars line %d: parse date %q: %w", line, record[0], err)
		}

		fields := make([]float64, 5)
		for i, name := range barsHeader[1:] {
			v, err := strconv.ParseFloat(record[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("bars line %d: parse %s %q: %w", line, name, record[i+1], err)
			}
			fields[i] = v
		}

		bars = append(bars, &domain.PricePoint{
			Symbol: symbol,
			Date:   domain.Day(date),
			Open:   fields[0],
			High:   fields[1],
			Low:    fields[2],
			Close:  fields[3],
			Volume: fields[4],
		})
	}

	return bars, nil
}

// ParseDividendsCSV parses dividend events from r. Expected header:
// ex_date,amount. Amounts must be positive.
func ParseDividendsCSV(r io.Reader, symbol string) ([]*domain.DividendEvent, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read dividends header: %w", err)
	}
	if err := checkHeader(header, dividendsHeader); err != nil {
		return nil, err
	}

	var events []*domain.DividendEvent
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dividends line %d: %w", line, err)
		}

		exDate, err := time.Parse(dateLayout, record[0])
		if err != nil {
			return nil, fmt.Errorf("dividends line %d: parse ex_date %q: %w", line, record[0], err)
		}

		amount, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("dividends line %d: parse amount %q: %w", line, record[1], err)
		}
		if amount <= 0 {
			return nil, fmt.Errorf("dividends line %d: non-positive amount %v", line, amount)
		}

		events = append(events, &domain.DividendEvent{
			Symbol: symbol,
			ExDate: domain.Day(exDate),
			Amount: amount,
		})
	}

	return events, nil
}

// LoadBarsFile parses bars from a CSV file on disk.
func LoadBarsFile(path, symbol string) ([]*domain.PricePoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bars file: %w", err)
	}
	defer f.Close()
	return ParseBarsCSV(f, symbol)
}

// LoadDividendsFile parses dividend events from a CSV file on disk.
func LoadDividendsFile(path, symbol string) ([]*domain.DividendEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dividends file: %w", err)
	}
	defer f.Close()
	return ParseDividendsCSV(f, symbol)
}

func checkHeader(got, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("expected header %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("expected header %v, got %v", want, got)
		}
	}
	return nil
}
