package roster

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for roster files that are not CSV, XLSX or Parquet.
var ErrUnsupportedFormat = errors.New("unsupported roster format")

// Load reads a roster file, choosing the decoder from its extension.
func Load(path string) ([]Record, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	recs, err := Parse(filepath.Base(path), fp)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return recs, nil
}

// Parse decodes a roster from r. The name is only used for its extension.
func Parse(name string, r io.Reader) ([]Record, error) {
	var (
		rows [][]string
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".csv", ".txt":
		rows, err = readCSV(r)
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(r)
	case ".parquet":
		rows, err = readParquet(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("roster %s has no header", name)
	}
	return FromRows(rows[0], rows[1:]), nil
}

// FromRows maps raw table rows to records using the header heuristics of MatchColumns.
func FromRows(header []string, rows [][]string) []Record {
	cols := MatchColumns(header)

	get := func(row []string, idx int) string {
		if idx >= 0 && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, Record{
			Identifier: get(row, cols.Identifier),
			FirstName:  get(row, cols.FirstName),
			LastName:   get(row, cols.LastName),
		})
	}
	return out
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	// spreadsheets exported as UTF-8 CSV often carry a BOM
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

// readXLSX reads the first sheet of the workbook.
func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// readParquet reads a flat parquet file; leaf column paths become the header.
func readParquet(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	pf, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	columns := pf.Schema().Columns()
	header := make([]string, len(columns))
	for i, path := range columns {
		header[i] = strings.Join(path, ".")
	}
	rows := [][]string{header}

	reader := parquet.NewReader(pf)
	defer reader.Close()

	buf := make([]parquet.Row, 128)
	for {
		n, err := reader.ReadRows(buf)
		for _, row := range buf[:n] {
			cells := make([]string, len(columns))
			for _, v := range row {
				c := v.Column()
				if c < 0 || c >= len(cells) || v.IsNull() {
					continue
				}
				cells[c] = v.String()
			}
			rows = append(rows, cells)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read parquet rows: %w", err)
		}
		if n == 0 {
			break
		}
	}
	return rows, nil
}
