package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/xuri/excelize/v2"
)

// Extensions lists the recognized file extensions in display order.
var Extensions = []string{".csv", ".tsv", ".json", ".jsonl", ".ndjson", ".parquet", ".xlsx", ".xls"}

// Supported reports whether the path has a recognized tabular extension.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Load reads a file into a Dataset, picking the parser by extension.
func Load(path string) (*Dataset, error) {
	path = expandHome(path)

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("file not found: %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadDelimited(path, ',')
	case ".tsv":
		return loadDelimited(path, '\t')
	case ".json":
		return loadJSON(path)
	case ".jsonl", ".ndjson":
		return loadJSONLines(path)
	case ".parquet":
		return loadParquet(path)
	case ".xlsx", ".xls":
		return loadExcel(path)
	default:
		return nil, fmt.Errorf("unsupported file type %q, supported: %s",
			filepath.Ext(path), strings.Join(Extensions, ", "))
	}
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

func loadDelimited(path string, comma rune) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = comma
	r.FieldsPerRecord = -1 // ragged rows padded with nulls

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
		rows = append(rows, record)
	}
	return fromRows(path, header, rows), nil
}

func loadJSON(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: expected a JSON array of objects: %w", filepath.Base(path), err)
	}
	return fromRecords(path, records), nil
}

func loadJSONLines(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []map[string]any
	dec := json.NewDecoder(f)
	for {
		var rec map[string]any
		if err := dec.Decode(&rec); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
		records = append(records, rec)
	}
	return fromRecords(path, records), nil
}

// fromRecords converts decoded JSON objects to a dataset. Column order
// is the sorted union of keys — JSON objects carry no stable order.
func fromRecords(source string, records []map[string]any) *Dataset {
	keySet := make(map[string]struct{})
	for _, rec := range records {
		for k := range rec {
			keySet[k] = struct{}{}
		}
	}
	header := make([]string, 0, len(keySet))
	for k := range keySet {
		header = append(header, k)
	}
	sort.Strings(header)

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, len(header))
		for i, k := range header {
			row[i] = jsonCell(rec[k])
		}
		rows = append(rows, row)
	}
	return fromRows(source, header, rows)
}

func jsonCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}

func loadParquet(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}

	pf, err := parquet.OpenFile(f, st.Size())
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	fields := pf.Schema().Fields()
	header := make([]string, len(fields))
	for i, field := range fields {
		header[i] = field.Name()
	}

	var rows [][]string
	for _, rg := range pf.RowGroups() {
		rowReader := rg.Rows()
		buf := make([]parquet.Row, 128)
		for {
			n, err := rowReader.ReadRows(buf)
			for _, pr := range buf[:n] {
				row := make([]string, len(header))
				for _, val := range pr {
					ci := val.Column()
					if ci < 0 || ci >= len(row) || val.IsNull() {
						continue
					}
					row[ci] = val.String()
				}
				rows = append(rows, row)
			}
			if err == io.EOF {
				break
			}
			if err != nil {
				rowReader.Close()
				return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
			}
		}
		rowReader.Close()
	}
	return fromRows(path, header, rows), nil
}

func loadExcel(path string) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets in %s", filepath.Base(path))
	}

	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("empty sheet in %s", filepath.Base(path))
	}
	return fromRows(path, all[0], all[1:]), nil
}
