// Package tables serializes generator output as delimited files with a
// header row, and reads them back.
package tables

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"

	"github.com/dd0wney/cluso-supplygen/pkg/logging"
)

// SnappySuffix marks files written through snappy's framed stream format.
const SnappySuffix = ".sz"

// Record is one row of a table with a fixed column set.
type Record interface {
	Columns() []string
	Row() []string
}

// Recorder observes table writes. *metrics.Registry satisfies it.
type Recorder interface {
	RecordTableWritten(status string, bytes int64)
}

// Options controls how tables are written.
type Options struct {
	// Compress writes snappy-framed files with SnappySuffix appended.
	Compress bool
	Logger   logging.Logger
	Recorder Recorder
}

func (o Options) logger() logging.Logger {
	if o.Logger == nil {
		return logging.NewNopLogger()
	}
	return o.Logger
}

// FileInfo describes a written table.
type FileInfo struct {
	Table   string `json:"table"`
	Path    string `json:"path"`
	Rows    int    `json:"rows"`
	Bytes   int64  `json:"bytes"`
	Skipped bool   `json:"skipped,omitempty"`
}

// Errors returned by the readers.
var (
	ErrMissingColumn = errors.New("missing column")
	ErrUnknownColumn = errors.New("unknown column")
	ErrEmptyFile     = errors.New("file has no header")
)

// WriteTable writes records to path with a header row. columns selects
// and orders the output columns; nil uses the record type's columns.
// An empty records slice is logged and skipped without creating a file.
func WriteTable[T Record](records []T, path string, columns []string, opts Options) (FileInfo, error) {
	log := opts.logger()
	if opts.Compress && !strings.HasSuffix(path, SnappySuffix) {
		path += SnappySuffix
	}
	info := FileInfo{Path: path, Rows: len(records)}

	if len(records) == 0 {
		log.Warn("no data to write", logging.Path(path))
		info.Skipped = true
		if opts.Recorder != nil {
			opts.Recorder.RecordTableWritten("skipped", 0)
		}
		return info, nil
	}

	native := records[0].Columns()
	if columns == nil {
		columns = native
	}
	projection, err := project(native, columns)
	if err != nil {
		return info, fmt.Errorf("write %s: %w", path, err)
	}

	n, err := writeFile(path, opts.Compress, func(w *csv.Writer) error {
		if err := w.Write(columns); err != nil {
			return err
		}
		out := make([]string, len(projection))
		for _, rec := range records {
			row := rec.Row()
			for i, src := range projection {
				out[i] = row[src]
			}
			if err := w.Write(out); err != nil {
				return err
			}
		}
		return nil
	})
	info.Bytes = n
	if opts.Recorder != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		opts.Recorder.RecordTableWritten(status, n)
	}
	if err != nil {
		return info, fmt.Errorf("write %s: %w", path, err)
	}

	log.Info("table written", logging.Path(path), logging.Rows(len(records)), logging.Int64("bytes", n))
	return info, nil
}

// project maps each requested column to its index in native.
func project(native, columns []string) ([]int, error) {
	index := make(map[string]int, len(native))
	for i, c := range native {
		index[c] = i
	}
	out := make([]int, len(columns))
	for i, c := range columns {
		src, ok := index[c]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, c)
		}
		out[i] = src
	}
	return out, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

func writeFile(path string, compress bool, body func(*csv.Writer) error) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, err
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}

	counter := &countingWriter{w: f}
	var sink io.Writer = counter
	var framed *snappy.Writer
	if compress {
		framed = snappy.NewBufferedWriter(counter)
		sink = framed
	}

	w := csv.NewWriter(sink)
	err = body(w)
	if err == nil {
		w.Flush()
		err = w.Error()
	}
	if framed != nil {
		if cerr := framed.Close(); err == nil {
			err = cerr
		}
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return counter.n, err
}

// ReadTable reads a table written by WriteTable. Rows are keyed by
// header name.
func ReadTable(path string) ([]string, []map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var src io.Reader = f
	if strings.HasSuffix(path, SnappySuffix) {
		src = snappy.NewReader(f)
	}

	reader := csv.NewReader(src)
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("read %s: %w", path, ErrEmptyFile)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	reader.FieldsPerRecord = len(header)

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", path, err)
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			row[col] = record[i]
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

// readTyped reads path and parses each row. The header must contain
// every column in required.
func readTyped[T any](path string, required []string, parse func(map[string]string) (T, error)) ([]T, error) {
	header, rows, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[h] = struct{}{}
	}
	for _, c := range required {
		if _, ok := present[c]; !ok {
			return nil, fmt.Errorf("read %s: %w: %s", path, ErrMissingColumn, c)
		}
	}

	out := make([]T, 0, len(rows))
	for i, row := range rows {
		v, err := parse(row)
		if err != nil {
			// +2: header line and 1-based numbering
			return nil, fmt.Errorf("read %s line %d: %w", path, i+2, err)
		}
		out = append(out, v)
	}
	return out, nil
}
