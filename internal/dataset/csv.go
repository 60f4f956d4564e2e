package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pmjdystats/pmjdy/internal/fileutil"
	"github.com/pmjdystats/pmjdy/internal/model"
)

// WriteCSV writes rs to path with a header row. The file is replaced
// atomically.
func WriteCSV(path string, rs *model.RecordSet) error {
	return fileutil.WriteFileAtomic(path, func(w io.Writer) error {
		return Encode(w, rs)
	})
}

// Encode writes rs as CSV to w.
func Encode(w io.Writer, rs *model.RecordSet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rs.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(rs.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// ReadCSV reads a CSV file written by WriteCSV.
func ReadCSV(path string) (*model.RecordSet, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the data directory listing
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rs, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rs, nil
}

// Decode reads CSV from r. The first record is the header; shorter or
// longer rows are fitted to it.
func Decode(r io.Reader) (*model.RecordSet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, err
	}

	rs := model.NewRecordSet(header)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rs.Append(row)
	}
	return rs, nil
}
