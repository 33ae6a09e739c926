package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

// ParseError reports a record that could not be turned into a Sample.
type ParseError struct {
	Line  int // 1-based line number in the source
	Field int // 0-based field index, -1 when the whole record is at fault
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field < 0 {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d, field %d: %v", e.Line, e.Field+1, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// LoadTSV loads a dataset from a tab-separated file.
// Every line must hold exactly five numbers: rooms, area, settlement,
// price and label. Any malformed line rejects the whole file.
func LoadTSV(filename string) (*Dataset, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	ds, err := ReadTSV(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return ds, nil
}

// ReadTSV parses tab-separated records from r. Blank lines are skipped.
func ReadTSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = Columns

	var samples []Sample
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return nil, &ParseError{
					Line:  csvErr.Line,
					Field: -1,
					Err:   fmt.Errorf("%w: %v", ErrMalformedRecord, csvErr.Err),
				}
			}
			return nil, fmt.Errorf("failed to read tsv: %w", err)
		}

		line, _ := reader.FieldPos(0)
		s, err := parseRecord(record, line)
		if err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}

	if len(samples) == 0 {
		return nil, ErrEmpty
	}
	return fromSamples(samples), nil
}

func parseRecord(record []string, line int) (Sample, error) {
	var values [Columns]float64
	for j, field := range record {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return Sample{}, &ParseError{Line: line, Field: j, Err: fmt.Errorf("%w: %q is not a number", ErrMalformedRecord, field)}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Sample{}, &ParseError{Line: line, Field: j, Err: fmt.Errorf("%w: %q is not finite", ErrMalformedRecord, field)}
		}
		values[j] = v
	}

	s := Sample{
		Features: Features{
			Rooms:      values[0],
			Area:       values[1],
			Settlement: values[2],
			Price:      values[3],
		},
		Label: values[4],
	}
	if _, err := s.Class(); err != nil {
		return Sample{}, &ParseError{Line: line, Field: Columns - 1, Err: err}
	}
	return s, nil
}

// WriteTSV writes samples in the format ReadTSV accepts.
func WriteTSV(w io.Writer, samples []Sample) error {
	writer := csv.NewWriter(w)
	writer.Comma = '\t'

	for _, s := range samples {
		f := s.Features
		record := []string{
			strconv.FormatFloat(f.Rooms, 'f', -1, 64),
			strconv.FormatFloat(f.Area, 'f', -1, 64),
			strconv.FormatFloat(f.Settlement, 'f', -1, 64),
			strconv.FormatFloat(f.Price, 'f', -1, 64),
			strconv.FormatFloat(s.Label, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
