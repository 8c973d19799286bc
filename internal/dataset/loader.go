package dataset

import (
	"encoding/csv"
	"errors"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"

	"github.com/ChizhovVadim/DigitRecognizer/internal/domain"
)

var errNoFeatures = errors.New("record has no feature columns")

// Loader reads a headerless Windows-1252 CSV file into a dataset.
type Loader struct {
	Parser IRowParser
	Logger *zap.Logger
}

func NewLoader(parser IRowParser, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{Parser: parser, Logger: logger}
}

// Load parses every record of path in file order.
// rowCap > 0 stops after rowCap records, otherwise the whole file is read.
func (l *Loader) Load(path string, rowCap int, labeled bool) (domain.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return domain.Dataset{}, &domain.DataLoadError{Path: path, Err: err}
	}
	defer file.Close()

	var reader = csv.NewReader(charmap.Windows1252.NewDecoder().Reader(file))
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	var result domain.Dataset
	for rowCap <= 0 || len(result.Samples) < rowCap {
		var row = len(result.Samples)
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return domain.Dataset{}, readError(path, row, err)
		}
		sample, err := l.Parser.Parse(fields, labeled)
		if err != nil {
			return domain.Dataset{}, locate(err, path, row)
		}
		if len(sample.Features) == 0 {
			return domain.Dataset{}, &domain.ParseError{Path: path, Row: row, Column: len(fields), Err: errNoFeatures}
		}
		if row == 0 {
			result.FeatureSize = len(sample.Features)
		} else if len(sample.Features) != result.FeatureSize {
			return domain.Dataset{}, &domain.DimensionMismatchError{
				Path:     path,
				Row:      row,
				Expected: result.FeatureSize,
				Actual:   len(sample.Features),
			}
		}
		result.Samples = append(result.Samples, sample)
	}

	l.Logger.Debug("dataset loaded",
		zap.String("path", path),
		zap.Int("rows", result.Len()),
		zap.Int("features", result.FeatureSize),
		zap.Bool("labeled", labeled))
	return result, nil
}

func readError(path string, row int, err error) error {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		// csv reports a byte offset within the line, not a field index
		return &domain.ParseError{Path: path, Row: row, Column: domain.UnknownColumn, Err: csvErr.Err}
	}
	return &domain.DataLoadError{Path: path, Err: err}
}

func locate(err error, path string, row int) error {
	var parseErr *domain.ParseError
	if errors.As(err, &parseErr) {
		parseErr.Path = path
		parseErr.Row = row
		return parseErr
	}
	var dimErr *domain.DimensionMismatchError
	if errors.As(err, &dimErr) {
		dimErr.Path = path
		dimErr.Row = row
		return dimErr
	}
	return err
}
