package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ChizhovVadim/DigitRecognizer/internal/domain"
)

// IRowParser converts one CSV record to a sample.
// Returned errors are *domain.ParseError or *domain.DimensionMismatchError
// without Path and Row, the Loader fills them in.
type IRowParser interface {
	Parse(fields []string, labeled bool) (domain.Sample, error)
}

var errNotFinite = errors.New("value is not finite")

// FrontLabelParser reads the label from the first column.
type FrontLabelParser struct {
	Normalizer  INormalizer
	FeatureSize int // 0 means take it from the record
	ClassCount  int // 0 disables the label range check
}

func (p *FrontLabelParser) Parse(fields []string, labeled bool) (domain.Sample, error) {
	if !labeled {
		return parseFeatures(fields, 0, p.FeatureSize, p.Normalizer)
	}
	if len(fields) == 0 {
		return domain.Sample{}, &domain.DimensionMismatchError{Expected: p.FeatureSize + 1}
	}
	label, err := parseLabel(fields[0], 0, p.ClassCount)
	if err != nil {
		return domain.Sample{}, err
	}
	sample, err := parseFeatures(fields[1:], 1, p.FeatureSize, p.Normalizer)
	if err != nil {
		return domain.Sample{}, err
	}
	sample.Label = label
	sample.Labeled = true
	return sample, nil
}

// BackLabelParser reads the label from the last column.
type BackLabelParser struct {
	Normalizer  INormalizer
	FeatureSize int
	ClassCount  int
}

func (p *BackLabelParser) Parse(fields []string, labeled bool) (domain.Sample, error) {
	if !labeled {
		return parseFeatures(fields, 0, p.FeatureSize, p.Normalizer)
	}
	var last = len(fields) - 1
	if last < 0 {
		return domain.Sample{}, &domain.DimensionMismatchError{Expected: p.FeatureSize + 1}
	}
	label, err := parseLabel(fields[last], last, p.ClassCount)
	if err != nil {
		return domain.Sample{}, err
	}
	sample, err := parseFeatures(fields[:last], 0, p.FeatureSize, p.Normalizer)
	if err != nil {
		return domain.Sample{}, err
	}
	sample.Label = label
	sample.Labeled = true
	return sample, nil
}

func NewRowParser(labelColumn string, normalizer INormalizer, featureSize, classCount int) (IRowParser, error) {
	switch labelColumn {
	case "", "front":
		return &FrontLabelParser{Normalizer: normalizer, FeatureSize: featureSize, ClassCount: classCount}, nil
	case "back":
		return &BackLabelParser{Normalizer: normalizer, FeatureSize: featureSize, ClassCount: classCount}, nil
	default:
		return nil, fmt.Errorf("unknown label column %q", labelColumn)
	}
}

func parseLabel(field string, column, classCount int) (int, error) {
	var s = strings.TrimSpace(field)
	label, err := strconv.Atoi(s)
	if err != nil {
		return 0, &domain.ParseError{Column: column, Field: field, Err: err}
	}
	if label < 0 || (classCount > 0 && label >= classCount) {
		return 0, &domain.ParseError{Column: column, Field: field, Err: domain.ErrLabelOutOfRange}
	}
	return label, nil
}

// parseFeatures parses fields as pixels. offset is the column index of fields[0] in the record.
func parseFeatures(fields []string, offset, featureSize int, normalizer INormalizer) (domain.Sample, error) {
	if featureSize != 0 && len(fields) != featureSize {
		return domain.Sample{}, &domain.DimensionMismatchError{
			Expected: featureSize,
			Actual:   len(fields),
		}
	}
	var features = make([]float64, len(fields))
	for i, field := range fields {
		value, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return domain.Sample{}, &domain.ParseError{Column: offset + i, Field: field, Err: err}
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return domain.Sample{}, &domain.ParseError{Column: offset + i, Field: field, Err: errNotFinite}
		}
		features[i] = normalizer.Normalize(value)
	}
	return domain.Sample{Features: features}, nil
}
