package classifier

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/ChizhovVadim/DigitRecognizer/internal/ml"
)

// Binary layout of a model file:
// - All the data is stored in little-endian layout
// - The magic number/version consists of 4 bytes:
//   - 75 (ASCII K), 77 (ASCII M), 1 major version, 1 minor version
//
// - 4 bytes (uint32) class count
// - 4 bytes (uint32) feature size
// - 4 bytes (uint32) support vector count
// - 8 bytes (float64) kernel sigma
// - 1 byte input normalization: 0 unit, 1 centered
// - support vectors, row after row, float64
// - coefficients, class after class, float64
var magic = [4]byte{75, 77, 1, 1}

const headerSize = 4 + 3*4 + 8 + 1

var normalizations = []string{"unit", "centered"}

var (
	errBadModelFile          = errors.New("bad model file")
	errNormalizationMismatch = errors.New("normalization mismatch")
)

func normalizationCode(name string) (byte, error) {
	if name == "" {
		name = normalizations[0]
	}
	for code, known := range normalizations {
		if known == name {
			return byte(code), nil
		}
	}
	return 0, fmt.Errorf("unknown normalization %q", name)
}

// CheckNormalization fails when inputs scaled with name differ from the ones the model was trained on.
func (m *Model) CheckNormalization(name string) error {
	code, err := normalizationCode(name)
	if err != nil {
		return err
	}
	if m.normalization != "" && normalizations[code] != m.normalization {
		return fmt.Errorf("%w: model trained with %v, inputs scaled with %v",
			errNormalizationMismatch, m.normalization, normalizations[code])
	}
	return nil
}

// Save writes the model along with the normalization its training inputs were scaled with.
func (m *Model) Save(path, normalization string) (err error) {
	code, err := normalizationCode(normalization)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	var w = bufio.NewWriter(f)
	if _, err = w.Write(magic[:]); err != nil {
		return err
	}
	var header = []uint32{uint32(m.classCount), uint32(m.featureSize), uint32(len(m.vectors))}
	if err = binary.Write(w, binary.LittleEndian, header); err != nil {
		return err
	}
	if err = binary.Write(w, binary.LittleEndian, m.kernel.Sigma); err != nil {
		return err
	}
	if err = w.WriteByte(code); err != nil {
		return err
	}
	for _, v := range m.vectors {
		if err = binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	for _, c := range m.coefs {
		if err = binary.Write(w, binary.LittleEndian, c); err != nil {
			return err
		}
	}
	return w.Flush()
}

func LoadModel(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	var model, readErr = readModel(bufio.NewReader(f), info.Size())
	if readErr != nil {
		return nil, fmt.Errorf("load model %v: %w", path, readErr)
	}
	return model, nil
}

func readModel(r io.Reader, size int64) (*Model, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}
	if buf[0] != magic[0] || buf[1] != magic[1] {
		return nil, fmt.Errorf("%w: magic word does not match", errBadModelFile)
	}
	if buf[2] != magic[2] || buf[3] != magic[3] {
		return nil, fmt.Errorf("%w: version %v.%v is not supported", errBadModelFile, buf[2], buf[3])
	}

	var header [3]uint32
	if err := binary.Read(r, binary.LittleEndian, header[:]); err != nil {
		return nil, err
	}
	var classCount, featureSize, supportCount = int(header[0]), int(header[1]), int(header[2])
	var sigma float64
	if err := binary.Read(r, binary.LittleEndian, &sigma); err != nil {
		return nil, err
	}
	if classCount < 2 || featureSize == 0 || !(sigma > 0) || math.IsInf(sigma, 0) {
		return nil, fmt.Errorf("%w: header %v sigma %v", errBadModelFile, header, sigma)
	}
	var code [1]byte
	if _, err := io.ReadFull(r, code[:]); err != nil {
		return nil, err
	}
	if int(code[0]) >= len(normalizations) {
		return nil, fmt.Errorf("%w: normalization code %v", errBadModelFile, code[0])
	}
	if !payloadFits(size, uint64(supportCount), uint64(featureSize)+uint64(classCount)) {
		return nil, fmt.Errorf("%w: header %v does not match file size %v", errBadModelFile, header, size)
	}

	var model = &Model{
		kernel:        ml.NewGaussianKernel(sigma),
		classCount:    classCount,
		featureSize:   featureSize,
		normalization: normalizations[code[0]],
		vectors:       make([][]float64, supportCount),
		coefs:         make([][]float64, classCount),
	}
	for k := range model.vectors {
		model.vectors[k] = make([]float64, featureSize)
		if err := binary.Read(r, binary.LittleEndian, model.vectors[k]); err != nil {
			return nil, err
		}
	}
	for c := range model.coefs {
		model.coefs[c] = make([]float64, supportCount)
		if err := binary.Read(r, binary.LittleEndian, model.coefs[c]); err != nil {
			return nil, err
		}
	}
	return model, nil
}

// payloadFits reports whether size holds the header plus support*width float64 values.
func payloadFits(size int64, support, width uint64) bool {
	if size < headerSize || (size-headerSize)%8 != 0 {
		return false
	}
	var values = uint64(size-headerSize) / 8
	if support == 0 {
		return values == 0
	}
	return values%support == 0 && values/support == width
}
