package classifier

import (
	"bytes"
	"encoding/binary"
	"os"
)

func cloneRows(rows [][]float64) [][]float64 {
	var result = make([][]float64, len(rows))
	for i := range rows {
		result[i] = append([]float64(nil), rows[i]...)
	}
	return result
}

func writeBytes(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

// modelBytes builds a model file image with payload float64 values after the header.
func modelBytes(header [3]uint32, sigma float64, code byte, payload int) []byte {
	var buf bytes.Buffer
	buf.Write(magic[:])
	binary.Write(&buf, binary.LittleEndian, header[:])
	binary.Write(&buf, binary.LittleEndian, sigma)
	buf.WriteByte(code)
	binary.Write(&buf, binary.LittleEndian, make([]float64, payload))
	return buf.Bytes()
}
