package generation

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Vector payload format: a 16-byte header (magic, version, vector count,
// dimensions, all little-endian uint32) followed by count*dims float32
// values in ordinal order.
const (
	vectorsMagic   = 0x53485356 // "SHSV"
	vectorsVersion = 1
	headerSize     = 16
)

// encodeVectors serialises vectors into the binary payload.
func encodeVectors(dims int, vectors [][]float32) ([]byte, error) {
	buf := make([]byte, headerSize+len(vectors)*dims*4)
	binary.LittleEndian.PutUint32(buf[0:], vectorsMagic)
	binary.LittleEndian.PutUint32(buf[4:], vectorsVersion)
	binary.LittleEndian.PutUint32(buf[8:], uint32(len(vectors)))
	binary.LittleEndian.PutUint32(buf[12:], uint32(dims))

	off := headerSize
	for i, vec := range vectors {
		if len(vec) != dims {
			return nil, fmt.Errorf("vector %d has %d dimensions, expected %d", i, len(vec), dims)
		}
		for _, f := range vec {
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(f))
			off += 4
		}
	}
	return buf, nil
}

// decodeVectors parses the binary payload back into vectors.
func decodeVectors(data []byte) ([][]float32, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("vector payload too short: %d bytes", len(data))
	}
	if magic := binary.LittleEndian.Uint32(data[0:]); magic != vectorsMagic {
		return nil, fmt.Errorf("bad vector payload magic: %#x", magic)
	}
	if version := binary.LittleEndian.Uint32(data[4:]); version != vectorsVersion {
		return nil, fmt.Errorf("unsupported vector payload version: %d", version)
	}

	count := int(binary.LittleEndian.Uint32(data[8:]))
	dims := int(binary.LittleEndian.Uint32(data[12:]))
	if want := headerSize + count*dims*4; len(data) != want {
		return nil, fmt.Errorf("vector payload is %d bytes, expected %d (%d vectors x %d dims)",
			len(data), want, count, dims)
	}

	vectors := make([][]float32, count)
	off := headerSize
	for i := range vectors {
		vec := make([]float32, dims)
		for j := range vec {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
			off += 4
		}
		vectors[i] = vec
	}
	return vectors, nil
}
