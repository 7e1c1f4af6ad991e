package upload

import "bytes"

var (
	pngHeader  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}
	jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0}
)

// padded returns header followed by zero bytes up to size.
func padded(header []byte, size int) []byte {
	if size < len(header) {
		return header[:size]
	}
	return append(append([]byte{}, header...), bytes.Repeat([]byte{0}, size-len(header))...)
}
