package upload

import "bytes"

// Format is an image format identified from leading magic bytes.
type Format int

const (
	// FormatUnknown means no signature in the table matched.
	FormatUnknown Format = iota
	FormatPNG
	FormatJPEG
	FormatGIF
	FormatWebP
	FormatBMP
)

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpeg"
	case FormatGIF:
		return "gif"
	case FormatWebP:
		return "webp"
	case FormatBMP:
		return "bmp"
	default:
		return "unknown"
	}
}

// Extension is the canonical file extension for stored files of this format.
// JPEG always maps to "jpeg", never "jpg".
func (f Format) Extension() string {
	return f.String()
}

// Allowed reports whether the format may become a profile picture.
func (f Format) Allowed() bool {
	return f == FormatPNG || f == FormatJPEG
}

// signature is one row of the magic-byte table. Formats whose marker is split
// by variable bytes (WebP) check a second fixed-offset run via extra.
type signature struct {
	format Format
	offset int
	magic  []byte
	// extra is checked at extraOffset when non-nil.
	extra       []byte
	extraOffset int
}

// signatures lists every format we recognize. Only PNG and JPEG are allowed;
// the rest exist so "recognized but disallowed" is distinguishable from
// "unrecognized" in logs.
var signatures = []signature{
	{format: FormatPNG, magic: []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}},
	{format: FormatJPEG, magic: []byte{0xFF, 0xD8}},
	{format: FormatGIF, magic: []byte("GIF87a")},
	{format: FormatGIF, magic: []byte("GIF89a")},
	{format: FormatWebP, magic: []byte("RIFF"), extra: []byte("WEBP"), extraOffset: 8},
	{format: FormatBMP, magic: []byte("BM")},
}

// Sniff identifies data by its leading bytes. It ignores any declared type.
func Sniff(data []byte) Format {
	for _, sig := range signatures {
		if !hasAt(data, sig.offset, sig.magic) {
			continue
		}
		if sig.extra != nil && !hasAt(data, sig.extraOffset, sig.extra) {
			continue
		}
		return sig.format
	}
	return FormatUnknown
}

func hasAt(data []byte, offset int, magic []byte) bool {
	if len(data) < offset+len(magic) {
		return false
	}
	return bytes.Equal(data[offset:offset+len(magic)], magic)
}
