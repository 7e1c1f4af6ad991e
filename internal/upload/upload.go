// Package upload decides whether an uploaded file may become a profile picture.
//
// The pipeline is a pure function of (declared content type, bytes). It never
// touches the filesystem or the profile store; the caller persists the bytes
// and records the filename only after Validate succeeds.
//
// CHECK ORDER (first failure wins):
//  1. declared content type must be image/png or image/jpeg
//  2. size must not exceed the limit (the limit itself is accepted)
//  3. the bytes themselves must sniff as PNG or JPEG, and as the same
//     format the client declared
//  4. a random filename is generated with the sniffed format's extension
//
// Steps 1 and 3 are independent: a client that labels JPEG bytes as
// image/png passes step 1 and fails step 3.
package upload

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/sakif/profile-service/internal/apperror"
)

// MaxFileSize is the largest accepted upload, in bytes (1 MiB).
const MaxFileSize int64 = 1 << 20

// allowedContentTypes maps each accepted declared type to the format its
// bytes must sniff as. Keys are compared exactly; parameters or different
// casing are rejected.
var allowedContentTypes = map[string]Format{
	"image/png":  FormatPNG,
	"image/jpeg": FormatJPEG,
}

// Result is an accepted upload.
type Result struct {
	Filename string // "<32 hex chars>.<ext>"
	Format   Format
	Data     []byte
}

// Validator runs the upload checks.
type Validator struct {
	maxSize int64
	newID   func() string
}

// Option configures a Validator.
type Option func(*Validator)

// WithMaxSize overrides MaxFileSize.
func WithMaxSize(n int64) Option {
	return func(v *Validator) { v.maxSize = n }
}

// WithIDGenerator replaces the random ID source. Tests use this for
// deterministic filenames.
func WithIDGenerator(fn func() string) Option {
	return func(v *Validator) { v.newID = fn }
}

// NewValidator returns a Validator with a 1 MiB limit and UUIDv4-based names.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{
		maxSize: MaxFileSize,
		newID:   RandomID,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// MaxSize returns the configured byte limit.
func (v *Validator) MaxSize() int64 {
	return v.maxSize
}

// Validate applies the checks in order and returns the accepted upload or an
// *apperror.AppError wrapping ErrUnsupportedType, ErrTooLarge or ErrInvalidContent.
func (v *Validator) Validate(contentType string, data []byte) (*Result, error) {
	declared, ok := allowedContentTypes[contentType]
	if !ok {
		return nil, apperror.UnsupportedType(contentType)
	}

	if size := int64(len(data)); size > v.maxSize {
		return nil, apperror.TooLarge(size, v.maxSize)
	}

	format := Sniff(data)
	switch {
	case format == FormatUnknown:
		return nil, apperror.InvalidContent("unrecognized file signature")
	case !format.Allowed():
		return nil, apperror.InvalidContent(fmt.Sprintf("%s is not an allowed format", format))
	case format != declared:
		return nil, apperror.InvalidContent(fmt.Sprintf("declared %s but content is %s", contentType, format))
	}

	return &Result{
		Filename: v.newID() + "." + format.Extension(),
		Format:   format,
		Data:     data,
	}, nil
}

// RandomID returns 128 bits of randomness (a version 4 UUID) as 32 lowercase
// hex characters with no dashes.
func RandomID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
