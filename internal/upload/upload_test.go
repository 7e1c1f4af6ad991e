package upload

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/profile-service/internal/apperror"
)

func fixedID() string { return "00112233445566778899aabbccddeeff" }

func TestValidate_Errors(t *testing.T) {
	v := NewValidator(WithIDGenerator(fixedID))

	tests := []struct {
		name        string
		contentType string
		data        []byte
		want        error
	}{
		{name: "missing content type", contentType: "", data: padded(pngHeader, 32), want: apperror.ErrUnsupportedType},
		{name: "gif content type", contentType: "image/gif", data: padded(pngHeader, 32), want: apperror.ErrUnsupportedType},
		{name: "content type with params", contentType: "image/png; charset=binary", data: padded(pngHeader, 32), want: apperror.ErrUnsupportedType},
		{name: "upper case content type", contentType: "IMAGE/PNG", data: padded(pngHeader, 32), want: apperror.ErrUnsupportedType},
		{name: "jpeg bytes declared png", contentType: "image/png", data: padded(jpegHeader, 32), want: apperror.ErrInvalidContent},
		{name: "png bytes declared jpeg", contentType: "image/jpeg", data: padded(pngHeader, 32), want: apperror.ErrInvalidContent},
		{name: "text declared png", contentType: "image/png", data: []byte("not an image"), want: apperror.ErrInvalidContent},
		{name: "gif bytes declared png", contentType: "image/png", data: []byte("GIF89a\x01\x00\x01\x00"), want: apperror.ErrInvalidContent},
		{name: "empty body", contentType: "image/jpeg", data: nil, want: apperror.ErrInvalidContent},
		{name: "oversize with bad type reports type", contentType: "text/plain", data: make([]byte, MaxFileSize+1), want: apperror.ErrUnsupportedType},
		{name: "oversize garbage reports size", contentType: "image/png", data: make([]byte, MaxFileSize+1), want: apperror.ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Validate(tt.contentType, tt.data)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
		})
	}
}

func TestValidate_JPEGLabelledPNG(t *testing.T) {
	// The label alone is not enough: valid JPEG bytes sent as image/png fail.
	v := NewValidator(WithIDGenerator(fixedID))

	_, err := v.Validate("image/png", padded(jpegHeader, 100))
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.ErrorIs(t, err, apperror.ErrInvalidContent)
	assert.Equal(t, "File content is not a valid PNG or JPEG image.", appErr.Message)
	assert.Contains(t, appErr.Detail, "declared image/png")
}

func TestValidate_ExtensionFromSniffedFormat(t *testing.T) {
	v := NewValidator(WithIDGenerator(fixedID))

	res, err := v.Validate("image/jpeg", padded(jpegHeader, 100))
	require.NoError(t, err)
	assert.Equal(t, FormatJPEG, res.Format)
	assert.Equal(t, fixedID()+".jpeg", res.Filename)

	res, err = v.Validate("image/png", padded(pngHeader, 100))
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, res.Format)
	assert.Equal(t, fixedID()+".png", res.Filename)
}

func TestValidate_SizeBoundary(t *testing.T) {
	v := NewValidator()

	atLimit := padded(pngHeader, int(MaxFileSize))
	res, err := v.Validate("image/png", atLimit)
	require.NoError(t, err)
	assert.Len(t, res.Data, int(MaxFileSize))

	overLimit := padded(pngHeader, int(MaxFileSize)+1)
	_, err = v.Validate("image/png", overLimit)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrTooLarge)
	assert.Equal(t, "File too large. Max file size is 1MB.", err.Error())
}

func TestValidate_CustomMaxSize(t *testing.T) {
	v := NewValidator(WithMaxSize(16))
	assert.Equal(t, int64(16), v.MaxSize())

	_, err := v.Validate("image/png", padded(pngHeader, 17))
	assert.ErrorIs(t, err, apperror.ErrTooLarge)
}

func TestValidate_FilenameShape(t *testing.T) {
	v := NewValidator()
	shape := regexp.MustCompile(`^[0-9a-f]{32}\.(png|jpeg)$`)

	png, err := v.Validate("image/png", padded(pngHeader, 32))
	require.NoError(t, err)
	assert.Regexp(t, shape, png.Filename)
	assert.Equal(t, "png", png.Filename[len(png.Filename)-3:])

	jpeg, err := v.Validate("image/jpeg", padded(jpegHeader, 32))
	require.NoError(t, err)
	assert.Regexp(t, shape, jpeg.Filename)

	assert.NotEqual(t, png.Filename[:32], jpeg.Filename[:32])
}

func TestValidate_InvalidContentReasons(t *testing.T) {
	v := NewValidator()

	_, err := v.Validate("image/png", []byte("plain text"))
	var unknown *apperror.AppError
	require.ErrorAs(t, err, &unknown)
	assert.Contains(t, unknown.Detail, "unrecognized")

	_, err = v.Validate("image/png", []byte("GIF89a\x00\x00"))
	var disallowed *apperror.AppError
	require.ErrorAs(t, err, &disallowed)
	assert.Contains(t, disallowed.Detail, "gif")

	// Both outcomes share the client-facing message.
	assert.Equal(t, unknown.Message, disallowed.Message)
}

func TestValidate_ReturnsSameBytes(t *testing.T) {
	v := NewValidator()
	data := padded(pngHeader, 256)
	data[200] = 0x42

	res, err := v.Validate("image/png", data)
	require.NoError(t, err)
	assert.Equal(t, data, res.Data)
}

func TestRandomID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := RandomID()
		assert.Len(t, id, 32)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
