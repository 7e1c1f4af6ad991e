package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/profile-service/internal/apperror"
)

// REQUEST SCHEMAS:
// Each operation's input is an explicit struct. `validate` tags are checked
// here, at the boundary, before the service is called. The service re-checks
// the rules it owns, so non-HTTP callers get them too.

// CreateProfileRequest is the body of POST /profiles/.
//
//	{"username": "alice", "email": "alice@example.com", "bio": "optional"}
type CreateProfileRequest struct {
	Username string  `json:"username" validate:"required"`
	Email    string  `json:"email"    validate:"required,email"`
	Bio      *string `json:"bio"`
}

// multipartSlack is the room allowed for multipart headers and boundaries on
// top of the file limit before the body is cut off.
const multipartSlack = 64 << 10

// newValidator reports field names as their JSON keys ("email", not "Email").
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the struct's `validate` tags and converts the first
// failure into an apperror.ValidationFailed.
func validateStruct(v *validator.Validate, req any) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validating request: %w", err)
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return apperror.ValidationFailed(fe.Field(), fe.Field()+" is required")
	case "email":
		return apperror.ValidationFailed(fe.Field(), fe.Field()+" must be a valid email address")
	default:
		return apperror.ValidationFailed(fe.Field(), fe.Field()+" is invalid")
	}
}

// readFilePart streams a multipart body looking for the form field named
// field and returns its declared Content-Type and at most limit+1 bytes of
// its content.
//
// WHY limit+1?
// Reading one byte past the limit is enough for the upload pipeline to tell
// "exactly at the limit" from "over the limit" without ever buffering the
// rest of an oversize file.
func readFilePart(w http.ResponseWriter, r *http.Request, field string, limit int64) (string, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartSlack)

	mr, err := r.MultipartReader()
	if err != nil {
		return "", nil, apperror.ValidationFailed(field, "a multipart form with a file is required")
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return "", nil, apperror.ValidationFailed(field, field+" is required")
		}
		if err != nil {
			return "", nil, multipartError(field, err, limit)
		}
		if part.FormName() != field {
			part.Close()
			continue
		}
		return readPart(part, field, limit)
	}
}

func readPart(part *multipart.Part, field string, limit int64) (string, []byte, error) {
	defer part.Close()

	data, err := io.ReadAll(io.LimitReader(part, limit+1))
	if err != nil {
		return "", nil, multipartError(field, err, limit)
	}
	return part.Header.Get("Content-Type"), data, nil
}

func multipartError(field string, err error, limit int64) error {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		return apperror.TooLarge(tooBig.Limit, limit)
	}
	return apperror.ValidationFailed(field, "malformed multipart body")
}
