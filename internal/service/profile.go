// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes the profile store
//
// ProfileService takes its collaborators as interfaces (ProfileRepository,
// PictureValidator, MediaWriter), so tests swap in fakes without touching
// HTTP, the filesystem, or a real store.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/profile-service/internal/apperror"
	"github.com/sakif/profile-service/internal/model"
	"github.com/sakif/profile-service/internal/repository"
	"github.com/sakif/profile-service/internal/upload"
)

// UploadSuccessMessage is returned to the client after a picture is stored.
const UploadSuccessMessage = "Profile picture uploaded successfully."

// PictureValidator decides whether an upload is acceptable and names it.
// *upload.Validator implements it.
type PictureValidator interface {
	Validate(contentType string, data []byte) (*upload.Result, error)
}

// MediaWriter persists accepted bytes. *media.Store implements it.
type MediaWriter interface {
	Save(ctx context.Context, name string, data []byte) error
}

// ProfileService implements create, get and picture upload.
type ProfileService struct {
	repo     repository.ProfileRepository
	pictures PictureValidator
	media    MediaWriter
	validate *validator.Validate
	logger   *slog.Logger
}

// NewProfileService wires the service. Every dependency is injected; the
// service creates none of them itself.
func NewProfileService(
	repo repository.ProfileRepository,
	pictures PictureValidator,
	media MediaWriter,
	logger *slog.Logger,
) *ProfileService {
	return &ProfileService{
		repo:     repo,
		pictures: pictures,
		media:    media,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// CreateProfile validates and stores a new profile.
//
// Validation happens here as well as at the HTTP boundary: every caller of
// the service gets the same rules, not just the HTTP handler.
func (s *ProfileService) CreateProfile(ctx context.Context, username, email string, bio *string) (*model.ProfileView, error) {
	// The username is the key exactly as sent; only a blank one is refused.
	if strings.TrimSpace(username) == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, apperror.ValidationFailed("email", "email must be a valid email address")
	}

	profile := &model.UserProfile{
		Username: username,
		Email:    email,
		Bio:      bio,
	}

	if err := s.repo.Insert(ctx, profile); err != nil {
		// Duplicate usernames are a normal client error, not worth an error log.
		return nil, fmt.Errorf("creating profile: %w", err)
	}

	s.logger.Info("profile created", slog.String("username", username))

	return profile.View(), nil
}

// GetProfile returns the profile view, with the picture URL derived from the
// stored filename. Returns apperror.ErrNotFound for unknown usernames.
func (s *ProfileService) GetProfile(ctx context.Context, username string) (*model.ProfileView, error) {
	profile, err := s.repo.Get(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("getting profile: %w", err)
	}
	return profile.View(), nil
}

// UploadProfilePicture validates data and makes it the user's picture.
//
// ORDER MATTERS:
//  1. the user must exist (checked before looking at the file at all)
//  2. the upload pipeline must accept the file
//  3. bytes are written to the media directory
//  4. only then is the stored filename switched to the new file
//
// A failure at any step leaves the store unchanged, and nothing is written
// to disk unless steps 1 and 2 pass.
func (s *ProfileService) UploadProfilePicture(ctx context.Context, username, contentType string, data []byte) (*model.UploadResult, error) {
	if _, err := s.repo.Get(ctx, username); err != nil {
		return nil, fmt.Errorf("uploading picture: %w", err)
	}

	accepted, err := s.pictures.Validate(contentType, data)
	if err != nil {
		attrs := []any{
			slog.String("username", username),
			slog.String("content_type", contentType),
			slog.Int("bytes", len(data)),
		}
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Detail != "" {
			attrs = append(attrs, slog.String("reason", appErr.Detail))
		}
		s.logger.Warn("profile picture rejected", attrs...)
		return nil, fmt.Errorf("validating picture: %w", err)
	}

	if err := s.media.Save(ctx, accepted.Filename, accepted.Data); err != nil {
		s.logger.Error("failed to store profile picture",
			slog.String("username", username),
			slog.String("file", accepted.Filename),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("storing picture: %w", err)
	}

	if err := s.repo.SetPicture(ctx, username, accepted.Filename); err != nil {
		return nil, fmt.Errorf("recording picture: %w", err)
	}

	url := model.PictureURL(accepted.Filename)
	s.logger.Info("profile picture uploaded",
		slog.String("username", username),
		slog.String("file", accepted.Filename),
		slog.String("format", accepted.Format.String()),
	)

	return &model.UploadResult{
		Message:           UploadSuccessMessage,
		ProfilePictureURL: *url,
	}, nil
}
