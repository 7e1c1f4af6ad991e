// Package handler contains the HTTP request handlers.
//
// Handlers are the glue between HTTP and the service layer:
//  1. parse the request (path params, JSON body, multipart file)
//  2. call the service
//  3. write the response (status, JSON body)
//
// They contain no business rules of their own.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sakif/profile-service/internal/model"
)

// ProfileService is what the handler needs from the service layer.
// *service.ProfileService implements it.
type ProfileService interface {
	CreateProfile(ctx context.Context, username, email string, bio *string) (*model.ProfileView, error)
	GetProfile(ctx context.Context, username string) (*model.ProfileView, error)
	UploadProfilePicture(ctx context.Context, username, contentType string, data []byte) (*model.UploadResult, error)
}

// ProfileHandler serves the /profiles routes.
type ProfileHandler struct {
	profiles    ProfileService
	validate    *validator.Validate
	maxFileSize int64
	logger      *slog.Logger
}

// NewProfileHandler creates a ProfileHandler. maxFileSize is the upload limit
// in bytes; the handler reads at most one byte more than that from a request.
func NewProfileHandler(profiles ProfileService, maxFileSize int64, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles:    profiles,
		validate:    newValidator(),
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// HandleCreate creates a profile.
//
// HTTP: POST /profiles/
// REQUEST BODY: {"username": "alice", "email": "alice@example.com", "bio": "optional"}
// RESPONSE: 201 {"username","email","bio","profile_picture_url": null}
func (h *ProfileHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid profile JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON body"})
		return
	}

	if err := validateStruct(h.validate, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	view, err := h.profiles.CreateProfile(r.Context(), req.Username, req.Email, req.Bio)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, view)
}

// HandleGet returns a profile with its picture URL (null when unset).
//
// HTTP: GET /profiles/{username}
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	view, err := h.profiles.GetProfile(r.Context(), username)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// HandleUploadPicture accepts a PNG or JPEG as the user's profile picture.
//
// HTTP: POST /profiles/{username}/profile_picture
// REQUEST BODY: multipart/form-data with the image in the "file" field.
// RESPONSE: 200 {"message": "...", "profile_picture_url": "/media/<name>"}
//
// The declared type is the file part's own Content-Type header, not the
// request's multipart/form-data header.
func (h *ProfileHandler) HandleUploadPicture(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	contentType, data, err := readFilePart(w, r, "file", h.maxFileSize)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.profiles.UploadProfilePicture(r.Context(), username, contentType, data)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
