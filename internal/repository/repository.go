// Package repository declares the storage interfaces the service layer depends on.
// Implementations live in subpackages (see repository/memory).
package repository

import (
	"context"

	"github.com/sakif/profile-service/internal/model"
)

// ProfileRepository holds the set of profiles keyed by username.
//
// Implementations must make Insert and SetPicture atomic with respect to
// concurrent calls, and Get must return a copy that later mutations of the
// store cannot change.
type ProfileRepository interface {
	// Insert stores a new profile. Returns apperror.ErrConflict if the username exists.
	Insert(ctx context.Context, profile *model.UserProfile) error
	// Get returns the profile or apperror.ErrNotFound.
	Get(ctx context.Context, username string) (*model.UserProfile, error)
	// SetPicture replaces the stored picture filename. Returns apperror.ErrNotFound
	// if the username does not exist.
	SetPicture(ctx context.Context, username, filename string) error
}
