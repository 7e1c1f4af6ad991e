package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sakif/profile-service/internal/apperror"
	"github.com/sakif/profile-service/internal/model"
	"github.com/sakif/profile-service/internal/repository"
)

// compile-time check that *DB implements repository.ProfileRepository
var _ repository.ProfileRepository = (*DB)(nil)

// Insert adds a profile unless the username is taken.
//
// ON CONFLICT DO NOTHING + RowsAffected turns the duplicate check and the
// write into one statement, so there is no window between "check" and
// "insert" for a concurrent create to slip through.
func (db *DB) Insert(ctx context.Context, profile *model.UserProfile) error {
	var bio sql.NullString
	if profile.Bio != nil {
		bio = sql.NullString{String: *profile.Bio, Valid: true}
	}

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO profiles (username, email, bio, profile_picture)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(username) DO NOTHING`,
		profile.Username,
		profile.Email,
		bio,
		profile.ProfilePicture,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting profile %s: %w", profile.Username, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: inserting profile %s: %w", profile.Username, err)
	}
	if n == 0 {
		return apperror.Conflict("Username already exists.")
	}
	return nil
}

// Get returns the profile or apperror.ErrNotFound.
func (db *DB) Get(ctx context.Context, username string) (*model.UserProfile, error) {
	var (
		p   model.UserProfile
		bio sql.NullString
	)

	err := db.conn.QueryRowContext(ctx,
		`SELECT username, email, bio, profile_picture FROM profiles WHERE username = ?`,
		username,
	).Scan(&p.Username, &p.Email, &bio, &p.ProfilePicture)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("User not found.")
		}
		return nil, fmt.Errorf("sqlite: getting profile %s: %w", username, err)
	}

	if bio.Valid {
		p.Bio = &bio.String
	}
	return &p, nil
}

// SetPicture replaces the stored picture filename.
func (db *DB) SetPicture(ctx context.Context, username, filename string) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE profiles SET profile_picture = ? WHERE username = ?`,
		filename, username,
	)
	if err != nil {
		return fmt.Errorf("sqlite: setting picture for %s: %w", username, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: setting picture for %s: %w", username, err)
	}
	if n == 0 {
		return apperror.NotFound("User not found.")
	}
	return nil
}
