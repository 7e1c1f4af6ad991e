// Package model defines the data structures used throughout the application.
//
// UserProfile is the stored record. ProfileView is what the API returns: it
// carries the derived picture URL instead of the raw stored filename, so the
// URL can never drift from the file it points at.
package model

// MediaPrefix is the URL path under which accepted pictures are served.
const MediaPrefix = "/media/"

// UserProfile is the authoritative record held by the profile store.
//
// Bio is a pointer because "no bio" (JSON null) and "empty bio" are different
// answers for the client. ProfilePicture is the stored filename of the
// accepted image, empty until the first successful upload.
type UserProfile struct {
	Username       string
	Email          string
	Bio            *string
	ProfilePicture string
}

// ProfileView is the client-facing shape of a profile.
//
//	{"username":"alice","email":"alice@example.com","bio":null,"profile_picture_url":null}
type ProfileView struct {
	Username          string  `json:"username"`
	Email             string  `json:"email"`
	Bio               *string `json:"bio"`
	ProfilePictureURL *string `json:"profile_picture_url"`
}

// UploadResult is returned after a picture upload is accepted.
type UploadResult struct {
	Message           string `json:"message"`
	ProfilePictureURL string `json:"profile_picture_url"`
}

// PictureURL derives the public URL for a stored filename.
// It returns nil when no picture has been uploaded.
func PictureURL(filename string) *string {
	if filename == "" {
		return nil
	}
	url := MediaPrefix + filename
	return &url
}

// View converts the stored record into its API representation.
func (p *UserProfile) View() *ProfileView {
	return &ProfileView{
		Username:          p.Username,
		Email:             p.Email,
		Bio:               p.Bio,
		ProfilePictureURL: PictureURL(p.ProfilePicture),
	}
}
