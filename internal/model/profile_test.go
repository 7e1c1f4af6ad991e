package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPictureURL(t *testing.T) {
	assert.Nil(t, PictureURL(""))

	url := PictureURL("abc.png")
	require.NotNil(t, url)
	assert.Equal(t, "/media/abc.png", *url)
}

func TestView_NullsWhenUnset(t *testing.T) {
	p := &UserProfile{Username: "alice", Email: "alice@example.com"}

	b, err := json.Marshal(p.View())
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"username":"alice","email":"alice@example.com","bio":null,"profile_picture_url":null}`,
		string(b))
}

func TestView_DerivesURL(t *testing.T) {
	bio := "hello"
	p := &UserProfile{Username: "bob", Email: "bob@example.com", Bio: &bio, ProfilePicture: "f00.jpeg"}

	v := p.View()
	require.NotNil(t, v.ProfilePictureURL)
	assert.Equal(t, "/media/f00.jpeg", *v.ProfilePictureURL)
	assert.Equal(t, "hello", *v.Bio)
}
