package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractObjectPath(t *testing.T) {
	cases := []struct {
		name   string
		ref    string
		bucket string
		want   string
	}{
		{"public url with bucket segment", "https://host/storage/v1/object/public/school-portal/announcements/banner.png", "school-portal", "announcements/banner.png"},
		{"plain url", "https://host/bucket/folder/file.png", "bucket", "folder/file.png"},
		{"bucket prefixed path", "school-portal/avatars/u1.png", "school-portal", "avatars/u1.png"},
		{"bare path", "avatars/u1.png", "school-portal", "avatars/u1.png"},
		{"data uri", "data:image/png;base64,AAAA", "school-portal", ""},
		{"empty", "", "school-portal", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractObjectPath(tc.ref, tc.bucket))
		})
	}
}

func TestIsDataURI(t *testing.T) {
	assert.True(t, IsDataURI("data:image/png;base64,AAAA"))
	assert.False(t, IsDataURI("announcements/banner.png"))
}
