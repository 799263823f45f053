package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadByURLRequest_Validate(t *testing.T) {
	valid := UploadByURLRequest{
		UploadRequest: UploadRequest{Filename: "dump.sql.gz", Tags: []string{"db"}},
		URL:           "https://example.org/dump.sql.gz",
	}
	assert.NoError(t, valid.Validate())

	noURL := valid
	noURL.URL = ""
	assert.Error(t, noURL.Validate())

	spaced := valid
	spaced.URL = " https://example.org/a"
	assert.Error(t, spaced.Validate())

	badTag := valid
	badTag.Tags = []string{"not a tag"}
	assert.Error(t, badTag.Validate())
}

func TestUploadByURLRequest_ToForm(t *testing.T) {
	req := UploadByURLRequest{
		UploadRequest: UploadRequest{Filename: "a.txt", Tags: []string{"db,daily"}, Public: true, Password: "pw"},
		URL:           "https://example.org/a.txt",
	}

	form := req.ToForm()

	assert.Equal(t, "https://example.org/a.txt", form.URL)
	assert.Equal(t, "a.txt", form.Filename)
	assert.Equal(t, []string{"db", "daily"}, form.Tags)
	assert.True(t, form.Public)
	assert.Equal(t, "pw", form.Password)
}

func TestListFilesRequest(t *testing.T) {
	req := ListFilesRequest{
		Tags:      []string{"db, daily", "weekly"},
		MimeTypes: []string{"application/gzip"},
		OnlyMine:  true,
	}

	require.NoError(t, req.Validate())
	assert.Equal(t, []string{"db", "daily", "weekly"}, req.Tags)

	form := req.ToForm(2, 10)
	assert.Equal(t, 2, form.Page)
	assert.Equal(t, 10, form.Limit)
	assert.True(t, form.RequestsOnlyOwnFiles())

	bad := ListFilesRequest{MimeTypes: []string{"gzip"}}
	assert.Error(t, bad.Validate())
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(nil))
	assert.Equal(t, []string{}, splitList([]string{" , "}))
	assert.Equal(t, []string{"a", "b", "c"}, splitList([]string{"a,b", "c"}))
}
