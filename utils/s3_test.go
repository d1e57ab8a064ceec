package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDataURI(t *testing.T) {
	img, err := DecodeDataURI("data:image/jpeg;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.ContentType)
	assert.Equal(t, ".jpg", img.Ext)
	assert.Equal(t, []byte("hello"), img.Data)

	_, err = DecodeDataURI("aGVsbG8=")
	assert.Error(t, err)

	_, err = DecodeDataURI("data:text/plain;base64,aGVsbG8=")
	assert.Error(t, err)

	_, err = DecodeDataURI("data:image/png;base64,@@@")
	assert.Error(t, err)
}

func TestWelcomeBody(t *testing.T) {
	assert.Contains(t, WelcomeBody("Anna"), "Anna")
	assert.Contains(t, WelcomeBody(""), "there")
}
