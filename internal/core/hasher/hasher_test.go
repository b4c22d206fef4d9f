// Package hasher_test contains tests for the hasher package.
package hasher_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightconcept/stage-go/internal/core/hasher"
)

func TestCalculateSHA256_KnownString(t *testing.T) {
	t.Parallel()
	content := []byte("Hello, Stage!")
	// SHA256 hash of "Hello, Stage!" is 600eb49706a0446e507b2d70df2abc8de3250f45a16d8856afe1bb30acd9f8ce
	expectedHash := "sha256:600eb49706a0446e507b2d70df2abc8de3250f45a16d8856afe1bb30acd9f8ce"

	actualHash, err := hasher.CalculateSHA256(content)
	require.NoError(t, err, "CalculateSHA256 returned an unexpected error")
	assert.Equal(t, expectedHash, actualHash, "Calculated hash does not match expected hash")
}

func TestCalculateSHA256_EmptyContent(t *testing.T) {
	t.Parallel()
	content := []byte{}
	// SHA256 hash of an empty string is e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855
	expectedHash := "sha256:e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

	actualHash, err := hasher.CalculateSHA256(content)
	require.NoError(t, err, "CalculateSHA256 returned an unexpected error for empty content")
	assert.Equal(t, expectedHash, actualHash, "Calculated hash for empty content does not match expected hash")
}

func TestCalculateSHA256_DifferentContent(t *testing.T) {
	t.Parallel()
	content1 := []byte("stage-go-rocks")
	// SHA256 of "stage-go-rocks" is 894d0e09f7ffdfe5bf7aef5e10cd03167955979b602c90e1f7512d5e07f948c9
	expectedHash1 := "sha256:894d0e09f7ffdfe5bf7aef5e10cd03167955979b602c90e1f7512d5e07f948c9"

	content2 := []byte("stage-go-rules")
	// SHA256 of "stage-go-rules" is d0d216a18355298f94630b48992d284c6cf970fe066b1d30b0d5d5d7ec1546fd
	expectedHash2 := "sha256:d0d216a18355298f94630b48992d284c6cf970fe066b1d30b0d5d5d7ec1546fd"

	actualHash1, err1 := hasher.CalculateSHA256(content1)
	require.NoError(t, err1)
	assert.Equal(t, expectedHash1, actualHash1)

	actualHash2, err2 := hasher.CalculateSHA256(content2)
	require.NoError(t, err2)
	assert.Equal(t, expectedHash2, actualHash2)

	assert.NotEqual(t, actualHash1, actualHash2, "Hashes for different content should not be the same")
}

func TestHashFile_MatchesContentHash(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "bundle.js")
	content := []byte("bundle me")
	require.NoError(t, os.WriteFile(path, content, 0644))

	fromFile, err := hasher.HashFile(path)
	require.NoError(t, err)
	fromContent, err := hasher.CalculateSHA256(content)
	require.NoError(t, err)
	assert.Equal(t, fromContent, fromFile)
}

func TestHashFile_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := hasher.HashFile(filepath.Join(t.TempDir(), "nope.js"))
	assert.Error(t, err)
}
