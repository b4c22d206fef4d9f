// Package hasher computes the integrity hashes recorded in the lockfile and
// used to compare build artifacts.
package hasher

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
)

// CalculateSHA256 computes the SHA256 hash of the given content
// and returns it in the format "sha256:<hex_hash>".
func CalculateSHA256(content []byte) (string, error) {
	hasher := sha256.New()
	_, err := hasher.Write(content)
	if err != nil {
		return "", fmt.Errorf("failed to write content to hasher: %w", err)
	}
	return fmt.Sprintf("sha256:%s", hex.EncodeToString(hasher.Sum(nil))), nil
}

// HashFile computes the SHA256 hash of a file on disk in the same
// "sha256:<hex_hash>" format. Used to compare build outputs across runs.
func HashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s for hashing: %w", path, err)
	}
	return CalculateSHA256(data)
}
