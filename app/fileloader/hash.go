package fileloader

import (
	"encoding/hex"
	"fmt"

	"github.com/minio/highwayhash"
)

// fingerprintKey is the HighwayHash key for source fingerprints.
var fingerprintKey = []byte("circlesgraph-source-fingerprint!")

// Fingerprint calculates a HighwayHash of the decompressed content.
func Fingerprint(data []byte) (string, error) {
	hash, err := highwayhash.New(fingerprintKey)
	if err != nil {
		return "", fmt.Errorf("failed to create hash: %w", err)
	}
	if _, err := hash.Write(data); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
