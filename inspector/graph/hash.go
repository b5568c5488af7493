package graph

import (
	"github.com/minio/highwayhash"
)

var hashKey = []byte("webaudit-content-digest-key-0001")

// Hash digests raw file content into the fingerprint stored on File.ContentHash.
func Hash(data []byte) (uint64, error) {
	h, err := highwayhash.New64(hashKey)
	if err != nil {
		return 0, err
	}
	_, err = h.Write(data)
	return h.Sum64(), err
}
