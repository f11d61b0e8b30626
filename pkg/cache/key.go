package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// SnapshotKey derives the cache key for a rendered snapshot from the
// scenario document and the render parameters. Format is "png" or
// "svg"; width and height are the canvas size in pixels. Any further
// parameters that affect the output (font settings and the like) are
// appended as extra discriminators.
func SnapshotKey(scenario []byte, format string, width, height int, extra ...string) string {
	key := fmt.Sprintf("snapshot:%s:%dx%d:%s", format, width, height, Hash(scenario))
	if len(extra) > 0 {
		key += ":" + Hash([]byte(strings.Join(extra, "\x00")))[:16]
	}
	return key
}

// Hash returns the full hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
