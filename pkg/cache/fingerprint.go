package cache

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint derives the cache key for one file. It hashes the file
// content, the configuration fingerprint, and the tool version, so any
// input that could change the canonical output changes the key.
func Fingerprint(content []byte, configFingerprint, version string) string {
	d := xxhash.New()

	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], uint64(len(content)))
	_, _ = d.Write(n[:])
	_, _ = d.Write(content)
	_, _ = d.WriteString(configFingerprint)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(version)

	return fmt.Sprintf("%016x", d.Sum64())
}
