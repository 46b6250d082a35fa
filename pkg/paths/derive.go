package paths

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

// PathHash returns the stable 8-hex-char hash used in prefix names.
// Derived from the absolute project path so the same project always
// maps to the same prefix, regardless of where devenv is invoked from.
func PathHash(absPath string) string {
	sum := sha256.Sum256([]byte(absPath))
	return hex.EncodeToString(sum[:])[:8]
}

// legacyPrefixName returns the prefix directory name older releases
// derived: URL-safe base64 of the absolute path, without padding.
// Returns "" for paths whose encoding would be unreasonably long.
func legacyPrefixName(absPath string) string {
	enc := base64.RawURLEncoding.EncodeToString([]byte(absPath))
	if len(enc) > 200 {
		// Older releases skipped the base64 scheme for deep paths, so
		// there is nothing to look for.
		return ""
	}
	return enc
}
