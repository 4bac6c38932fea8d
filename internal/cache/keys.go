package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// PrefixArchive namespaces archive entries
const PrefixArchive = "archive"

// secretParams are query parameters never made part of a key
var secretParams = []string{"private_token", "token", "access_token"}

// GenerateKey generates a cache key from a URL.
// The key is a SHA256 hash of the normalized URL.
func GenerateKey(rawURL string) string {
	normalized := NormalizeURL(rawURL)
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:])
}

// GenerateKeyWithPrefix generates a cache key with a prefix
func GenerateKeyWithPrefix(prefix, rawURL string) string {
	return prefix + ":" + GenerateKey(rawURL)
}

// ArchiveKey generates the key of an archive download URL
func ArchiveKey(archiveURL string) string {
	return GenerateKeyWithPrefix(PrefixArchive, archiveURL)
}

// NormalizeURL lowercases the host, drops credentials, the fragment and
// secret query parameters. Unparseable input is returned unchanged.
func NormalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	if u.Scheme == "" {
		u.Scheme = "https"
	}
	u.Host = strings.ToLower(u.Host)
	u.User = nil
	u.Fragment = ""

	q := u.Query()
	for _, p := range secretParams {
		q.Del(p)
	}
	u.RawQuery = q.Encode()

	return u.String()
}
