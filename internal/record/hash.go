package record

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// Domain prefixes for content-addressed identity. The version suffix
// enables future algorithm migration without colliding with old hashes.
const (
	DomainBlob   = "mimic/blob/v1"
	DomainCommit = "mimic/commit/v1"
)

// shaLength matches the git-style 40-hex-character identifiers the
// simulated APIs expose.
const shaLength = 40

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null separator prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ContentSHA computes a stable identifier for file content. The SHA
// depends only on the bytes, so a file that moves between paths keeps
// its identity, which is what rename detection relies on.
func ContentSHA(content []byte) string {
	return hashWithDomain(DomainBlob, content)[:shaLength]
}

// SyntheticSHA derives a fresh commit identifier from ancestor SHAs, for
// simulated merges and synthesized placeholder commits. A random UUID is
// mixed in so repeated calls with the same ancestors stay distinct.
func SyntheticSHA(ancestors ...string) string {
	h := sha256.New()
	h.Write([]byte(DomainCommit))
	h.Write([]byte{0x00})
	for _, sha := range ancestors {
		h.Write([]byte(sha))
		h.Write([]byte{0x00})
	}
	h.Write([]byte(uuid.NewString()))
	return hex.EncodeToString(h.Sum(nil))[:shaLength]
}
