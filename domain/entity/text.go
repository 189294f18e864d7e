package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// textSeparator joins the canonical text parts.
const textSeparator = ". "

// hashLength is the number of hex characters kept from the digest. The hash
// is a change detector over a corpus of at most a few thousand entities, not
// a security token, so a truncated prefix is plenty.
const hashLength = 16

// EmbeddingText renders an entity into its canonical embedding input.
// The rendering is a pure function of entity state: the same entity value
// always yields byte-identical text, so content hashes are reproducible
// across processes.
//
// The text always starts with the display name, followed by the natural
// language category phrase, then the variant-specific extension. Absent
// fields contribute nothing rather than placeholder text.
func EmbeddingText(e Entity) string {
	parts := []string{e.Name(), e.categoryPhrase()}
	parts = append(parts, e.extensionParts()...)

	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}

	return strings.Join(kept, textSeparator)
}

// ContentHash fingerprints canonical text for staleness detection. Equal text
// always hashes equally across platforms and process restarts.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])[:hashLength]
}
