package naming

import (
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Alphabet is the character set session tokens are drawn from.
const Alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// DefaultTokenLength is the token length used when none is configured.
const DefaultTokenLength = 8

// Largest multiple of len(Alphabet) that fits in a byte; bytes at or above
// it are rejected so every character is equally likely.
const rejectAbove = 256 - 256%len(Alphabet)

var randReader io.Reader = rand.Reader

// Token returns a random string of length n drawn from Alphabet.
func Token(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("token length must be positive, got %d", n)
	}

	out := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(out) < n {
		if _, err := io.ReadFull(randReader, buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= rejectAbove {
				continue
			}
			out = append(out, Alphabet[int(b)%len(Alphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}

// IsToken reports whether s is non-empty and made only of Alphabet characters.
func IsToken(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !strings.ContainsRune(Alphabet, c) {
			return false
		}
	}
	return true
}

// ImageTag joins an image prefix and a token: ImageTag("claude-vibe", "abc") is "claude-vibe-abc".
func ImageTag(prefix, token string) string {
	return strings.TrimSuffix(prefix, "-") + "-" + token
}

// TokenFromBranch recovers the token from a session branch name.
// Branches without the prefix fall back to their last path element.
func TokenFromBranch(prefix, branch string) string {
	if rest, ok := strings.CutPrefix(branch, prefix); ok && rest != "" {
		return rest
	}
	return filepath.Base(branch)
}

// PathHash returns the first 8 hex characters of MD5(path).
func PathHash(path string) string {
	sum := md5.Sum([]byte(path))
	return hex.EncodeToString(sum[:])[:8]
}
