package service

import (
	"context"
	"math/rand"
	"strings"

	"github.com/spec-kit/project-tracker/internal/domain"
	apperrors "github.com/spec-kit/project-tracker/pkg/util/errorutil"
)

// LetterSource yields a single uppercase ASCII letter. The default source is
// random; tests inject a deterministic one.
type LetterSource func() byte

// RandomLetterSource returns a uniformly random letter A-Z.
func RandomLetterSource() byte {
	return byte('A' + rand.Intn(26))
}

// keyExistsFunc reports whether a project key is already taken.
type keyExistsFunc func(ctx context.Context, key string) (bool, error)

// deriveBaseKey turns a project name into the 3-letter base candidate:
// initials of the letters-and-spaces-only name, uppercased, padded with
// letters from the source when short, truncated to 3.
func deriveBaseKey(name string, letters LetterSource) string {
	var cleaned strings.Builder
	for _, r := range name {
		if r == ' ' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			cleaned.WriteRune(r)
		}
	}

	var base strings.Builder
	for _, word := range strings.Fields(cleaned.String()) {
		base.WriteByte(word[0])
	}
	key := strings.ToUpper(base.String())

	for len(key) < domain.ProjectKeyLength {
		key += string(letters())
	}
	return key[:domain.ProjectKeyLength]
}

// resolveKey walks the collision ladder: the base key first, then the base's
// first two letters with 'A' through 'Z' as the third. All 26 third-letter
// variants taken means the key space for this base is exhausted.
func resolveKey(ctx context.Context, baseKey string, exists keyExistsFunc) (string, error) {
	taken, err := exists(ctx, baseKey)
	if err != nil {
		return "", err
	}
	if !taken {
		return baseKey, nil
	}

	prefix := baseKey[:2]
	for letter := byte('A'); letter <= 'Z'; letter++ {
		candidate := prefix + string(letter)
		if candidate == baseKey {
			continue
		}
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", apperrors.NewKeySpaceExhausted(baseKey)
}
