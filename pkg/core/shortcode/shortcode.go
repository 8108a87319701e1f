package shortcode

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

// alphabet has 64 URL-safe symbols; generated codes draw from all of them.
const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ-_"

const (
	// defaultAttempts bounds the escalating-length phase of GenerateUnique.
	defaultAttempts = 8
	// fallbackLength is used by the unbounded retry phase after all attempts collide.
	fallbackLength = 10
)

var (
	ErrEmpty         = errors.New("shortcode is empty")
	ErrInvalidFormat = errors.New("shortcode must be 4-12 characters of letters, numbers, - or _")
)

var customPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{4,12}$`)

// GenerateUnique draws random candidates until one passes the exists
// predicate. Lengths start at 5 and grow by one every two attempts; if every
// bounded attempt collides it falls back to length-10 candidates until one is
// free. The predicate must cover both stored codes and any codes already
// reserved in the current batch.
func GenerateUnique(exists func(string) bool) (string, error) {
	for i := 0; i < defaultAttempts; i++ {
		candidate, err := random(5 + i/2)
		if err != nil {
			return "", err
		}
		if !exists(candidate) {
			return candidate, nil
		}
	}
	for {
		candidate, err := random(fallbackLength)
		if err != nil {
			return "", err
		}
		if !exists(candidate) {
			return candidate, nil
		}
	}
}

// ValidateCustom checks a user-supplied code and returns the trimmed value.
// It fails with ErrEmpty for a blank code and ErrInvalidFormat when the
// trimmed code is not 4-12 characters of [A-Za-z0-9_-].
func ValidateCustom(code string) (string, error) {
	if code == "" {
		return "", ErrEmpty
	}
	trimmed := strings.TrimSpace(code)
	if !customPattern.MatchString(trimmed) {
		return "", ErrInvalidFormat
	}
	return trimmed, nil
}

func random(length int) (string, error) {
	b := make([]byte, length)
	for i := range b {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", fmt.Errorf("shortcode: %w", err)
		}
		b[i] = alphabet[num.Int64()]
	}
	return string(b), nil
}
