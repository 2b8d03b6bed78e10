package admin

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/sbercal/sbercal/storage"
)

const maxLoginLength = 20

// GenerateLogin derives an account login from a full name: surname plus the
// first initial of the given name, lowercased and stripped of everything but
// letters and digits. Collisions with existing accounts get a numeric suffix.
func GenerateLogin(ctx context.Context, users storage.UserRepository, fullName string) (string, error) {
	base := loginBase(fullName)
	if base == "" {
		return "", fmt.Errorf("cannot derive login from name %q", fullName)
	}

	candidate := base
	for suffix := 2; ; suffix++ {
		_, err := users.GetUser(ctx, candidate)
		if errors.Is(err, storage.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		candidate = fmt.Sprintf("%s%d", base, suffix)
	}
}

func loginBase(fullName string) string {
	fields := strings.Fields(strings.ToLower(fullName))
	if len(fields) == 0 {
		return ""
	}

	raw := fields[0]
	if len(fields) > 1 {
		for _, r := range fields[1] {
			raw += string(r)
			break
		}
	}

	var sb strings.Builder
	length := 0
	for _, r := range raw {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		sb.WriteRune(r)
		length++
		if length >= maxLoginLength {
			break
		}
	}
	return sb.String()
}

// GeneratePassword returns a random URL-safe initial password.
func GeneratePassword() (string, error) {
	raw := make([]byte, 8)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generating password: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
