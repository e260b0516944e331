package service

import (
	"errors"
	"net/url"
	"strings"
)

// ErrTargetNotAllowed is returned when a requested post-handshake redirect
// fails validation. The message is part of the API contract.
var ErrTargetNotAllowed = errors.New("target URI not allowed")

const maxDecodePasses = 5

// ValidateRedirectTarget checks a caller-supplied redirect target against the
// host allowlist. The target is percent-decoded to a fixed point before any
// checks so encoded markup ("%3CsCrIpt", "%253C...") cannot slip through,
// then must parse as an absolute https URL whose host is allowlisted.
// Returns the original (undecoded) target on success.
func ValidateRedirectTarget(target string, allowedHosts []string) (string, error) {
	if target == "" {
		return "", nil
	}

	decoded, err := fullyDecode(target)
	if err != nil {
		return "", ErrTargetNotAllowed
	}

	lower := strings.ToLower(decoded)
	if strings.Contains(lower, "<") || strings.Contains(lower, "onerror=") {
		return "", ErrTargetNotAllowed
	}

	u, parseErr := url.Parse(decoded)
	if parseErr != nil {
		return "", ErrTargetNotAllowed
	}
	if u.Scheme != "https" || u.Host == "" {
		return "", ErrTargetNotAllowed
	}

	host := strings.ToLower(u.Hostname())
	for _, allowed := range allowedHosts {
		if host == strings.ToLower(allowed) {
			return target, nil
		}
	}

	return "", ErrTargetNotAllowed
}

// fullyDecode applies percent-decoding until the value stops changing, with
// a pass cap so crafted input can't loop us. Undecodable input (a stray "%"
// or bad escape) is an error: the markup check must see the fully normalized
// string, so anything that can't be normalized gets rejected, not passed
// through raw.
func fullyDecode(s string) (string, error) {
	for i := 0; i < maxDecodePasses; i++ {
		decoded, err := url.QueryUnescape(s)
		if err != nil {
			return "", err
		}
		if decoded == s {
			return s, nil
		}
		s = decoded
	}
	return "", errors.New("still decoding after pass cap")
}
