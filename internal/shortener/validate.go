package shortener

import (
	"net/url"
	"regexp"
	"strings"
)

const (
	// MinAliasLength is the shortest accepted custom alias.
	MinAliasLength = 5
	// MaxAliasLength is the longest accepted custom alias.
	MaxAliasLength = 30
)

var codeCharset = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateLongURL checks that rawURL is a non-empty, absolute, well-formed URI with a host.
// Hostless schemes such as mailto: or urn: are not redirect targets and are rejected.
func ValidateLongURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" || strings.ContainsAny(rawURL, " \t\r\n") {
		return ErrInvalidInput
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return ErrInvalidInput
	}

	if !u.IsAbs() || u.Host == "" {
		return ErrInvalidInput
	}

	return nil
}

// ValidateAlias checks a custom alias against the charset and length rules.
func ValidateAlias(alias string) error {
	if len(alias) < MinAliasLength || len(alias) > MaxAliasLength {
		return ErrInvalidAlias
	}

	if !codeCharset.MatchString(alias) {
		return ErrInvalidAlias
	}

	return nil
}

// resolvable reports whether code could have been produced by the generator or accepted as an alias.
func resolvable(code Code) bool {
	return len(code) > 0 && len(code) <= MaxAliasLength && codeCharset.MatchString(string(code))
}
