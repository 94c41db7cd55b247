package shortener

import (
	"fmt"

	"github.com/jaevor/go-nanoid"
)

const (
	// GeneratedAlphabet is the symbol set of generated codes.
	GeneratedAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	// GeneratedCodeLength is the length of generated codes.
	GeneratedCodeLength = 7
)

// CodeGenerator produces candidate short codes. Candidates are not guaranteed to be unique.
type CodeGenerator func() string

// NewCodeGenerator returns a generator drawing uniformly from GeneratedAlphabet.
// The returned generator reads from crypto/rand and is safe for concurrent use.
// Lengths above MaxAliasLength are rejected since such codes could never be stored or resolved.
func NewCodeGenerator(length int) (CodeGenerator, error) {
	if length > MaxAliasLength {
		return nil, fmt.Errorf("create code generator: length %d exceeds %d", length, MaxAliasLength)
	}

	gen, err := nanoid.CustomASCII(GeneratedAlphabet, length)
	if err != nil {
		return nil, fmt.Errorf("create code generator: %w", err)
	}

	return CodeGenerator(gen), nil
}
