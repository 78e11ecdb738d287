package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// Score bounds shared by validation and the color classifier.
const (
	MaxRelationshipScore = 10
	MaxDecisionWeighting = 100
	maxNameLength        = 256
)

// ValidateName validates a stakeholder name.
//
// Names are the primary key of a stakeholder and appear in reporting
// references, file exports and HTTP paths, so the rules reject:
//   - empty or whitespace-only names
//   - names longer than 256 characters
//   - control characters (including null bytes)
//   - leading or trailing whitespace
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "name cannot be empty")
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "name too long (max %d characters)", maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
	}
	if strings.TrimSpace(name) != name {
		return New(ErrCodeInvalidInput, "name cannot start or end with whitespace: %q", name)
	}
	return nil
}

// ValidateRelationshipScore checks that a relationship score is within 0..10.
func ValidateRelationshipScore(score int) error {
	if score < 0 || score > MaxRelationshipScore {
		return New(ErrCodeInvalidInput, "relationship score %d out of range (0-%d)", score, MaxRelationshipScore)
	}
	return nil
}

// ValidateDecisionWeighting checks that a decision weighting is within 0..100.
func ValidateDecisionWeighting(weight int) error {
	if weight < 0 || weight > MaxDecisionWeighting {
		return New(ErrCodeInvalidInput, "decision weighting %d out of range (0-%d)", weight, MaxDecisionWeighting)
	}
	return nil
}

// storeKeyRegex matches keys accepted by every store backend (file names,
// Redis keys and Mongo document ids).
var storeKeyRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateStoreKey validates a persistence key.
// Keys double as file names in the file store, so path separators and
// traversal sequences are rejected.
func ValidateStoreKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidPath, "store key cannot be empty")
	}
	if len(key) > 128 {
		return New(ErrCodeInvalidPath, "store key too long (max 128 characters)")
	}
	if strings.Contains(key, "..") {
		return New(ErrCodeInvalidPath, "store key cannot contain path traversal sequences (..)")
	}
	if !storeKeyRegex.MatchString(key) {
		return New(ErrCodeInvalidPath, "invalid store key: %q", key)
	}
	return nil
}
