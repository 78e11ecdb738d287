package errors

import (
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "CEO", false},
		{"with spaces", "Jane Doe", false},
		{"unicode", "Zoë Müller", false},
		{"reserved looking", "None", false},

		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"too long", strings.Repeat("a", 300), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
		{"leading space", " CEO", true},
		{"trailing space", "CEO ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateName(%q) code = %q, want INVALID_INPUT", tt.input, GetCode(err))
			}
		})
	}
}

func TestValidateScores(t *testing.T) {
	tests := []struct {
		name    string
		check   func() error
		wantErr bool
	}{
		{"relationship min", func() error { return ValidateRelationshipScore(0) }, false},
		{"relationship max", func() error { return ValidateRelationshipScore(10) }, false},
		{"relationship negative", func() error { return ValidateRelationshipScore(-1) }, true},
		{"relationship above", func() error { return ValidateRelationshipScore(11) }, true},
		{"weighting min", func() error { return ValidateDecisionWeighting(0) }, false},
		{"weighting max", func() error { return ValidateDecisionWeighting(100) }, false},
		{"weighting negative", func() error { return ValidateDecisionWeighting(-5) }, true},
		{"weighting above", func() error { return ValidateDecisionWeighting(101) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.check(); (err != nil) != tt.wantErr {
				t.Errorf("error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateStoreKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"default key", "influenceMap", false},
		{"with dash", "q3-board", false},
		{"with dot", "acme.sales", false},

		{"empty", "", true},
		{"traversal", "../etc", true},
		{"slash", "a/b", true},
		{"space", "a b", true},
		{"leading dot", ".hidden", true},
		{"too long", strings.Repeat("k", 200), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStoreKey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStoreKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
