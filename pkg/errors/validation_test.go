package errors

import (
	"strings"
	"testing"
)

func TestValidateVariableKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "background-color", false},
		{"rgb suffix", "primary-color-rgb", false},
		{"digits", "tag-h1-size", false},
		{"single word", "shadow", false},

		{"empty", "", true},
		{"leading dashes", "--background-color", true},
		{"upper case", "Background-Color", true},
		{"underscore", "card_bg", true},
		{"trailing dash", "card-", true},
		{"double dash", "card--bg", true},
		{"space", "card bg", true},
		{"too long", strings.Repeat("a", 129), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVariableKey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateVariableKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidKey) {
				t.Errorf("ValidateVariableKey(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidKey)
			}
		})
	}
}

func TestValidateValue(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		wantCode Code
	}{
		{"hex long", "background-color", "#f9fafb", ""},
		{"hex short", "border-color", "#fff", ""},
		{"rgb triple", "primary-color-rgb", "79 70 229", ""},
		{"shadow", "card-shadow", "0 4px 6px rgba(0, 0, 0, 0.1)", ""},
		{"gradient", "header-bg", "linear-gradient(135deg, #2c5aa0, #1e3f73)", ""},
		{"length", "radius", "0.5rem", ""},

		{"empty", "background-color", "  ", ErrCodeInvalidValue},
		{"semicolon", "background-color", "red; color: blue", ErrCodeInvalidValue},
		{"brace", "background-color", "red}", ErrCodeInvalidValue},
		{"newline", "background-color", "red\nblue", ErrCodeInvalidValue},
		{"bad hex", "background-color", "#f9fafz", ErrCodeInvalidColor},
		{"hex wrong length", "background-color", "#f9fa", ErrCodeInvalidColor},
		{"rgb two channels", "primary-color-rgb", "79 70", ErrCodeInvalidColor},
		{"rgb out of range", "primary-color-rgb", "79 70 300", ErrCodeInvalidColor},
		{"rgb hex", "primary-color-rgb", "#4f46e5", ErrCodeInvalidColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateValue(tt.key, tt.value)
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("ValidateValue(%q, %q) unexpected error: %v", tt.key, tt.value, err)
				}
				return
			}
			if !Is(err, tt.wantCode) {
				t.Errorf("ValidateValue(%q, %q) = %v, want code %v", tt.key, tt.value, err, tt.wantCode)
			}
		})
	}
}

func TestValidateSelector(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{":root", false},
		{`[data-theme="dark"]`, false},
		{`[data-theme="dark"] .portal, [data-theme="dark"].portal`, false},
		{"", true},
		{"   ", true},
		{".portal { color: red", true},
		{".portal;", true},
	}

	for _, tt := range tests {
		err := ValidateSelector("portal", tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateSelector(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidatePluginName(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"forms", false},
		{"aspect-ratio", false},
		{"container-queries", false},
		{"", true},
		{"@tailwindcss/forms", true},
		{"Forms", true},
	}

	for _, tt := range tests {
		err := ValidatePluginName(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePluginName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid glob", "./routes/**/*.html", false},
		{"valid nested", "templates/**/*.html", false},

		{"empty", "", true},
		{"absolute", "/etc/passwd", true},
		{"backslash", "templates\\*.html", true},
		{"null byte", "foo\x00bar", true},
		{"too long", strings.Repeat("a", 501), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
