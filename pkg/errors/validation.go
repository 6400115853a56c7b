package errors

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/lucasb-eyer/go-colorful"
)

// variableKeyRegex matches custom-property names without the leading "--".
var variableKeyRegex = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

// ValidateVariableKey validates a scope variable key such as "primary-color-rgb".
//
// Keys are lower-case kebab-case identifiers. The leading "--" of the emitted
// custom property is added by the renderers and must not be part of the key.
func ValidateVariableKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidKey, "variable key cannot be empty")
	}
	if len(key) > 128 {
		return New(ErrCodeInvalidKey, "variable key too long (max 128 characters): %q", key)
	}
	if strings.HasPrefix(key, "--") {
		return New(ErrCodeInvalidKey, "variable key must not start with '--': %q", key)
	}
	if !variableKeyRegex.MatchString(key) {
		return New(ErrCodeInvalidKey, "invalid variable key %q (use lower-case kebab-case)", key)
	}
	return nil
}

// ValidateValue validates a literal CSS value bound to a variable key.
//
// The value is emitted verbatim inside a declaration block, so characters that
// would terminate or open a block are rejected. Values for keys ending in
// "-rgb" must be space-separated channel triples, and values starting with
// "#" must be valid hex colors.
func ValidateValue(key, value string) error {
	v := strings.TrimSpace(value)
	if v == "" {
		return New(ErrCodeInvalidValue, "value for %q cannot be empty", key)
	}
	for _, r := range v {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidValue, "value for %q contains control characters", key)
		}
	}
	if strings.ContainsAny(v, ";{}") {
		return New(ErrCodeInvalidValue, "value for %q contains invalid characters: %q", key, v)
	}
	if strings.HasSuffix(key, "-rgb") {
		return ValidateRGBTriple(key, v)
	}
	if strings.HasPrefix(v, "#") {
		return ValidateHexColor(key, v)
	}
	return nil
}

// ValidateHexColor validates a "#rgb" or "#rrggbb" color.
func ValidateHexColor(key, value string) error {
	if len(value) != 4 && len(value) != 7 {
		return New(ErrCodeInvalidColor, "malformed hex color for %q: %q", key, value)
	}
	if strings.Trim(value[1:], "0123456789abcdefABCDEF") != "" {
		return New(ErrCodeInvalidColor, "malformed hex color for %q: %q", key, value)
	}
	if _, err := colorful.Hex(value); err != nil {
		return Wrap(ErrCodeInvalidColor, err, "malformed hex color for %q: %q", key, value)
	}
	return nil
}

// ValidateRGBTriple validates a space-separated "r g b" channel triple, the
// form consumed by "rgb(var(--x) / <alpha-value>)" indirections.
func ValidateRGBTriple(key, value string) error {
	parts := strings.Fields(value)
	if len(parts) != 3 {
		return New(ErrCodeInvalidColor, "%q must be an 'r g b' triple, got %q", key, value)
	}
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > 255 {
			return New(ErrCodeInvalidColor, "%q has an out-of-range channel %q", key, p)
		}
	}
	return nil
}

// ValidateSelector validates a CSS selector used to scope a variable layer.
func ValidateSelector(name, selector string) error {
	s := strings.TrimSpace(selector)
	if s == "" {
		return New(ErrCodeInvalidSelector, "selector for %s cannot be empty", name)
	}
	if strings.ContainsAny(s, "{};") {
		return New(ErrCodeInvalidSelector, "selector for %s contains invalid characters: %q", name, s)
	}
	return nil
}

// pluginNameRegex matches plugin identifiers such as "aspect-ratio".
var pluginNameRegex = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// ValidatePluginName validates the shape of a plugin identifier.
// Whether the plugin is known is decided by the config package.
func ValidatePluginName(name string) error {
	if name == "" {
		return New(ErrCodeUnknownPlugin, "plugin name cannot be empty")
	}
	if !pluginNameRegex.MatchString(name) {
		return New(ErrCodeUnknownPlugin, "invalid plugin name: %q", name)
	}
	return nil
}

// ValidatePath validates a content glob for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidInput, "path must be relative (cannot start with /): %q", path)
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidInput, "path cannot contain backslashes: %q", path)
	}

	return nil
}
