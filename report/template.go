package report

import (
	"regexp"
	"strings"
)

// ============================================================================
// PLACEHOLDER RESOLUTION
// ============================================================================
// Sentences are written as templates with {name} slots. Values are computed
// by the caller and substituted here; a slot with no value is dropped.
// Only the template is scanned: braces inside values are printed as-is.
// ============================================================================

// Resolve substitutes values into template. Keys are bare names ("min"),
// not the braced form.
func Resolve(template string, values map[string]string) string {
	cleaned := stripUnresolvedPlaceholders(template, values)

	pairs := make([]string, 0, len(values)*2)
	for name, value := range values {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(cleaned)
}

var placeholderRegex = regexp.MustCompile(`\{[a-z_]+\}`)

// stripUnresolvedPlaceholders removes the slots of template that have no
// value and tidies the spacing they leave behind.
func stripUnresolvedPlaceholders(template string, values map[string]string) string {
	dropped := false
	cleaned := placeholderRegex.ReplaceAllStringFunc(template, func(slot string) string {
		if _, ok := values[slot[1:len(slot)-1]]; ok {
			return slot
		}
		dropped = true
		return ""
	})
	if !dropped {
		return template
	}

	for strings.Contains(cleaned, "  ") {
		cleaned = strings.ReplaceAll(cleaned, "  ", " ")
	}
	cleaned = strings.ReplaceAll(cleaned, " .", ".")
	cleaned = strings.ReplaceAll(cleaned, " ,", ",")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.TrimRight(cleaned, " :-")
	if cleaned == "" {
		return template
	}
	return cleaned
}
