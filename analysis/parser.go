package analysis

import (
	"regexp"
	"strings"
	"unicode"
)

// The tag protocol is a strict prefix: the model is instructed to start its
// response with [CLASSIFICATION: <value>]. A tag appearing anywhere else in
// the text is not recognized.
var classificationPattern = regexp.MustCompile(`(?i)^\s*\[\s*classification\s*:\s*([a-z]+)\s*\]\n?`)

var classifications = map[string]struct{}{
	"green":  {},
	"yellow": {},
	"red":    {},
}

// ParseClassificationTag splits a leading classification tag off the raw
// model output. It returns the text with the tag, one trailing newline and
// any leading whitespace removed, and the lowercase classification. When no
// valid tag leads the text, including when the tag carries an unknown value,
// the input is returned unchanged with a nil classification. Everything
// after the stripped prefix is preserved verbatim.
func ParseClassificationTag(raw string) (string, *string) {
	if raw == "" {
		return "", nil
	}

	match := classificationPattern.FindStringSubmatch(raw)
	if match == nil {
		return raw, nil
	}

	classification := strings.ToLower(match[1])
	if _, ok := classifications[classification]; !ok {
		return raw, nil
	}

	cleaned := strings.TrimLeftFunc(raw[len(match[0]):], unicode.IsSpace)
	return cleaned, &classification
}
