package security

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

const (
	// MaxWordLength defines the maximum allowed length for a saved word
	MaxWordLength = 100
)

// dangerousPatterns contains regex patterns that could indicate injection attempts
var dangerousPatterns = []*regexp.Regexp{
	// XSS patterns (word lists are rendered back into a browser popup)
	regexp.MustCompile(`(?i)(<script|</script|javascript:|vbscript:|onload=|onerror=)`),
	// Expression attribute smuggling
	regexp.MustCompile(`(?i)(list_append|attribute_exists|attribute_not_exists)`),
}

// ValidateWord validates and sanitizes a word before it is stored or matched.
// It trims surrounding whitespace and rejects empty, oversized, or unsafe input.
func ValidateWord(word string) (string, error) {
	word = strings.TrimSpace(word)

	if word == "" {
		return "", errors.New("word must not be empty")
	}

	if len(word) > MaxWordLength {
		return "", errors.New("word too long")
	}

	lowerWord := strings.ToLower(word)
	for _, pattern := range dangerousPatterns {
		if pattern.MatchString(lowerWord) {
			return "", errors.New("word contains invalid characters")
		}
	}

	for _, char := range word {
		if !isValidWordChar(char) {
			return "", errors.New("word contains invalid characters")
		}
	}

	return word, nil
}

// isValidWordChar checks if a character is safe for a saved word
func isValidWordChar(char rune) bool {
	return unicode.IsLetter(char) ||
		unicode.IsDigit(char) ||
		unicode.IsSpace(char) ||
		char == '-' || char == '\'' || char == '.' || char == ','
}
