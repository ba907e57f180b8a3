package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateWord(t *testing.T) {
	t.Run("Valid Words", func(t *testing.T) {
		words := []string{
			"Apple",
			"mother-in-law",
			"don't",
			"vis-a-vis",
			"piece of cake",
			"42",
			"déjà vu",
		}
		for _, w := range words {
			got, err := ValidateWord(w)
			require.NoError(t, err, "word %q should be valid", w)
			assert.Equal(t, w, got)
		}
	})

	t.Run("Trims Surrounding Whitespace", func(t *testing.T) {
		got, err := ValidateWord("  Apple \t")
		require.NoError(t, err)
		assert.Equal(t, "Apple", got)
	})

	t.Run("Preserves Case", func(t *testing.T) {
		got, err := ValidateWord("APPLE")
		require.NoError(t, err)
		assert.Equal(t, "APPLE", got)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := ValidateWord("")
		assert.Error(t, err)

		_, err = ValidateWord("   ")
		assert.Error(t, err)
	})

	t.Run("Too Long", func(t *testing.T) {
		_, err := ValidateWord(strings.Repeat("a", MaxWordLength+1))
		assert.Error(t, err)

		_, err = ValidateWord(strings.Repeat("a", MaxWordLength))
		assert.NoError(t, err)
	})

	t.Run("Rejects Markup", func(t *testing.T) {
		inputs := []string{
			"<script>alert(1)</script>",
			"javascript:alert(1)",
			"onerror=alert(1)",
		}
		for _, w := range inputs {
			_, err := ValidateWord(w)
			assert.Error(t, err, "word %q should be rejected", w)
		}
	})

	t.Run("Rejects Expression Keywords", func(t *testing.T) {
		_, err := ValidateWord("list_append")
		assert.Error(t, err)
	})

	t.Run("Rejects Invalid Characters", func(t *testing.T) {
		inputs := []string{
			"apple;drop",
			"a{b}",
			"word#tag",
			"fifty%",
		}
		for _, w := range inputs {
			_, err := ValidateWord(w)
			assert.Error(t, err, "word %q should be rejected", w)
		}
	})
}
