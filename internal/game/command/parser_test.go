package command

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParse_Empty(t *testing.T) {
	result := Parse("")
	assert.Equal(t, "", result.Command)
	assert.Equal(t, "", result.RawArgs)
}

func TestParse_SingleWord(t *testing.T) {
	result := Parse("spin")
	assert.Equal(t, "spin", result.Command)
	assert.Equal(t, "", result.RawArgs)
}

func TestParse_Lowercase(t *testing.T) {
	result := Parse("SPIN")
	assert.Equal(t, "spin", result.Command)
}

func TestParse_WithArgs(t *testing.T) {
	result := Parse("add Free Coffee")
	assert.Equal(t, "add", result.Command)
	assert.Equal(t, "Free Coffee", result.RawArgs)
}

func TestParse_ExtraWhitespace(t *testing.T) {
	result := Parse("  add   Free   Coffee  ")
	assert.Equal(t, "add", result.Command)
	assert.Equal(t, "Free   Coffee", result.RawArgs)
}

func TestParse_ArgsKeepCase(t *testing.T) {
	result := Parse("EDIT 2 Grand PRIZE")
	assert.Equal(t, "edit", result.Command)
	assert.Equal(t, "2 Grand PRIZE", result.RawArgs)
}

func TestParseIndex(t *testing.T) {
	i, err := ParseIndex("1")
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	i, err = ParseIndex(" 12 ")
	require.NoError(t, err)
	assert.Equal(t, 11, i)

	_, err = ParseIndex("two")
	assert.ErrorIs(t, err, ErrBadIndex)
}

func TestSplitFirst(t *testing.T) {
	first, rest := SplitFirst("2  Grand prize ")
	assert.Equal(t, "2", first)
	assert.Equal(t, "Grand prize", rest)

	first, rest = SplitFirst("3")
	assert.Equal(t, "3", first)
	assert.Equal(t, "", rest)
}

func TestPropertyParseAlwaysLowercasesCommand(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		word := rapid.StringMatching(`[A-Za-z]{1,20}`).Draw(t, "word")
		result := Parse(word)
		for _, c := range result.Command {
			if c >= 'A' && c <= 'Z' {
				t.Fatalf("command %q contains uppercase char in Parse result %q", word, result.Command)
			}
		}
	})
}

func TestPropertyParseNonEmptyInputHasCommand(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		word := rapid.StringMatching(`[a-z]{1,10}`).Draw(t, "word")
		result := Parse(word)
		if result.Command == "" {
			t.Fatalf("non-empty input %q produced empty command", word)
		}
	})
}

// Property: ParseIndex inverts the one-based numbering shown to the user.
func TestPropertyParseIndexRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		i := rapid.IntRange(0, 10_000).Draw(t, "index")
		got, err := ParseIndex(strconv.Itoa(i + 1))
		if err != nil || got != i {
			t.Fatalf("ParseIndex(%d) = %d, %v", i+1, got, err)
		}
	})
}
