// Package text cleans prose before it is split into sentences.
//
// Sentence splitting is pattern based, so anything that looks like a sentence
// terminator but is not one ("Dr. Smith") produces a bogus break. The
// Normalizer rewrites those cases and tidies whitespace and typography so
// that each sentence element carries clean text.
package text

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Regex patterns for text normalization.
const (
	urlRegexPattern        = `https?://\S+`
	emailRegexPattern      = `[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`
	whitespaceRegexPattern = `\s+`
	placeholderFormat      = "\x00%d\x00"
	sentenceTerminator     = "."
)

// Punctuation constants.
const (
	emDash       = "—"
	enDash       = "–"
	figureDash   = "‒"
	ellipsis     = "..."
	ellipsisChar = "…"
)

// DefaultAbbreviations maps abbreviations that always lead into another word
// to a spoken form without the period.
var DefaultAbbreviations = map[string]string{
	"Mr.":   "Mister",
	"Mrs.":  "Misses",
	"Ms.":   "Miss",
	"Dr.":   "Doctor",
	"St.":   "Saint",
	"Prof.": "Professor",
	"e.g.":  "for example",
	"i.e.":  "that is",
	"vs.":   "versus",
}

// DefaultTerminalAbbreviations maps abbreviations that may also end a
// sentence. When one is followed by the end of the text, or by whitespace and
// an uppercase letter, its expansion keeps the period.
var DefaultTerminalAbbreviations = map[string]string{
	"Co.":   "Company",
	"Ltd.":  "Limited",
	"Corp.": "Corporation",
	"Inc.":  "Incorporated",
	"etc.":  "et cetera",
}

// Normalizer prepares text for sentence segmentation.
type Normalizer struct {
	urlPattern          *regexp.Regexp
	emailPattern        *regexp.Regexp
	whitespacePattern   *regexp.Regexp
	abbreviationPattern *regexp.Regexp
	expansions          map[string]string
	terminal            map[string]bool
	typographyReplacer  *strings.Replacer
}

// NewNormalizer creates a Normalizer using DefaultAbbreviations and
// DefaultTerminalAbbreviations.
func NewNormalizer() *Normalizer {
	return NewNormalizerWithAbbreviations(DefaultAbbreviations, DefaultTerminalAbbreviations)
}

// NewNormalizerWithAbbreviations creates a Normalizer that expands the given
// abbreviations. Abbreviations only match at the start of a word, and longer
// abbreviations win over their prefixes. A key present in both maps is
// treated as terminal.
func NewNormalizerWithAbbreviations(abbreviations, terminal map[string]string) *Normalizer {
	expansions := make(map[string]string, len(abbreviations)+len(terminal))
	for abbreviation, expansion := range abbreviations {
		expansions[abbreviation] = expansion
	}

	terminalSet := make(map[string]bool, len(terminal))
	for abbreviation, expansion := range terminal {
		expansions[abbreviation] = expansion
		terminalSet[abbreviation] = true
	}

	return &Normalizer{
		urlPattern:          regexp.MustCompile(urlRegexPattern),
		emailPattern:        regexp.MustCompile(emailRegexPattern),
		whitespacePattern:   regexp.MustCompile(whitespaceRegexPattern),
		abbreviationPattern: compileAbbreviations(expansions),
		expansions:          expansions,
		terminal:            terminalSet,
		typographyReplacer: strings.NewReplacer(
			emDash, "-",
			enDash, "-",
			figureDash, "-",
			ellipsisChar, ellipsis,
			"“", `"`, "”", `"`, // Smart quotes to standard quotes
			"‘", "'", "’", "'", // Smart single quotes to standard
		),
	}
}

// Normalize expands abbreviations, straightens quotes and dashes and collapses
// whitespace runs into single spaces. URLs and email addresses pass through
// untouched.
func (n *Normalizer) Normalize(text string) string {
	if text == "" {
		return text
	}

	preserved, tokens := n.preserveTokens(text)

	normalized := n.expandAbbreviations(preserved)
	normalized = n.typographyReplacer.Replace(normalized)
	normalized = strings.TrimSpace(n.whitespacePattern.ReplaceAllString(normalized, " "))

	return restoreTokens(normalized, tokens)
}

func (n *Normalizer) expandAbbreviations(text string) string {
	if n.abbreviationPattern == nil {
		return text
	}

	var builder strings.Builder

	last := 0

	for _, loc := range n.abbreviationPattern.FindAllStringIndex(text, -1) {
		match := text[loc[0]:loc[1]]

		builder.WriteString(text[last:loc[0]])
		builder.WriteString(n.expansions[match])

		if n.terminal[match] && endsSentence(text[loc[1]:]) {
			builder.WriteString(sentenceTerminator)
		}

		last = loc[1]
	}

	builder.WriteString(text[last:])

	return builder.String()
}

// endsSentence reports whether rest, the text after an abbreviation, starts a
// new sentence: nothing but whitespace, or whitespace then an uppercase letter.
func endsSentence(rest string) bool {
	trimmed := strings.TrimLeftFunc(rest, unicode.IsSpace)
	if trimmed == "" {
		return true
	}

	if len(trimmed) == len(rest) {
		return false
	}

	first, _ := utf8.DecodeRuneInString(trimmed)

	return unicode.IsUpper(first)
}

// preserveTokens swaps URLs and emails for placeholders so the periods inside
// them survive abbreviation expansion.
func (n *Normalizer) preserveTokens(text string) (string, []string) {
	var tokens []string

	replace := func(match string) string {
		tokens = append(tokens, match)

		return fmt.Sprintf(placeholderFormat, len(tokens)-1)
	}

	text = n.urlPattern.ReplaceAllStringFunc(text, replace)
	text = n.emailPattern.ReplaceAllStringFunc(text, replace)

	return text, tokens
}

func restoreTokens(text string, tokens []string) string {
	for i, token := range tokens {
		text = strings.Replace(text, fmt.Sprintf(placeholderFormat, i), token, 1)
	}

	return text
}

// compileAbbreviations builds one alternation over all abbreviations, longest
// first. It returns nil when there is nothing to expand.
func compileAbbreviations(abbreviations map[string]string) *regexp.Regexp {
	if len(abbreviations) == 0 {
		return nil
	}

	keys := make([]string, 0, len(abbreviations))
	for abbreviation := range abbreviations {
		keys = append(keys, regexp.QuoteMeta(abbreviation))
	}

	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}

		return keys[i] < keys[j]
	})

	return regexp.MustCompile(`\b(?:` + strings.Join(keys, "|") + `)`)
}
