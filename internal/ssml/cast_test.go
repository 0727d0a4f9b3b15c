package ssml_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/book-expert/ssml-service/internal/ssml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const speakOpen = `<speak version="1.0" xmlns="http://www.w3.org/2001/10/synthesis" ` +
	`xmlns:mstts="https://www.w3.org/2001/mstts" xml:lang="en-US">`

var errReadFailed = errors.New("read failed")

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errReadFailed
}

// parseDocument parses serialized markup back into a tree.
func parseDocument(t *testing.T, markup string) *etree.Element {
	t.Helper()

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(markup))
	require.NotNil(t, doc.Root())

	return doc.Root()
}

// describe renders an element tree as a single line, ignoring whitespace-only
// text, so that structurally equal trees produce equal strings.
func describe(element *etree.Element) string {
	var builder strings.Builder

	builder.WriteString("<" + element.FullTag())

	for _, attr := range element.Attr {
		fmt.Fprintf(&builder, " %s=%q", attr.FullKey(), attr.Value)
	}

	builder.WriteString(">")

	for _, token := range element.Child {
		switch tok := token.(type) {
		case *etree.Element:
			builder.WriteString(describe(tok))
		case *etree.CharData:
			if !tok.IsWhitespace() {
				builder.WriteString(tok.Data)
			}
		}
	}

	builder.WriteString("</" + element.FullTag() + ">")

	return builder.String()
}

func sentenceTexts(voice *etree.Element) []string {
	texts := []string{}

	for _, s := range voice.SelectElement("p").SelectElements("s") {
		texts = append(texts, s.Text())
	}

	return texts
}

func TestCast_SingleSentenceWithoutSilence(t *testing.T) {
	t.Parallel()

	opts := ssml.DefaultOptions()
	opts.Speaker = "X"
	opts.LeadingSilence = ""
	opts.TrailingSilence = ""

	out, err := ssml.Cast("Hello world.", opts)
	require.NoError(t, err)

	expected := speakOpen + `<voice name="X"><p><s>Hello world.</s></p></voice></speak>`
	assert.Equal(t, expected, out)

	root := parseDocument(t, out)
	voices := root.SelectElements("voice")
	require.Len(t, voices, 1)
	assert.Equal(t, "X", voices[0].SelectAttrValue("name", ""))
	assert.Empty(t, voices[0].SelectElements("mstts:silence"))
	require.Len(t, voices[0].SelectElements("p"), 1)
	assert.Equal(t, []string{"Hello world."}, sentenceTexts(voices[0]))
}

func TestCast_Defaults(t *testing.T) {
	t.Parallel()

	out, err := ssml.Cast("  Hello there. How are you?  ", ssml.DefaultOptions())
	require.NoError(t, err)

	expected := speakOpen +
		`<voice name="en-US-AvaMultilingualNeural">` +
		`<mstts:silence type="Leading" value="1s"/>` +
		`<mstts:silence type="Trailing" value="1s"/>` +
		`<p><s>Hello there.</s><s>How are you?</s></p>` +
		`</voice></speak>`
	assert.Equal(t, expected, out)
	assert.False(t, strings.HasPrefix(out, "<?xml"))
}

func TestCast_SilenceAndLexiconOrder(t *testing.T) {
	t.Parallel()

	opts := ssml.DefaultOptions()
	opts.LeadingSilence = "500ms"
	opts.TrailingSilence = ""
	opts.LexiconURI = "https://example.com/lexicon.xml"

	out, err := ssml.Cast("Go.", opts)
	require.NoError(t, err)

	voice := parseDocument(t, out).SelectElement("voice")
	require.NotNil(t, voice)

	children := voice.ChildElements()
	require.Len(t, children, 3)
	assert.Equal(t, "mstts:silence", children[0].FullTag())
	assert.Equal(t, "Leading", children[0].SelectAttrValue("type", ""))
	assert.Equal(t, "500ms", children[0].SelectAttrValue("value", ""))
	assert.Equal(t, "lexicon", children[1].Tag)
	assert.Equal(t, "https://example.com/lexicon.xml", children[1].SelectAttrValue("uri", ""))
	assert.Equal(t, "p", children[2].Tag)
}

func TestCast_EmptyTextProducesEmptyParagraph(t *testing.T) {
	t.Parallel()

	opts := ssml.DefaultOptions()
	opts.LeadingSilence = ""
	opts.TrailingSilence = ""

	for _, input := range []string{"", "   \n\t", "no terminator"} {
		out, err := ssml.Cast(input, opts)
		require.NoError(t, err)
		assert.Equal(t, speakOpen+`<voice name="en-US-AvaMultilingualNeural"><p/></voice></speak>`, out)
	}
}

func TestCast_EscapesMarkupInText(t *testing.T) {
	t.Parallel()

	out, err := ssml.Cast("Fish & chips <cheap>.", ssml.DefaultOptions())
	require.NoError(t, err)

	assert.Contains(t, out, "<s>Fish &amp; chips &lt;cheap&gt;.</s>")

	voice := parseDocument(t, out).SelectElement("voice")
	assert.Equal(t, []string{"Fish & chips <cheap>."}, sentenceTexts(voice))
}

func TestCast_IndentIsStructurallyEqual(t *testing.T) {
	t.Parallel()

	text := "First sentence. Second one! Third?"
	opts := ssml.DefaultOptions()
	opts.LexiconURI = "https://example.com/lexicon.xml"

	flat, err := ssml.Cast(text, opts)
	require.NoError(t, err)

	opts.Indent = true

	indented, err := ssml.Cast(text, opts)
	require.NoError(t, err)

	assert.NotEqual(t, flat, indented)
	assert.Contains(t, indented, "\n  <voice")
	assert.Equal(t, describe(parseDocument(t, flat)), describe(parseDocument(t, indented)))
}

func TestCast_CustomSegmenter(t *testing.T) {
	t.Parallel()

	opts := ssml.DefaultOptions()
	opts.Segmenter = ssml.SegmenterFunc(func(text string) []string {
		return strings.Split(text, "\n")
	})

	out, err := ssml.Cast("line one\nline two", opts)
	require.NoError(t, err)

	voice := parseDocument(t, out).SelectElement("voice")
	assert.Equal(t, []string{"line one", "line two"}, sentenceTexts(voice))
}

func TestCast_InvalidOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(opts *ssml.Options)
	}{
		{name: "empty speaker", mutate: func(opts *ssml.Options) { opts.Speaker = "" }},
		{name: "blank speaker", mutate: func(opts *ssml.Options) { opts.Speaker = "  " }},
		{name: "nil segmenter", mutate: func(opts *ssml.Options) { opts.Segmenter = nil }},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			opts := ssml.DefaultOptions()
			testCase.mutate(&opts)

			out, err := ssml.Cast("Hello.", opts)
			require.ErrorIs(t, err, ssml.ErrInvalidOptions)
			assert.Empty(t, out)
		})
	}
}

func TestOptions_WithPattern(t *testing.T) {
	t.Parallel()

	base := ssml.DefaultOptions()

	opts, err := base.WithPattern(ssml.PeriodRunPattern)
	require.NoError(t, err)

	out, err := ssml.Cast("A. B! C?", opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"A.", "B! C?"}, sentenceTexts(parseDocument(t, out).SelectElement("voice")))

	_, err = base.WithPattern(`(a)(b)`)
	require.ErrorIs(t, err, ssml.ErrInvalidPattern)
	assert.Equal(t, ssml.DefaultSegmenter(), base.Segmenter)
}

func TestCastReader(t *testing.T) {
	t.Parallel()

	out, err := ssml.CastReader(strings.NewReader("From a stream."), ssml.DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, out, "<s>From a stream.</s>")

	_, err = ssml.CastReader(failingReader{}, ssml.DefaultOptions())
	require.ErrorIs(t, err, errReadFailed)
}
