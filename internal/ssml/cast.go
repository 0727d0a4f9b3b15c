// Package ssml builds and rewrites Speech Synthesis Markup Language documents.
//
// Cast turns prose into a speak → voice → p → s tree, one s element per
// sentence. Modify opens an existing document and replaces the voice name or
// the lexicon reference in place.
package ssml

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
)

// Namespaces and fixed attribute values of the speak element.
const (
	SynthesisNamespace = "http://www.w3.org/2001/10/synthesis"
	MSTTSNamespace     = "https://www.w3.org/2001/mstts"
	SpeakVersion       = "1.0"
	SpeakLanguage      = "en-US"
)

// Element names.
const (
	tagSpeak   = "speak"
	tagVoice   = "voice"
	tagSilence = "mstts:silence"
	tagLexicon = "lexicon"
	tagP       = "p"
	tagS       = "s"
)

// Attribute names and values.
const (
	attrVersion    = "version"
	attrXMLNS      = "xmlns"
	attrXMLNSMSTTS = "xmlns:mstts"
	attrLang       = "xml:lang"
	attrName       = "name"
	attrType       = "type"
	attrValue      = "value"
	attrURI        = "uri"

	silenceLeading  = "Leading"
	silenceTrailing = "Trailing"
)

// Cast segments text into sentences and returns the serialized document.
func Cast(text string, opts Options) (string, error) {
	err := opts.Validate()
	if err != nil {
		return "", err
	}

	sentences := opts.Segmenter.Segment(strings.TrimSpace(text))

	doc := etree.NewDocumentWithRoot(
		newSpeak(newVoice(opts, newParagraph(sentences))),
	)

	if opts.Indent {
		doc.Indent(defaultIndentSpaces)
	}

	out, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("failed to serialize document: %w", err)
	}

	return strings.TrimRight(out, "\n"), nil
}

// CastReader reads r to the end and casts its contents.
func CastReader(r io.Reader, opts Options) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	return Cast(string(data), opts)
}

func newSpeak(voice *etree.Element) *etree.Element {
	speak := etree.NewElement(tagSpeak)
	speak.CreateAttr(attrVersion, SpeakVersion)
	speak.CreateAttr(attrXMLNS, SynthesisNamespace)
	speak.CreateAttr(attrXMLNSMSTTS, MSTTSNamespace)
	speak.CreateAttr(attrLang, SpeakLanguage)
	speak.AddChild(voice)

	return speak
}

func newVoice(opts Options, paragraph *etree.Element) *etree.Element {
	voice := etree.NewElement(tagVoice)
	voice.CreateAttr(attrName, opts.Speaker)

	if opts.LeadingSilence != "" {
		voice.AddChild(newSilence(silenceLeading, opts.LeadingSilence))
	}

	if opts.TrailingSilence != "" {
		voice.AddChild(newSilence(silenceTrailing, opts.TrailingSilence))
	}

	if opts.LexiconURI != "" {
		voice.AddChild(newLexicon(opts.LexiconURI))
	}

	voice.AddChild(paragraph)

	return voice
}

func newSilence(kind, value string) *etree.Element {
	silence := etree.NewElement(tagSilence)
	silence.CreateAttr(attrType, kind)
	silence.CreateAttr(attrValue, value)

	return silence
}

func newLexicon(uri string) *etree.Element {
	lexicon := etree.NewElement(tagLexicon)
	lexicon.CreateAttr(attrURI, uri)

	return lexicon
}

func newParagraph(sentences []string) *etree.Element {
	paragraph := etree.NewElement(tagP)

	for _, sentence := range sentences {
		s := etree.NewElement(tagS)
		s.SetText(sentence)
		paragraph.AddChild(s)
	}

	return paragraph
}
