package ssml

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
)

// Modify parses the document read from r, applies opts to its first voice
// element and returns the re-serialized document. On error nothing is
// returned.
func Modify(r io.Reader, opts ModifyOptions) (string, error) {
	doc := etree.NewDocument()

	_, err := doc.ReadFrom(r)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrParse, err)
	}

	root, err := documentElement(doc)
	if err != nil {
		return "", err
	}

	voice := findFirst(root, tagVoice)
	if voice == nil {
		return "", ErrMissingVoice
	}

	if opts.Speaker != "" && voice.SelectAttrValue(attrName, "") != opts.Speaker {
		voice.CreateAttr(attrName, opts.Speaker)
	}

	if opts.LexiconURI != "" {
		replaceLexicon(voice, opts.LexiconURI)
	}

	out, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("failed to serialize document: %w", err)
	}

	return out, nil
}

// ModifyString is Modify over an in-memory document.
func ModifyString(document string, opts ModifyOptions) (string, error) {
	return Modify(strings.NewReader(document), opts)
}

// documentElement returns the single root element of doc. Anything other
// than whitespace, comments and processing instructions outside it makes the
// document malformed.
func documentElement(doc *etree.Document) (*etree.Element, error) {
	var root *etree.Element

	for _, token := range doc.Child {
		switch node := token.(type) {
		case *etree.Element:
			if root != nil {
				return nil, fmt.Errorf("%w: junk after document element <%s>", ErrParse, root.FullTag())
			}

			root = node
		case *etree.CharData:
			if !node.IsWhitespace() {
				return nil, fmt.Errorf("%w: text outside the document element", ErrParse)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrParse)
	}

	return root, nil
}

// findFirst returns the first element named tag in document order, ignoring
// any namespace prefix. The starting element itself is included.
func findFirst(element *etree.Element, tag string) *etree.Element {
	if element.Tag == tag {
		return element
	}

	for _, child := range element.ChildElements() {
		found := findFirst(child, tag)
		if found != nil {
			return found
		}
	}

	return nil
}

// replaceLexicon leaves voice with exactly one lexicon child pointing at uri.
// The lexicon goes before the first paragraph, where Cast puts it.
func replaceLexicon(voice *etree.Element, uri string) {
	for _, existing := range voice.SelectElements(tagLexicon) {
		voice.RemoveChild(existing)
	}

	lexicon := newLexicon(uri)

	paragraph := voice.SelectElement(tagP)
	if paragraph == nil {
		voice.AddChild(lexicon)

		return
	}

	voice.InsertChildAt(paragraph.Index(), lexicon)
}
