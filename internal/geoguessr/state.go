package geoguessr

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/net/html"
)

// StateElementID is the id of the script element holding the page state.
const StateElementID = "__NEXT_DATA__"

// RawState is the parsed page state. Its shape depends on the client version
// and the game mode, so it is only ever read through the accessors in fields.go.
type RawState map[string]any

// ReadDocument locates the embedded state element in an HTML document and
// parses it. A missing element is a normal condition and returns false
// without logging; malformed JSON is logged and also returns false.
func ReadDocument(r io.Reader, logger *slog.Logger) (RawState, bool) {
	text, ok, err := StateText(r)
	if err != nil {
		logger.Warn("parsing page document", "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return ParseState(text, logger)
}

// StateText returns the raw text of the state element. False means the
// document has no such element.
func StateText(r io.Reader) ([]byte, bool, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, false, err
	}
	text, ok := stateText(doc)
	if !ok {
		return nil, false, nil
	}
	return []byte(text), true, nil
}

// ParseState parses the text content of the state element.
func ParseState(text []byte, logger *slog.Logger) (RawState, bool) {
	text = bytes.TrimSpace(text)
	if len(text) == 0 {
		return nil, false
	}

	var root any
	if err := json.Unmarshal(text, &root); err != nil {
		logger.Warn("malformed page state", "element", StateElementID, "error", err)
		return nil, false
	}

	obj, ok := root.(map[string]any)
	if !ok {
		logger.Debug("page state is not an object", "element", StateElementID)
		return nil, false
	}
	return RawState(obj), true
}

// stateText returns the concatenated text of the first element whose id is
// StateElementID.
func stateText(doc *html.Node) (string, bool) {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && attr(n, "id") == StateElementID {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if found == nil {
		return "", false
	}

	var sb strings.Builder
	for c := found.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String(), true
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
