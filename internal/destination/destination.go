// Package destination resolves who is importing and into which board from
// the leaderboard site's own pages.
package destination

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

var ErrMissingContext = errors.New("missing destination context")

// PlayerClass is the class of the navbar element carrying the signed-in
// player's display name.
const PlayerClass = "nav-player"

// Context is what an import needs from the destination site.
type Context struct {
	PlayerName string
	BoardSlug  string
}

// BoardSlug returns the path segment that follows "boards" in rawURL, so
// both /boards/friends and /api/boards/friends/leaderboard resolve to
// "friends".
func BoardSlug(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: board url %q: %v", ErrMissingContext, rawURL, err)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, seg := range segments {
		if seg != "boards" || i+1 >= len(segments) {
			continue
		}
		slug, err := url.PathUnescape(segments[i+1])
		if err == nil && strings.TrimSpace(slug) != "" {
			return slug, nil
		}
	}
	return "", fmt.Errorf("%w: no board in %q", ErrMissingContext, rawURL)
}

// PlayerName returns the text of the first element with PlayerClass.
func PlayerName(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parsing page: %w", err)
	}

	n := findByClass(doc, PlayerClass)
	if n == nil {
		return "", fmt.Errorf("%w: not signed in", ErrMissingContext)
	}
	name := strings.Join(strings.Fields(textOf(n)), " ")
	if name == "" {
		return "", fmt.Errorf("%w: empty player name", ErrMissingContext)
	}
	return name, nil
}

// Resolve reads both fields from a rendered board page and its URL.
func Resolve(pageURL string, page io.Reader) (Context, error) {
	slug, err := BoardSlug(pageURL)
	if err != nil {
		return Context{}, err
	}
	name, err := PlayerName(page)
	if err != nil {
		return Context{}, err
	}
	return Context{PlayerName: name, BoardSlug: slug}, nil
}

func findByClass(n *html.Node, class string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key == "class" && hasClass(a.Val, class) {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByClass(c, class); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(attr, class string) bool {
	for _, c := range strings.Fields(attr) {
		if c == class {
			return true
		}
	}
	return false
}

func textOf(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textOf(c))
	}
	return sb.String()
}
