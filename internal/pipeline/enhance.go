package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// CSS classes added to report elements so the stylesheet can target them.
const (
	TableClass      = "research-table"
	BlockquoteClass = "research-quote"
	CodeBlockClass  = "research-code"
)

// ErrEnhancement indicates the HTML tree could not be enhanced.
var ErrEnhancement = errors.New("HTML enhancement failed")

// EnhancementOutcome tells whether the enhancer changed the HTML.
type EnhancementOutcome int

const (
	// OutcomeEnhanced means HTML holds the rewritten fragment.
	OutcomeEnhanced EnhancementOutcome = iota
	// OutcomeOriginal means HTML holds the input unchanged and Err the reason.
	OutcomeOriginal
)

// Enhancement is the result of an enhancement pass. It is never a failure:
// when the tree cannot be processed the input comes back as OutcomeOriginal.
type Enhancement struct {
	Outcome EnhancementOutcome
	HTML    string
	Err     error
}

// HTMLEnhancer defines the contract for post-processing converted HTML.
type HTMLEnhancer interface {
	Enhance(ctx context.Context, fragment string) Enhancement
}

// ClassEnhancer appends CSS classes to elements by tag.
type ClassEnhancer struct {
	classes map[atom.Atom]string
}

// NewClassEnhancer creates a ClassEnhancer tagging tables, blockquotes and
// preformatted blocks with the research-* classes.
func NewClassEnhancer() *ClassEnhancer {
	return &ClassEnhancer{
		classes: map[atom.Atom]string{
			atom.Table:      TableClass,
			atom.Blockquote: BlockquoteClass,
			atom.Pre:        CodeBlockClass,
		},
	}
}

// Enhance parses fragment, adds the configured classes and renders it back.
// Any parse or render error, including a panic inside the HTML library,
// yields OutcomeOriginal with the input untouched.
func (e *ClassEnhancer) Enhance(ctx context.Context, fragment string) (out Enhancement) {
	original := Enhancement{Outcome: OutcomeOriginal, HTML: fragment}

	if err := ctx.Err(); err != nil {
		original.Err = err
		return original
	}

	defer func() {
		if r := recover(); r != nil {
			original.Err = fmt.Errorf("%w: %v", ErrEnhancement, r)
			out = original
		}
	}()

	nodes, err := parseFragment(fragment)
	if err != nil {
		original.Err = fmt.Errorf("%w: %v", ErrEnhancement, err)
		return original
	}

	for _, n := range nodes {
		e.walk(n)
	}

	rendered, err := renderNodes(nodes)
	if err != nil {
		original.Err = fmt.Errorf("%w: %v", ErrEnhancement, err)
		return original
	}

	return Enhancement{Outcome: OutcomeEnhanced, HTML: rendered}
}

func (e *ClassEnhancer) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		if class, ok := e.classes[n.DataAtom]; ok {
			addClass(n, class)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		e.walk(c)
	}
}

// addClass appends class to the node's class attribute, creating it if needed.
func addClass(n *html.Node, class string) {
	for i, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, existing := range strings.Fields(attr.Val) {
			if existing == class {
				return
			}
		}
		n.Attr[i].Val = strings.TrimSpace(attr.Val + " " + class)
		return
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: class})
}

// parseFragment parses HTML in a <body> context so no html/head/body
// wrapper is added.
func parseFragment(content string) ([]*html.Node, error) {
	body := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	return html.ParseFragment(strings.NewReader(content), body)
}

// renderNodes renders sibling nodes back into a single string.
func renderNodes(nodes []*html.Node) (string, error) {
	var buf strings.Builder
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}
