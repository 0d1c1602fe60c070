package pipeline

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Reference is a numbered citation collected from a markdown document.
type Reference struct {
	Number int    // 1-based, first-seen order
	Title  string // link text, or the domain when the link text is empty
	URL    string // literal link target, used as the dedup key
}

var (
	// markdownLinkPattern matches [text](url). Captures: 1=text, 2=url.
	markdownLinkPattern = regexp.MustCompile(`\[([^\]]*)\]\(([^)]+)\)`)

	// bareURLPattern matches http://, https:// and www. tokens.
	bareURLPattern = regexp.MustCompile(`(?:https?://|www\.)[^\s<>"\[\]]+`)
)

// trailingPunctuation is stripped from bare URLs so that sentence punctuation
// does not become part of the dedup key.
const trailingPunctuation = ".,;:!?'"

// referenceSet assigns numbers to URLs in first-seen order.
// It lives for a single ExtractReferences call.
type referenceSet struct {
	byURL map[string]int
	refs  []Reference
}

func newReferenceSet() *referenceSet {
	return &referenceSet{byURL: make(map[string]int)}
}

// add registers rawURL if unseen and returns its number.
func (s *referenceSet) add(rawURL, title string) int {
	if n, ok := s.byURL[rawURL]; ok {
		return n
	}
	if title == "" {
		title = DomainTitle(rawURL)
	}
	n := len(s.refs) + 1
	s.byURL[rawURL] = n
	s.refs = append(s.refs, Reference{Number: n, Title: title, URL: rawURL})
	return n
}

// ExtractReferences replaces every markdown link and bare URL in content with a
// [n] marker and returns the rewritten markdown along with the references in
// ascending number order.
//
// Markdown links are processed first so a URL inside a link target is never
// counted twice. Anchor links ([text](#id)) are left untouched.
func ExtractReferences(content string) (string, []Reference) {
	refs := newReferenceSet()

	content = markdownLinkPattern.ReplaceAllStringFunc(content, func(match string) string {
		m := markdownLinkPattern.FindStringSubmatch(match)
		target := strings.TrimSpace(m[2])
		if strings.HasPrefix(target, "#") {
			return match
		}
		return marker(refs.add(target, strings.TrimSpace(m[1])))
	})

	content = replaceBareURLs(content, refs)

	return content, refs.refs
}

// replaceBareURLs substitutes URLs that appear in plain text.
// A token is skipped when it is glued to a preceding word character or to '['
// or when it runs into a closing ']', since those belong to link syntax.
func replaceBareURLs(content string, refs *referenceSet) string {
	locs := bareURLPattern.FindAllStringIndex(content, -1)
	if len(locs) == 0 {
		return content
	}

	var buf strings.Builder
	buf.Grow(len(content))
	last := 0

	for _, loc := range locs {
		start, end := loc[0], loc[1]
		if start > 0 && !isBareURLBoundary(content[start-1]) {
			continue
		}
		if end < len(content) && content[end] == ']' {
			continue
		}

		token := trimURLToken(content[start:end])
		if token == "" {
			continue
		}
		end = start + len(token)

		buf.WriteString(content[last:start])
		buf.WriteString(marker(refs.add(token, "")))
		last = end
	}

	buf.WriteString(content[last:])
	return buf.String()
}

// isBareURLBoundary reports whether c may precede a bare URL.
func isBareURLBoundary(c byte) bool {
	if c == '[' || c == '_' {
		return false
	}
	isAlnum := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
	return !isAlnum
}

// trimURLToken strips trailing punctuation and unbalanced closing parentheses.
func trimURLToken(token string) string {
	for token != "" {
		last := token[len(token)-1]
		switch {
		case strings.IndexByte(trailingPunctuation, last) >= 0:
			token = token[:len(token)-1]
		case last == ')' && strings.Count(token, "(") < strings.Count(token, ")"):
			token = token[:len(token)-1]
		default:
			return token
		}
	}
	return token
}

// DomainTitle derives a display title from a URL's host.
// The scheme defaults to https when absent and a leading "www." is dropped.
// Returns rawURL unchanged when no host can be parsed.
func DomainTitle(rawURL string) string {
	target := strings.TrimSpace(rawURL)
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = "https://" + target
	}

	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return strings.TrimPrefix(u.Host, "www.")
}

// marker formats a citation marker.
func marker(n int) string {
	return "[" + strconv.Itoa(n) + "]"
}
