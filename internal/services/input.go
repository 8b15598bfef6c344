package services

import (
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// InputLimiter prepares untrusted text before it is embedded in a prompt.
type InputLimiter interface {
	Sanitize(text string) string
	Limit(text string) (string, bool)
}

type inputLimiter struct {
	maxChars int
	policy   *bluemonday.Policy
}

// NewInputLimiter returns a limiter that bounds text to maxChars runes.
// A non-positive maxChars disables the bound.
func NewInputLimiter(maxChars int) InputLimiter {
	return &inputLimiter{
		maxChars: maxChars,
		policy:   bluemonday.StrictPolicy(),
	}
}

// htmlTag matches common block and inline tags of pasted job board HTML.
// Angle-bracket text such as <jane@example.com> or List<T> does not match.
var htmlTag = regexp.MustCompile(`(?i)</?(p|br|li|ul|ol|div|span|h[1-6]|strong|b|em|i|a|table|tr|td|th|script|style)(\s[^<>]*)?/?>`)

// Sanitize strips markup when the text is HTML (job descriptions are often
// pasted from job boards). Plain text is returned unchanged.
func (l *inputLimiter) Sanitize(text string) string {
	if !htmlTag.MatchString(text) {
		return text
	}

	text = strings.NewReplacer(
		"<br>", "\n", "<br/>", "\n", "<br />", "\n",
		"</p>", "</p>\n", "</li>", "</li>\n", "</div>", "</div>\n",
		"</h1>", "</h1>\n", "</h2>", "</h2>\n", "</h3>", "</h3>\n",
	).Replace(text)

	return cleanLines(html.UnescapeString(l.policy.Sanitize(text)))
}

// Limit truncates text longer than the configured bound. It prefers to cut at
// a paragraph break, then at a sentence end, then at a word boundary.
func (l *inputLimiter) Limit(text string) (string, bool) {
	if l.maxChars <= 0 || utf8.RuneCountInString(text) <= l.maxChars {
		return text, false
	}

	head := string([]rune(text)[:l.maxChars])

	// Cuts that would discard more than half of the budget are not worth it.
	floor := len(head) / 2

	if idx := strings.LastIndex(head, "\n\n"); idx > floor {
		return strings.TrimSpace(head[:idx]), true
	}

	if idx := lastSentenceEnd(head); idx > floor {
		return strings.TrimSpace(head[:idx+1]), true
	}

	if idx := strings.LastIndexFunc(head, unicode.IsSpace); idx > floor {
		return strings.TrimSpace(head[:idx]), true
	}

	return head, true
}

func lastSentenceEnd(text string) int {
	return strings.LastIndexFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
}

// cleanLines trims every line and collapses runs of blank lines into a
// single paragraph break.
func cleanLines(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")

	var cleanedLines []string
	blank := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank && len(cleanedLines) > 0 {
				cleanedLines = append(cleanedLines, "")
			}
			blank = true
			continue
		}
		blank = false
		cleanedLines = append(cleanedLines, line)
	}

	return strings.Join(cleanedLines, "\n")
}
