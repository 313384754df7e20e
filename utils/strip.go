package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

var stripPolicy = bluemonday.StrictPolicy()

// StripHTML converts HTML markup to plain text: every tag is removed,
// entities are decoded, and runs of whitespace collapse to single
// spaces with paragraph breaks preserved as newlines.
func StripHTML(markup string) string {
	// Tags that imply a line break in the rendered text.
	breaks := strings.NewReplacer(
		"<br>", "\n",
		"<br/>", "\n",
		"<br />", "\n",
		"</p>", "\n",
		"</div>", "\n",
		"</tr>", "\n",
		"</li>", "\n",
	)
	markup = breaks.Replace(markup)

	text := stripPolicy.Sanitize(markup)
	text = html.UnescapeString(text)
	return CollapseWhitespace(text)
}

// CollapseWhitespace squeezes runs of spaces/tabs into one space and
// runs of blank lines into one newline.
func CollapseWhitespace(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// NormalizeSubject strips reply/forward prefixes so the root subject of
// a conversation can be recovered from any of its messages.
func NormalizeSubject(subject string) string {
	subject = strings.TrimSpace(subject)
	prefixes := []string{"re:", "fwd:", "fw:", "aw:", "wg:"}

	for {
		trimmed := false
		lower := strings.ToLower(subject)
		for _, prefix := range prefixes {
			if strings.HasPrefix(lower, prefix) {
				subject = strings.TrimSpace(subject[len(prefix):])
				trimmed = true
				break
			}
		}
		if !trimmed {
			break
		}
	}

	return subject
}
