package render

import (
	"strings"

	xhtml "golang.org/x/net/html"
)

// ToText converts server-provided text, which may carry HTML markup or
// entities, into plain terminal text wrapped to width. Plain strings come
// back unchanged apart from wrapping.
func ToText(raw string, width int) string {
	if raw == "" {
		return ""
	}
	if !strings.ContainsAny(raw, "<&") {
		return wrapText(strings.TrimSpace(raw), width)
	}

	tokenizer := xhtml.NewTokenizer(strings.NewReader(raw))
	var sb strings.Builder
	var anchorURL string
	var skip int

	for {
		tt := tokenizer.Next()
		switch tt {
		case xhtml.ErrorToken:
			return wrapText(strings.TrimSpace(sb.String()), width)

		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			t := tokenizer.Token()
			switch t.Data {
			case "script", "style", "head":
				if tt == xhtml.StartTagToken {
					skip++
				}
			case "p", "div", "h1", "h2", "h3", "li", "tr":
				if sb.Len() > 0 {
					sb.WriteString("\n")
				}
			case "br":
				sb.WriteString("\n")
			case "a":
				for _, attr := range t.Attr {
					if attr.Key == "href" {
						anchorURL = attr.Val
					}
				}
			}

		case xhtml.EndTagToken:
			t := tokenizer.Token()
			switch t.Data {
			case "script", "style", "head":
				if skip > 0 {
					skip--
				}
			case "a":
				if anchorURL != "" {
					text := strings.TrimSpace(sb.String())
					if !strings.HasSuffix(text, anchorURL) {
						sb.WriteString(" [")
						sb.WriteString(anchorURL)
						sb.WriteString("]")
					}
				}
				anchorURL = ""
			}

		case xhtml.TextToken:
			if skip > 0 {
				continue
			}
			// Token().Data is already entity-decoded.
			sb.WriteString(tokenizer.Token().Data)
		}
	}
}

// wrapText performs simple word wrapping to the given width.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	var result strings.Builder
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}
		lineLen := 0
		for i, word := range words {
			wlen := len([]rune(word))
			if i > 0 && lineLen+1+wlen > width {
				result.WriteString("\n")
				lineLen = 0
			} else if i > 0 {
				result.WriteString(" ")
				lineLen++
			}
			result.WriteString(word)
			lineLen += wlen
		}
		result.WriteString("\n")
	}
	return strings.TrimRight(result.String(), "\n")
}
