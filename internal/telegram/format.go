package telegram

import (
	"regexp"
	"strings"
)

// Assistant replies are short CRM confirmations with at most light markdown
// (bold names, bullet lists, the odd inline code span). Telegram renders an
// HTML subset, so conversion here covers exactly that and nothing more.

var (
	reMdHeading = regexp.MustCompile(`(?m)^#{1,6}\s+(.+)$`)
	reMdBold    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reMdItalic  = regexp.MustCompile(`\*([^*\n]+)\*`)
	reMdBullet  = regexp.MustCompile(`(?m)^[-*]\s+`)
)

func sanitizeUTF8(text string) string {
	text = strings.ToValidUTF8(text, "")
	return strings.ReplaceAll(text, "\x00", "")
}

// markdownToTelegramHTML converts light markdown into Telegram's HTML
// subset. Inline code spans are emitted as <code> and shielded from the
// emphasis rewrites.
func markdownToTelegramHTML(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	segments := strings.Split(text, "`")
	for i, seg := range segments {
		if i%2 == 1 {
			if i == len(segments)-1 {
				// Unpaired trailing backtick, keep it literal.
				b.WriteString("`")
				b.WriteString(formatSegment(seg))
				continue
			}
			b.WriteString("<code>" + escapeHTML(seg) + "</code>")
			continue
		}
		b.WriteString(formatSegment(seg))
	}
	return b.String()
}

func formatSegment(seg string) string {
	seg = escapeHTML(seg)
	seg = reMdHeading.ReplaceAllString(seg, "<b>$1</b>")
	seg = reMdBold.ReplaceAllString(seg, "<b>$1</b>")
	// Bullets before single-star italics, or list markers get eaten.
	seg = reMdBullet.ReplaceAllString(seg, "• ")
	seg = reMdItalic.ReplaceAllString(seg, "<i>$1</i>")
	return seg
}

// stripMarkdown is the plain-text fallback when Telegram rejects the HTML.
func stripMarkdown(text string) string {
	text = strings.ReplaceAll(text, "`", "")
	text = reMdHeading.ReplaceAllString(text, "$1")
	text = reMdBold.ReplaceAllString(text, "$1")
	text = reMdItalic.ReplaceAllString(text, "$1")
	text = reMdBullet.ReplaceAllString(text, "- ")
	return text
}

func escapeHTML(text string) string {
	text = strings.ReplaceAll(text, "&", "&amp;")
	text = strings.ReplaceAll(text, "<", "&lt;")
	text = strings.ReplaceAll(text, ">", "&gt;")
	return text
}

// splitMessage cuts text into chunks that fit Telegram's message limit,
// preferring newline boundaries. Formatting tags left open at a cut are
// closed there and reopened at the start of the next chunk.
func splitMessage(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var chunks []string
	var open []string // tags carried into the next chunk
	for len(text) > 0 {
		chunk := text
		if len(chunk) > maxLen {
			chunk = chunk[:maxLen]
			if nl := strings.LastIndexByte(chunk, '\n'); nl > 0 {
				chunk = chunk[:nl]
			}
		}
		text = strings.TrimLeft(text[len(chunk):], "\n")

		prefix := strings.Join(open, "")
		open = openTags(prefix + chunk)

		var closers strings.Builder
		for i := len(open) - 1; i >= 0; i-- {
			name := open[i][1 : len(open[i])-1]
			closers.WriteString("</" + name + ">")
		}
		chunks = append(chunks, prefix+chunk+closers.String())
	}
	return chunks
}

// openTags returns the Telegram formatting tags still open at the end of
// the fragment, in opening order.
func openTags(html string) []string {
	var stack []string
	for i := 0; i < len(html); {
		lt := strings.IndexByte(html[i:], '<')
		if lt < 0 {
			break
		}
		lt += i
		gt := strings.IndexByte(html[lt:], '>')
		if gt < 0 {
			break
		}
		gt += lt
		tag := html[lt+1 : gt]
		i = gt + 1

		switch tag {
		case "b", "i", "code":
			stack = append(stack, "<"+tag+">")
		case "/b", "/i", "/code":
			want := "<" + tag[1:] + ">"
			for k := len(stack) - 1; k >= 0; k-- {
				if stack[k] == want {
					stack = append(stack[:k], stack[k+1:]...)
					break
				}
			}
		}
	}
	return stack
}
