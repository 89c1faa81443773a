package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// mdV2Replacer escapes special characters for Telegram MarkdownV2.
var mdV2Replacer = strings.NewReplacer(
	`\`, `\\`,
	"_", "\\_",
	"*", "\\*",
	"[", "\\[",
	"]", "\\]",
	"(", "\\(",
	")", "\\)",
	"~", "\\~",
	"`", "\\`",
	">", "\\>",
	"#", "\\#",
	"+", "\\+",
	"-", "\\-",
	"=", "\\=",
	"|", "\\|",
	"{", "\\{",
	"}", "\\}",
	".", "\\.",
	"!", "\\!",
)

// EscapeMdV2 escapes a string for safe use in Telegram MarkdownV2.
func EscapeMdV2(s string) string {
	return mdV2Replacer.Replace(s)
}

// FormatBold returns MarkdownV2 bold text.
func FormatBold(s string) string {
	return "*" + EscapeMdV2(s) + "*"
}

// FormatItalic returns MarkdownV2 italic text.
func FormatItalic(s string) string {
	return "_" + EscapeMdV2(s) + "_"
}

// RatingBar draws a 0-100 score as a bar of width cells.
func RatingBar(score float64, width int) string {
	if width < 1 {
		width = 10
	}
	filled := int(score / 100 * float64(width))
	filled = max(0, min(filled, width))
	return fmt.Sprintf("%s%s %.1f",
		strings.Repeat("★", filled),
		strings.Repeat("☆", width-filled),
		score/10,
	)
}

// reply is an outgoing message in two renditions: MarkdownV2 and the
// plain-text fallback sent when Telegram rejects the markup.
type reply struct {
	Text     string
	Plain    string
	Keyboard *tgbotapi.InlineKeyboardMarkup
}

// message builds both renditions of a reply side by side.
type message struct {
	md    strings.Builder
	plain strings.Builder
	rows  [][]tgbotapi.InlineKeyboardButton
}

func (m *message) text(s string) *message {
	m.md.WriteString(EscapeMdV2(s))
	m.plain.WriteString(s)
	return m
}

func (m *message) textf(format string, args ...any) *message {
	return m.text(fmt.Sprintf(format, args...))
}

func (m *message) bold(s string) *message {
	m.md.WriteString(FormatBold(s))
	m.plain.WriteString(s)
	return m
}

func (m *message) italic(s string) *message {
	m.md.WriteString(FormatItalic(s))
	m.plain.WriteString(s)
	return m
}

func (m *message) nl() *message {
	m.md.WriteByte('\n')
	m.plain.WriteByte('\n')
	return m
}

func (m *message) button(label, data string) {
	if len([]rune(label)) > maxButtonLabel {
		label = string([]rune(label)[:maxButtonLabel]) + "…"
	}
	m.rows = append(m.rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(label, data),
	))
}

func (m *message) reply() reply {
	r := reply{
		Text:  strings.TrimRight(m.md.String(), "\n"),
		Plain: strings.TrimRight(m.plain.String(), "\n"),
	}
	if len(m.rows) > 0 {
		kb := tgbotapi.NewInlineKeyboardMarkup(m.rows...)
		r.Keyboard = &kb
	}
	return r
}

// plainReply is a reply with no markup.
func plainReply(s string) reply {
	var m message
	return m.text(s).reply()
}
