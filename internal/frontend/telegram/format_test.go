package telegram

import (
	"strings"
	"testing"
)

func TestEscapeMdV2(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain text", in: "hello world", want: "hello world"},
		{name: "dots", in: "hello.", want: "hello\\."},
		{name: "exclamation", in: "Done!", want: "Done\\!"},
		{name: "parentheses", in: "(2024)", want: "\\(2024\\)"},
		{name: "brackets", in: "[link]", want: "\\[link\\]"},
		{name: "underscores", in: "foo_bar", want: "foo\\_bar"},
		{name: "stars", in: "*bold*", want: "\\*bold\\*"},
		{name: "genre with hyphen", in: "Sci-Fi", want: "Sci\\-Fi"},
		{name: "all specials", in: "_*[]()~`>#+-=|{}.!", want: "\\_\\*\\[\\]\\(\\)\\~\\`\\>\\#\\+\\-\\=\\|\\{\\}\\.\\!"},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EscapeMdV2(tt.in)
			if got != tt.want {
				t.Errorf("EscapeMdV2(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatBold(t *testing.T) {
	got := FormatBold("Dark Drama (2023)")
	want := "*Dark Drama \\(2023\\)*"
	if got != want {
		t.Errorf("FormatBold = %q, want %q", got, want)
	}
}

func TestFormatItalic(t *testing.T) {
	got := FormatItalic("Director")
	want := "_Director_"
	if got != want {
		t.Errorf("FormatItalic = %q, want %q", got, want)
	}
}

func TestRatingBar(t *testing.T) {
	tests := []struct {
		name   string
		score  float64
		width  int
		filled int
		suffix string
	}{
		{"zero", 0, 10, 0, " 0.0"},
		{"eighty five", 85, 10, 8, " 8.5"},
		{"full", 100, 10, 10, " 10.0"},
		{"default width", 50, 0, 5, " 5.0"},
		{"over", 150, 10, 10, " 15.0"},
		{"negative", -10, 10, 0, " -1.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RatingBar(tt.score, tt.width)
			if n := strings.Count(got, "★"); n != tt.filled {
				t.Errorf("RatingBar(%v) has %d filled cells, want %d: %q", tt.score, n, tt.filled, got)
			}
			if !strings.HasSuffix(got, tt.suffix) {
				t.Errorf("RatingBar(%v) = %q, want suffix %q", tt.score, got, tt.suffix)
			}
		})
	}
}

func TestMessage_TwoRenditions(t *testing.T) {
	var m message
	m.bold("Sci-Fi").text(" (2025)").nl().italic("great!").nl()
	m.button("A title that is definitely longer than thirty runes", "movie:1")

	r := m.reply()
	if r.Text != "*Sci\\-Fi* \\(2025\\)\n_great\\!_" {
		t.Errorf("markdown = %q", r.Text)
	}
	if r.Plain != "Sci-Fi (2025)\ngreat!" {
		t.Errorf("plain = %q", r.Plain)
	}
	if r.Keyboard == nil || len(r.Keyboard.InlineKeyboard) != 1 {
		t.Fatal("expected one keyboard row")
	}
	label := r.Keyboard.InlineKeyboard[0][0].Text
	if len([]rune(label)) != maxButtonLabel+1 || !strings.HasSuffix(label, "…") {
		t.Errorf("label not truncated: %q", label)
	}
}

func TestPlainReply(t *testing.T) {
	r := plainReply("Movie not found")
	if r.Plain != "Movie not found" || r.Keyboard != nil {
		t.Errorf("unexpected reply: %+v", r)
	}
}
