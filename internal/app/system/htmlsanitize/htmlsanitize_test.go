package htmlsanitize

import (
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		keep    []string
		dropped []string
	}{
		{
			name:    "script removed",
			in:      `<p>Relax</p><script>alert(1)</script>`,
			keep:    []string{"<p>Relax</p>"},
			dropped: []string{"<script", "alert(1)"},
		},
		{
			name:    "event handler removed",
			in:      `<img src="/a.jpg" onerror="steal()" alt="stone">`,
			keep:    []string{`src="/a.jpg"`, `alt="stone"`},
			dropped: []string{"onerror", "steal()"},
		},
		{
			name:    "javascript link neutralized",
			in:      `<a href="javascript:alert(1)">book</a>`,
			keep:    []string{"book"},
			dropped: []string{"javascript:"},
		},
		{
			name:    "article formatting kept",
			in:      `<h2>Benefits</h2><ul><li><strong>Less</strong> <em>stress</em></li></ul><blockquote>calm</blockquote>`,
			keep:    []string{"<h2>", "<ul>", "<li>", "<strong>", "<em>", "<blockquote>"},
			dropped: nil,
		},
		{
			name:    "editor tables kept",
			in:      `<table class="prices"><tr><th colspan="2">60 min</th></tr><tr><td>$80</td></tr></table>`,
			keep:    []string{"<table", `class="prices"`, `colspan="2"`, "<td>$80</td>"},
			dropped: nil,
		},
		{
			name:    "extra inline elements kept",
			in:      `<p><u>u</u><s>s</s><mark>m</mark>H<sub>2</sub>O</p><figure><figcaption>cap</figcaption></figure>`,
			keep:    []string{"<u>", "<s>", "<mark>", "<sub>", "<figure>", "<figcaption>"},
			dropped: nil,
		},
		{
			name:    "iframe and style removed",
			in:      `<iframe src="https://evil.example"></iframe><p style="color:red">x</p>`,
			keep:    []string{"<p>x</p>"},
			dropped: []string{"<iframe", "style="},
		},
		{
			name: "empty",
			in:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.in)
			for _, s := range tt.keep {
				if !strings.Contains(got, s) {
					t.Errorf("Sanitize() = %q, missing %q", got, s)
				}
			}
			for _, s := range tt.dropped {
				if strings.Contains(got, s) {
					t.Errorf("Sanitize() = %q, should not contain %q", got, s)
				}
			}
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	in := `<p>Hot <strong>stone</strong> <em>massage</em></p><script>x</script>`
	once := Sanitize(in)
	if twice := Sanitize(once); twice != once {
		t.Errorf("Sanitize not idempotent:\n once=%q\ntwice=%q", once, twice)
	}
}

func TestIsPlainText(t *testing.T) {
	tests := map[string]bool{
		"":                     true,
		"just words":           true,
		"5 < 6 is true":        true,
		"<p>markup</p>":        false,
		"a <b>bold</b> choice": false,
	}
	for in, want := range tests {
		if got := IsPlainText(in); got != want {
			t.Errorf("IsPlainText(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestPlainTextToHTML(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"Welcome", "<p>Welcome</p>"},
		{"Line one\nLine two", "<p>Line one<br>Line two</p>"},
		{"Tom & Jerry <3", "<p>Tom &amp; Jerry &lt;3</p>"},
	}
	for _, tt := range tests {
		if got := PlainTextToHTML(tt.in); got != tt.want {
			t.Errorf("PlainTextToHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPrepareRichText(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		dropped string
	}{
		{name: "blank", in: "   ", want: ""},
		{name: "plain wrapped", in: "  Our story\nsince 2010 ", want: "<p>Our story<br>since 2010</p>"},
		{name: "markup sanitized", in: `<p>About</p><script>x()</script>`, want: "<p>About</p>", dropped: "<script"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PrepareRichText(tt.in)
			if got != tt.want {
				t.Errorf("PrepareRichText() = %q, want %q", got, tt.want)
			}
			if tt.dropped != "" && strings.Contains(got, tt.dropped) {
				t.Errorf("PrepareRichText() kept %q", tt.dropped)
			}
		})
	}
}

func TestStripTags(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"<p>Deep <strong>tissue</strong></p>", "Deep tissue"},
		{"<p>Fish &amp; chips</p>", "Fish & chips"},
		{"  plain  ", "plain"},
	}
	for _, tt := range tests {
		if got := StripTags(tt.in); got != tt.want {
			t.Errorf("StripTags(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"one two three", 3},
		{"<p>one</p><p>two</p>", 2},
		{"<h2>Why</h2><ul><li>sleep better</li><li>less pain</li></ul>", 5},
	}
	for _, tt := range tests {
		if got := WordCount(tt.in); got != tt.want {
			t.Errorf("WordCount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
