package htmlsanitize_test

import (
	"html/template"
	"strings"
	"testing"

	"github.com/chosenvessel/vesselhub/internal/app/system/htmlsanitize"
)

func TestSanitize_Empty(t *testing.T) {
	if got := htmlsanitize.Sanitize(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestSanitize_PlainText(t *testing.T) {
	if got := htmlsanitize.Sanitize("Hello, World"); got != "Hello, World" {
		t.Errorf("expected plain text unchanged, got %q", got)
	}
}

func TestSanitize_SafeHTML(t *testing.T) {
	input := "<p><strong>Bold</strong> and <em>italic</em></p>"
	if got := htmlsanitize.Sanitize(input); got != input {
		t.Errorf("expected safe HTML preserved, got %q", got)
	}
}

func TestSanitize_RemovesScript(t *testing.T) {
	got := htmlsanitize.Sanitize("<p>Hello</p><script>alert('xss')</script>")
	if got != "<p>Hello</p>" {
		t.Errorf("expected script removed, got %q", got)
	}
}

func TestSanitize_RemovesEventHandlers(t *testing.T) {
	tests := []string{
		`<button onclick="alert('xss')">Click</button>`,
		`<img src="x" onerror="alert('xss')">`,
	}
	for _, in := range tests {
		got := htmlsanitize.Sanitize(in)
		if strings.Contains(got, "onclick") || strings.Contains(got, "onerror") {
			t.Errorf("Sanitize(%q) kept a handler: %q", in, got)
		}
	}
}

func TestSanitize_RemovesJavascriptHref(t *testing.T) {
	got := htmlsanitize.Sanitize(`<a href="javascript:alert('xss')">Click</a>`)
	if strings.Contains(got, "javascript:") {
		t.Errorf("expected javascript: href removed, got %q", got)
	}
}

func TestSanitize_AllowsSafeLinks(t *testing.T) {
	got := htmlsanitize.Sanitize(`<a href="https://example.com">Link</a>`)
	if !strings.Contains(got, "https://example.com") {
		t.Errorf("expected safe link preserved, got %q", got)
	}
}

func TestSanitize_Lists(t *testing.T) {
	for _, in := range []string{
		"<ul><li>Item 1</li><li>Item 2</li></ul>",
		"<ol><li>First</li><li>Second</li></ol>",
		"<blockquote>A quote</blockquote>",
	} {
		if got := htmlsanitize.Sanitize(in); got != in {
			t.Errorf("Sanitize(%q) = %q", in, got)
		}
	}
}

func TestSanitize_TableAttributes(t *testing.T) {
	got := htmlsanitize.Sanitize(`<table class="t"><tr><td colspan="2" rowspan="2">Cell</td></tr></table>`)
	for _, want := range []string{`class="t"`, `colspan="2"`, `rowspan="2"`} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %s preserved, got %q", want, got)
		}
	}
}

func TestSanitize_RemovesFormElements(t *testing.T) {
	got := htmlsanitize.Sanitize(`<form action="/submit"><input type="text" name="data"><button>Submit</button></form>`)
	if strings.Contains(got, "<form") || strings.Contains(got, "<input") {
		t.Errorf("expected form elements removed, got %q", got)
	}
}

func TestText_StripsTags(t *testing.T) {
	got := htmlsanitize.Text("  <b>Pray</b> for my <script>x()</script>family  ")
	if strings.Contains(got, "<") {
		t.Errorf("expected tags removed, got %q", got)
	}
	if !strings.HasPrefix(got, "Pray for my") || !strings.HasSuffix(got, "family") {
		t.Errorf("unexpected text %q", got)
	}
}

func TestText_KeepsAmpersand(t *testing.T) {
	if got := htmlsanitize.Text("Tom & Jerry"); got != "Tom & Jerry" {
		t.Errorf("Text() = %q", got)
	}
}

func TestIsPlainText(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Hello", true},
		{"5 < 10", true},
		{"5 > 3", true},
		{"<p>Hello</p>", false},
		{"a<br/>b", false},
	}
	for _, tt := range tests {
		if got := htmlsanitize.IsPlainText(tt.in); got != tt.want {
			t.Errorf("IsPlainText(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPlainTextToHTML(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"Hello, World!", "<p>Hello, World!</p>"},
		{"Line 1\nLine 2\r\nLine 3", "<p>Line 1<br>Line 2<br>Line 3</p>"},
		{"A & B", "<p>A &amp; B</p>"},
		{"<script>", "<p>&lt;script&gt;</p>"},
	}
	for _, tt := range tests {
		if got := htmlsanitize.PlainTextToHTML(tt.in); got != tt.want {
			t.Errorf("PlainTextToHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPrepareForDisplay(t *testing.T) {
	tests := []struct {
		in   string
		want template.HTML
	}{
		{"", ""},
		{"Hello", "<p>Hello</p>"},
		{"Line 1\nLine 2", "<p>Line 1<br>Line 2</p>"},
		{"<p>Hello</p>", "<p>Hello</p>"},
		{"<p>Hello</p><script>alert('xss')</script>", "<p>Hello</p>"},
	}
	for _, tt := range tests {
		if got := htmlsanitize.PrepareForDisplay(tt.in); got != tt.want {
			t.Errorf("PrepareForDisplay(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
