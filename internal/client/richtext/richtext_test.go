package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		contains []string
		absent   []string
	}{
		{
			name:     "heading and emphasis",
			src:      "# 소개\n\nhello **world**",
			contains: []string{"<h1>소개</h1>", "<p>hello <strong>world</strong></p>"},
		},
		{
			name:     "external link opens new tab",
			src:      "[site](https://example.com)",
			contains: []string{`href="https://example.com"`, `target="_blank"`, `rel="noopener noreferrer"`},
		},
		{
			name:     "relative link stays",
			src:      "[wiki](/wiki/abc)",
			contains: []string{`href="/wiki/abc"`},
			absent:   []string{"target="},
		},
		{
			name:     "bare url is linkified",
			src:      "see https://example.com now",
			contains: []string{`<a href="https://example.com"`, `target="_blank"`},
		},
		{
			name:     "strikethrough",
			src:      "~~old~~",
			contains: []string{"<del>old</del>"},
		},
		{
			name:   "raw html dropped",
			src:    "<script>alert(1)</script>",
			absent: []string{"<script>"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromMarkdown(tt.src)
			require.NoError(t, err)
			for _, c := range tt.contains {
				assert.Contains(t, got, c)
			}
			for _, a := range tt.absent {
				assert.NotContains(t, got, a)
			}
		})
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"inline markup", "<p>hello <strong>world</strong></p>", "hello world"},
		{"paragraphs", "<p>a</p>\n<p>b</p>\n", "a\nb"},
		{"line break", "<p>a<br>b</p>", "a\nb"},
		{"list", "<ul><li>one</li><li>two</li></ul>", "• one\n• two"},
		{"link keeps url", `<p>see <a href="https://x.test">docs</a></p>`, "see docs (https://x.test)"},
		{"autolink not repeated", `<p><a href="https://x.test">https://x.test</a></p>`, "https://x.test"},
		{"image", `<p><img src="https://img.test/1.png"></p>`, "[이미지: https://img.test/1.png]"},
		{"script skipped", "<p>x</p><script>bad()</script><p>y</p>", "x\ny"},
		{"entities", "<p>&lt;b&gt; &amp; co</p>", "<b> & co"},
		{"whitespace collapsed", "<p>  a \n   b  </p>", "a b"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.src))
		})
	}
}

func TestMarkdownToPlainText(t *testing.T) {
	html, err := FromMarkdown("- a\n- b\n\n끝")
	require.NoError(t, err)
	assert.Equal(t, "• a\n• b\n끝", PlainText(html))
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("<p><br></p>"))
	assert.True(t, IsEmpty("<p>   </p>"))
	assert.False(t, IsEmpty("<p>x</p>"))
	assert.False(t, IsEmpty(`<p><img src="a.png"></p>`))
}
