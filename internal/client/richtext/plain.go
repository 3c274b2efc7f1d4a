package richtext

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var blockTags = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Li: true, atom.Ul: true, atom.Ol: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Blockquote: true, atom.Pre: true, atom.Tr: true, atom.Table: true, atom.Hr: true,
}

// PlainText renders an HTML body for a terminal. Blocks become lines, list
// items get a bullet, and images and links keep their URL.
func PlainText(src string) string {
	z := html.NewTokenizer(strings.NewReader(src))
	w := &lineWriter{}

	var (
		skip      int
		pre       int
		linkHref  string
		linkStart int
	)
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// io.EOF or malformed input; either way keep what was read
			break
		}
		tok := z.Token()

		switch tt {
		case html.TextToken:
			if skip > 0 {
				continue
			}
			if pre > 0 {
				w.raw(tok.Data)
			} else {
				w.text(tok.Data)
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			switch tok.DataAtom {
			case atom.Script, atom.Style:
				if tt == html.StartTagToken {
					skip++
				}
			case atom.Br:
				w.newline()
			case atom.Img:
				w.text("[이미지: " + attr(tok, "src") + "]")
			case atom.A:
				linkHref = attr(tok, "href")
				linkStart = w.b.Len()
			default:
				if blockTags[tok.DataAtom] {
					w.newline()
					if tok.DataAtom == atom.Pre {
						pre++
					}
					if tok.DataAtom == atom.Li {
						w.raw("• ")
					}
				}
			}

		case html.EndTagToken:
			switch tok.DataAtom {
			case atom.Script, atom.Style:
				if skip > 0 {
					skip--
				}
			case atom.A:
				if linkHref != "" && strings.TrimSpace(w.b.String()[linkStart:]) != linkHref {
					w.text(" (" + linkHref + ")")
				}
				linkHref = ""
			default:
				if blockTags[tok.DataAtom] {
					if tok.DataAtom == atom.Pre && pre > 0 {
						pre--
					}
					w.newline()
				}
			}
		}
	}
	return w.String()
}

// IsEmpty reports whether an HTML body has no visible content. Editors
// leave markup such as "<p><br></p>" behind when cleared.
func IsEmpty(src string) bool {
	return strings.TrimSpace(PlainText(src)) == ""
}

func attr(tok html.Token, name string) string {
	for _, a := range tok.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

type lineWriter struct {
	b strings.Builder
}

// text writes s with whitespace runs collapsed to one space.
func (w *lineWriter) text(s string) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s != "" && !w.atLineStart() {
			w.b.WriteByte(' ')
		}
		return
	}
	if startsWithSpace(s) && !w.atLineStart() {
		w.b.WriteByte(' ')
	}
	w.b.WriteString(strings.Join(fields, " "))
	if endsWithSpace(s) {
		w.b.WriteByte(' ')
	}
}

func (w *lineWriter) raw(s string) { w.b.WriteString(s) }

func (w *lineWriter) newline() {
	if !w.atLineStart() {
		w.b.WriteByte('\n')
	}
}

func (w *lineWriter) atLineStart() bool {
	s := w.b.String()
	return s == "" || s[len(s)-1] == '\n'
}

// String trims every line and drops empty ones.
func (w *lineWriter) String() string {
	var out []string
	for _, line := range strings.Split(w.b.String(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func startsWithSpace(s string) bool {
	return s != "" && strings.IndexAny(s[:1], " \t\r\n") == 0
}

func endsWithSpace(s string) bool {
	return s != "" && strings.IndexAny(s[len(s)-1:], " \t\r\n") == 0
}
