// Package textx reduces untrusted text to something safe to store and print.
package textx

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

// maxPasses bounds how many layers of entity-encoded markup Plain peels.
const maxPasses = 4

// Plain returns v with markup removed by p, entities decoded and control
// characters other than newline and tab dropped. Encoded markup such as
// "&lt;b&gt;" is sanitized again once decoded. If v is still changing after
// maxPasses, any remaining angle brackets are dropped.
func Plain(p *bluemonday.Policy, v string) string {
	v = strings.Map(printable, v)
	for range maxPasses {
		next := strings.Map(printable, html.UnescapeString(p.Sanitize(v)))
		if next == v {
			return v
		}
		v = next
	}
	return strings.NewReplacer("<", "", ">", "").Replace(v)
}

func printable(r rune) rune {
	if r == '\n' || r == '\t' {
		return r
	}
	if unicode.IsControl(r) {
		return -1
	}
	return r
}
