package subtitle

import (
	"fmt"
	"strings"
)

// The translation effect wraps a line in the in-game overlay tag. The game
// renders the original (spoken) text with a translating animation into the
// target text.
//
//	<kiroshi l="jpn" o="spoken text" t="translated text" b="" a=""/>

const effectPrefix = "<kiroshi "

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

var attrUnescaper = strings.NewReplacer(
	"&quot;", `"`,
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
)

// WrapEffect renders the overlay tag for a spoken/translated text pair.
func WrapEffect(effectCode, spoken, translated string) string {
	return fmt.Sprintf(`<kiroshi l="%s" o="%s" t="%s" b="" a=""/>`,
		attrEscaper.Replace(effectCode),
		attrEscaper.Replace(spoken),
		attrEscaper.Replace(translated),
	)
}

// HasEffect reports whether text already carries the overlay tag.
func HasEffect(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), effectPrefix)
}

// StripEffect removes the overlay tag, restoring the translated text. Text
// without the tag comes back unchanged with ok false.
func StripEffect(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, effectPrefix) {
		return text, false
	}
	translated, ok := attrValue(trimmed, "t")
	if !ok {
		return text, false
	}
	return attrUnescaper.Replace(translated), true
}

func attrValue(tag, name string) (string, bool) {
	marker := " " + name + `="`
	start := strings.Index(tag, marker)
	if start < 0 {
		return "", false
	}
	start += len(marker)
	end := strings.Index(tag[start:], `"`)
	if end < 0 {
		return "", false
	}
	return tag[start : start+end], true
}
