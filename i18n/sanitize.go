package i18n

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitized wraps tr so every message is stripped of markup. Messages end up
// in client-rendered documents, and bundles or params may carry user input.
//
// Kept text is returned unescaped, except that a message still containing
// '<' or '>' after stripping keeps them as &lt; and &gt;, so a message such
// as "a < b" comes out as "a &lt; b".
func Sanitized(tr Translator) Translator {
	if tr == nil {
		return nil
	}
	if _, ok := tr.(*sanitizingTranslator); ok {
		return tr
	}
	return &sanitizingTranslator{inner: tr, policy: bluemonday.StrictPolicy()}
}

type sanitizingTranslator struct {
	inner  Translator
	policy *bluemonday.Policy
}

func (s *sanitizingTranslator) Message(key string, params map[string]any) string {
	clean := s.policy.Sanitize(s.inner.Message(key, params))
	// StrictPolicy escapes the text it keeps; the document is JSON, not HTML,
	// so undo the escaping unless that would bring markup back.
	if plain := html.UnescapeString(clean); !strings.ContainsAny(plain, "<>") {
		return plain
	}
	return keepAngles.Replace(clean)
}

// keepAngles undoes every entity StrictPolicy emits except &lt; and &gt;.
var keepAngles = strings.NewReplacer("&amp;", "&", "&#34;", `"`, "&quot;", `"`, "&#39;", "'")
