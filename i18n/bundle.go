package i18n

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Bundle holds messages for several languages, loaded from YAML documents of
// the form:
//
//	en:
//	  required: "please fill in this field"
//	  label_name: "Name"
//	pl:
//	  required: "pole wymagane"
type Bundle struct {
	langs map[string]map[string]string
}

// LoadBundle decodes a YAML bundle.
func LoadBundle(r io.Reader) (*Bundle, error) {
	var langs map[string]map[string]string
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&langs); err != nil {
		if err == io.EOF {
			return &Bundle{langs: map[string]map[string]string{}}, nil
		}
		return nil, fmt.Errorf("i18n: decoding bundle: %w", err)
	}
	if langs == nil {
		langs = map[string]map[string]string{}
	}
	return &Bundle{langs: langs}, nil
}

// LoadBundleFile decodes a YAML bundle from disk.
func LoadBundleFile(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("i18n: opening bundle: %w", err)
	}
	defer f.Close()
	return LoadBundle(f)
}

// Languages returns the languages present in the bundle, sorted.
func (b *Bundle) Languages() []string {
	out := make([]string, 0, len(b.langs))
	for l := range b.langs {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Translator returns a Translator for lang. Keys missing from the bundle fall
// back to the built-in dictionary of the same language.
func (b *Bundle) Translator(lang string) Translator {
	return Dict(b.langs[lang], Builtin(lang))
}
