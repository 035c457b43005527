// Package i18n resolves message keys (error codes and field labels) into
// localized strings.
//
// Sanitized strips markup from messages. Angle brackets that survive as text
// stay entity-escaped (&lt;, &gt;); other entities are decoded.
package i18n

import (
	"fmt"
	"strings"
	"sync"
)

// Translator retrieves localized messages for message keys.
// params provides optional values interpolated into "{name}" placeholders.
// Unknown keys are returned unchanged.
type Translator interface {
	Message(key string, params map[string]any) string
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(key string, params map[string]any) string

func (f TranslatorFunc) Message(key string, params map[string]any) string { return f(key, params) }

var builtin = map[string]map[string]string{
	"en": {
		"invalid_type":   "invalid value",
		"required":       "value is required",
		"parse_error":    "value could not be read",
		"invalid_format": "invalid format",
		"invalid_choice": "value is not one of the allowed choices",
		"too_small":      "must be at least {min}",
		"too_big":        "must be at most {max}",
		"too_short":      "must have at least {min} characters",
		"too_long":       "must have at most {max} characters",
		"too_few_items":  "must have at least {min} items",
		"too_many_items": "must have at most {max} items",
		"pattern":        "does not match the expected format",
		"invalid_enum":   "value is not allowed",
		"business_rule":  "value is not accepted",
		"uniqueness":     "duplicate value",
	},
	"ja": {
		"invalid_type":   "値が不正です",
		"required":       "必須項目です",
		"parse_error":    "値を読み取れません",
		"invalid_format": "形式が不正です",
		"invalid_choice": "選択肢にない値です",
		"too_small":      "{min} 以上で入力してください",
		"too_big":        "{max} 以下で入力してください",
		"too_short":      "{min} 文字以上で入力してください",
		"too_long":       "{max} 文字以下で入力してください",
		"too_few_items":  "{min} 件以上必要です",
		"too_many_items": "{max} 件以下にしてください",
		"pattern":        "形式が一致しません",
		"invalid_enum":   "許可されていない値です",
		"business_rule":  "受け付けられない値です",
		"uniqueness":     "値が重複しています",
	},
}

// dictTranslator is the dictionary-based Translator.
type dictTranslator struct {
	messages map[string]string
	fallback Translator
}

func (t dictTranslator) Message(key string, params map[string]any) string {
	if msg, ok := t.messages[key]; ok {
		return Interpolate(msg, params)
	}
	if t.fallback != nil {
		return t.fallback.Message(key, params)
	}
	return key
}

// Builtin returns the built-in dictionary for lang ("en"/"ja"); other
// languages fall back to English.
func Builtin(lang string) Translator {
	msgs, ok := builtin[lang]
	if !ok {
		msgs = builtin["en"]
	}
	return dictTranslator{messages: msgs}
}

// Dict returns a Translator over messages that defers to fallback for
// missing keys. fallback may be nil.
func Dict(messages map[string]string, fallback Translator) Translator {
	cp := make(map[string]string, len(messages))
	for k, v := range messages {
		cp[k] = v
	}
	return dictTranslator{messages: cp, fallback: fallback}
}

// Interpolate replaces "{name}" placeholders with params values.
func Interpolate(msg string, params map[string]any) string {
	if len(params) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	pairs := make([]string, 0, len(params)*2)
	for k, v := range params {
		pairs = append(pairs, "{"+k+"}", fmt.Sprint(v))
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

var (
	mu                           = sync.RWMutex{}
	currentTranslator Translator = Builtin("en")
)

// SetLanguage switches the default Translator to a built-in language.
func SetLanguage(lang string) {
	SetTranslator(Builtin(lang))
}

// SetTranslator replaces the default Translator; nil restores English.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = Builtin("en")
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// Default returns the current default Translator.
func Default() Translator {
	mu.RLock()
	defer mu.RUnlock()
	return currentTranslator
}

// T fetches a message for key using the default Translator.
func T(key string, params map[string]any) string { return Default().Message(key, params) }
