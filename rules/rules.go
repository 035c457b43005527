// Package rules provides reusable field validators.
package rules

import (
	"cmp"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	supler "github.com/reoring/supler"
)

// MinLength requires at least n characters.
func MinLength(n int) supler.Validator[string] {
	return supler.NewValidator(supler.HintMinLength, n, func(s string) []supler.ErrorMessage {
		if utf8.RuneCountInString(s) < n {
			return []supler.ErrorMessage{supler.Msg(supler.CodeTooShort, "min", n)}
		}
		return nil
	})
}

// MaxLength allows at most n characters.
func MaxLength(n int) supler.Validator[string] {
	return supler.NewValidator(supler.HintMaxLength, n, func(s string) []supler.ErrorMessage {
		if utf8.RuneCountInString(s) > n {
			return []supler.ErrorMessage{supler.Msg(supler.CodeTooLong, "max", n)}
		}
		return nil
	})
}

// Min requires v >= n.
func Min[N cmp.Ordered](n N) supler.Validator[N] {
	return supler.NewValidator(supler.HintMin, n, func(v N) []supler.ErrorMessage {
		if v < n {
			return []supler.ErrorMessage{supler.Msg(supler.CodeTooSmall, "min", n)}
		}
		return nil
	})
}

// Max requires v <= n.
func Max[N cmp.Ordered](n N) supler.Validator[N] {
	return supler.NewValidator(supler.HintMax, n, func(v N) []supler.ErrorMessage {
		if v > n {
			return []supler.ErrorMessage{supler.Msg(supler.CodeTooBig, "max", n)}
		}
		return nil
	})
}

// Pattern requires the whole value to match expr. It panics if expr does
// not compile.
func Pattern(expr string) supler.Validator[string] {
	anchored := `^(?:` + expr + `)$`
	re := regexp.MustCompile(anchored)
	return supler.NewValidator(supler.HintPattern, anchored, func(s string) []supler.ErrorMessage {
		if !re.MatchString(s) {
			return []supler.ErrorMessage{supler.Msg(supler.CodePattern, "pattern", expr)}
		}
		return nil
	})
}

// Email is a deliberately loose address check: something@something.tld.
func Email() supler.Validator[string] {
	return Pattern(`[^@\s]+@[^@\s]+\.[^@\s]+`)
}

// NotBlank rejects whitespace-only text.
func NotBlank() supler.Validator[string] {
	return supler.ValidatorFunc(func(s string) []supler.ErrorMessage {
		if strings.TrimSpace(s) == "" {
			return []supler.ErrorMessage{supler.Msg(supler.CodeRequired)}
		}
		return nil
	})
}

// OneOf restricts the value to values.
func OneOf[V comparable](values ...V) supler.Validator[V] {
	hint := lo.Map(values, func(v V, _ int) any { return v })
	return supler.NewValidator(supler.HintOneOf, hint, func(v V) []supler.ErrorMessage {
		if !lo.Contains(values, v) {
			return []supler.ErrorMessage{supler.Msg(supler.CodeInvalidEnum, "value", v)}
		}
		return nil
	})
}

// Custom reports code with the given params whenever ok returns false.
func Custom[V any](code string, ok func(V) bool, kv ...any) supler.Validator[V] {
	return supler.ValidatorFunc(func(v V) []supler.ErrorMessage {
		if ok(v) {
			return nil
		}
		return []supler.ErrorMessage{supler.Msg(code, kv...)}
	})
}

// When runs rules only when cond holds for the value. A single rule keeps
// its client hint.
func When[V any](cond func(V) bool, rules ...supler.Validator[V]) supler.Validator[V] {
	inner := And(rules...)
	var name string
	var hint any
	if len(rules) == 1 && rules[0] != nil {
		name, hint = rules[0].Hint()
	}
	return supler.NewValidator(name, hint, func(v V) []supler.ErrorMessage {
		if !cond(v) {
			return nil
		}
		return inner.Validate(v)
	})
}

// IfPresent runs rule on non-empty text only.
func IfPresent(rule supler.Validator[string]) supler.Validator[string] {
	return When(func(s string) bool { return s != "" }, rule)
}

// Deref applies rule to the pointed-to value; nil pointers pass.
func Deref[V any](rule supler.Validator[V]) supler.Validator[*V] {
	name, hint := rule.Hint()
	return supler.NewValidator(name, hint, func(v *V) []supler.ErrorMessage {
		if v == nil {
			return nil
		}
		return rule.Validate(*v)
	})
}

// UniqueBy ensures elements of a list have unique key values. Each duplicate
// is reported with the index of its first occurrence.
func UniqueBy[U any, K comparable](key func(U) K) supler.Validator[[]U] {
	return supler.ValidatorFunc(func(items []U) []supler.ErrorMessage {
		seen := map[K]int{}
		var out []supler.ErrorMessage
		for i, it := range items {
			k := key(it)
			if j, dup := seen[k]; dup {
				out = append(out, supler.Msg(supler.CodeUniqueness, "first", j, "dup", i, "key", fmt.Sprint(k)))
				continue
			}
			seen[k] = i
		}
		return out
	})
}

// ---------- Rule combinators ----------

// And executes all rules and concatenates their errors.
func And[V any](rules ...supler.Validator[V]) supler.Validator[V] {
	return supler.ValidatorFunc(func(v V) []supler.ErrorMessage {
		var out []supler.ErrorMessage
		for _, r := range rules {
			if r == nil {
				continue
			}
			out = append(out, r.Validate(v)...)
		}
		return out
	})
}

// Or succeeds if any rule passes. When all fail, the branch with the fewest
// errors is reported.
func Or[V any](rules ...supler.Validator[V]) supler.Validator[V] {
	return supler.ValidatorFunc(func(v V) []supler.ErrorMessage {
		var best []supler.ErrorMessage
		bestSet := false
		for _, r := range rules {
			if r == nil {
				continue
			}
			errs := r.Validate(v)
			if len(errs) == 0 {
				return nil
			}
			if !bestSet || len(errs) < len(best) {
				best = errs
				bestSet = true
			}
		}
		return best
	})
}
