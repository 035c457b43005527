package supler

import (
	"log/slog"

	"github.com/reoring/supler/i18n"
)

// Config enumerates every rendering and processing option of the engine.
// Build it once with DefaultConfig, adjust the fields, and share it by
// pointer; it must not be mutated afterwards.
type Config struct {
	// Translator resolves labels, descriptions and error codes. Nil means
	// the i18n package default at render time.
	Translator i18n.Translator
	// SanitizeMessages strips markup from every translated string.
	SanitizeMessages bool
	// Logger is used when the request context carries none. Nil discards.
	Logger *slog.Logger
}

// DefaultConfig returns the recommended configuration.
func DefaultConfig() *Config {
	return &Config{SanitizeMessages: true}
}

var defaultConfig = DefaultConfig()

func (c *Config) translator() i18n.Translator {
	tr := c.Translator
	if tr == nil {
		tr = i18n.Default()
	}
	if c.SanitizeMessages {
		tr = i18n.Sanitized(tr)
	}
	return tr
}

// renderCtx carries the per-call rendering state down the field tree.
type renderCtx struct {
	tr i18n.Translator
}

func newRenderCtx(cfg *Config) *renderCtx {
	if cfg == nil {
		cfg = defaultConfig
	}
	return &renderCtx{tr: cfg.translator()}
}

func (rc *renderCtx) text(key string, params map[string]any) string {
	if key == "" {
		return ""
	}
	return rc.tr.Message(key, params)
}

func (rc *renderCtx) errorMessage(e FieldError) string {
	if e.Message != "" {
		return rc.text(e.Message, e.Params)
	}
	return rc.text(e.Code, e.Params)
}
