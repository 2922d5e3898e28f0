// Package lang implements the live-switchable locale table described by
// §4.7/§6: a locale key maps to a set of field labels, loaded once from
// language.json and then mutable at runtime via SetLang with process-wide
// "last writer wins" semantics. There is no teacher or pack analogue for
// multi-locale label tables (the teacher is English-only), so the package
// shape follows spec.md directly; its load/save-on-disk idiom mirrors the
// teacher's internal/cli/settings.go JSON-file convention.
package lang

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// DefaultLocale is the locale a freshly loaded Table starts on and Table's
// fallback for formatting lookups (Supplemented Feature 3). It has the same
// value as Config.Language's `default` tag.
const DefaultLocale = "zh-cn"

// RequiredKeys lists the label keys every locale entry must provide
// (§6 "must contain labels for at least").
var RequiredKeys = []string{
	"where_ip", "where_port", "motd", "version", "slp_protocol",
	"protocol_version", "address", "ip", "port", "delay", "gamemode",
	"players", "player_list",
	"SUCCESS", "CONNFAIL", "TIMEOUT", "UNKNOWN",
}

// Table is the in-memory, concurrency-safe language table. The current
// locale is process-wide mutable state: SetLang from any goroutine takes
// effect for every subsequent Label call everywhere.
type Table struct {
	mu      sync.RWMutex
	locales map[string]map[string]string
	current string
}

// Load reads a language.json mapping locale keys to their label maps.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lang: reading %s: %w", path, err)
	}
	var locales map[string]map[string]string
	if err := json.Unmarshal(data, &locales); err != nil {
		return nil, fmt.Errorf("lang: parsing %s: %w", path, err)
	}
	for key, labels := range locales {
		for _, req := range RequiredKeys {
			if _, ok := labels[req]; !ok {
				return nil, fmt.Errorf("lang: locale %q missing required key %q", key, req)
			}
		}
	}
	return &Table{locales: locales, current: DefaultLocale}, nil
}

// Has reports whether code names a known locale.
func (t *Table) Has(code string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.locales[code]
	return ok
}

// Current returns the active locale key.
func (t *Table) Current() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

// SetLangResult classifies the outcome of a set_lang request so the
// frontend can render the three distinct messages §6 names.
type SetLangResult int

const (
	SetLangUnknown SetLangResult = iota
	SetLangUnchanged
	SetLangChanged
)

// SetLang switches the active locale. Unlike Label's fallback behavior,
// an unknown code is rejected outright rather than silently ignored.
func (t *Table) SetLang(code string) SetLangResult {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.locales[code]; !ok {
		return SetLangUnknown
	}
	if t.current == code {
		return SetLangUnchanged
	}
	t.current = code
	return SetLangChanged
}

// List returns every known locale key.
func (t *Table) List() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	keys := make([]string, 0, len(t.locales))
	for k := range t.locales {
		keys = append(keys, k)
	}
	return keys
}

// Label returns the field label for key under the current locale. An
// unknown current locale (should not happen after Load's validation, but
// guards against a programming error) falls back to DefaultLocale rather
// than panicking, per Supplemented Feature 3.
func (t *Table) Label(key string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	labels, ok := t.locales[t.current]
	if !ok {
		labels = t.locales[DefaultLocale]
	}
	return labels[key]
}
