package numfmt

import "sync"

// LocaleProvider returns the active locale preference list, most preferred
// first. The resolver reads it on every call.
type LocaleProvider interface {
	Locales() []string
}

// LocaleProviderFunc adapts a function to LocaleProvider.
type LocaleProviderFunc func() []string

func (fn LocaleProviderFunc) Locales() []string {
	if fn == nil {
		return nil
	}
	return fn()
}

// StaticLocales is a fixed preference list.
type StaticLocales []string

func (s StaticLocales) Locales() []string {
	if len(s) == 0 {
		return nil
	}
	return append([]string(nil), s...)
}

// LocaleState holds the active locales of an environment. It is safe for
// concurrent use; SetLocale takes effect on the next format call.
type LocaleState struct {
	mu      sync.RWMutex
	locales []string
}

var _ LocaleProvider = &LocaleState{}

func NewLocaleState(locales ...string) *LocaleState {
	return &LocaleState{locales: normalizeLocales(locales)}
}

// SetLocale replaces the preference list. Blank and duplicate entries are dropped.
func (s *LocaleState) SetLocale(locales ...string) {
	if s == nil {
		return
	}
	normalized := normalizeLocales(locales)

	s.mu.Lock()
	s.locales = normalized
	s.mu.Unlock()
}

func (s *LocaleState) Locales() []string {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.locales) == 0 {
		return nil
	}
	return append([]string(nil), s.locales...)
}

// Primary returns the most preferred locale, or "" when none is set.
func (s *LocaleState) Primary() string {
	locales := s.Locales()
	if len(locales) == 0 {
		return ""
	}
	return locales[0]
}
