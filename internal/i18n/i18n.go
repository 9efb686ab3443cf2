package i18n

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Locale is one of the two supported display languages.
type Locale string

const (
	LocaleZH Locale = "zh"
	LocaleEN Locale = "en"
)

// DefaultLocale is used when a session does not pick one.
const DefaultLocale = LocaleZH

//go:embed locales/*.yaml
var localeFS embed.FS

// ErrUnknownLocale is returned when parsing an unsupported locale tag.
var ErrUnknownLocale = fmt.Errorf("unknown locale")

// ParseLocale normalizes and validates a locale tag.
func ParseLocale(s string) (Locale, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "zh", "zh-hk", "zh-tw":
		return LocaleZH, nil
	case "en", "en-us", "en-gb":
		return LocaleEN, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLocale, s)
}

// Translator maps (locale, key) to display text. A miss falls back to the
// key itself so untranslated entries stay visible instead of vanishing.
type Translator struct {
	catalogs map[Locale]map[string]string
}

// NewTranslator loads the embedded locale catalogs.
func NewTranslator() (*Translator, error) {
	t := &Translator{catalogs: make(map[Locale]map[string]string)}
	for _, locale := range []Locale{LocaleZH, LocaleEN} {
		data, err := localeFS.ReadFile("locales/" + string(locale) + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", locale, err)
		}
		catalog := make(map[string]string)
		if err := yaml.Unmarshal(data, &catalog); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", locale, err)
		}
		t.catalogs[locale] = catalog
	}
	return t, nil
}

// T resolves a key in the given locale, falling back to the key on a miss.
func (t *Translator) T(locale Locale, key string) string {
	if catalog, ok := t.catalogs[locale]; ok {
		if text, ok := catalog[key]; ok {
			return text
		}
	}
	return key
}

// Keys returns the key set of a locale's catalog.
func (t *Translator) Keys(locale Locale) []string {
	catalog := t.catalogs[locale]
	keys := make([]string, 0, len(catalog))
	for k := range catalog {
		keys = append(keys, k)
	}
	return keys
}

// TimestampLayout returns the locale's date-time layout for the submission
// payload and report header.
func TimestampLayout(locale Locale) string {
	if locale == LocaleEN {
		return "1/2/2006, 3:04:05 PM"
	}
	return "2006/1/2 15:04:05"
}

// DateLayout returns the locale's date-only layout, used in the report
// header and the export filename.
func DateLayout(locale Locale) string {
	if locale == LocaleEN {
		return "1/2/2006"
	}
	return "2006/1/2"
}
