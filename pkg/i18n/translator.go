package i18n

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLanguage is the language used when nothing else is configured.
const DefaultLanguage = "fr"

// Translator looks up messages in YAML catalogs.
type Translator struct {
	translations   map[string]map[string]any
	defaultLang    string
	missingLogMode bool
	logger         *slog.Logger
}

// NewTranslator loads every *.yaml and *.yml file at the root of fsys.
// Catalogs for the same language are merged; later files win on conflicts.
func NewTranslator(fsys fs.FS, options ...Option) (*Translator, error) {
	t := &Translator{
		translations: make(map[string]map[string]any),
		defaultLang:  DefaultLanguage,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, option := range options {
		option(t)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, errors.Join(ErrFailedToReadCatalog, err)
	}

	for _, entry := range entries {
		ext := strings.ToLower(path.Ext(entry.Name()))
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}

		content, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return nil, errors.Join(ErrFailedToReadCatalog, err)
		}

		catalog, err := parseYAML(content)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}

		for lang, messages := range catalog {
			if t.translations[lang] == nil {
				t.translations[lang] = make(map[string]any)
			}
			for k, v := range messages {
				t.translations[lang][k] = v
			}
		}
	}

	if len(t.translations) == 0 {
		return nil, ErrNoTranslations
	}

	t.logger.Info("translations loaded", slog.Any("languages", t.SupportedLanguages()))
	return t, nil
}

func parseYAML(content []byte) (map[string]map[string]any, error) {
	var data map[string]any
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, errors.Join(ErrFailedToParseYAML, err)
	}

	result := make(map[string]map[string]any, len(data))
	for lang, val := range data {
		messages, ok := val.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: language %q: expected map, got %T", ErrInvalidCatalog, lang, val)
		}
		result[lang] = messages
	}
	return result, nil
}

// SupportedLanguages returns the sorted language codes that have a catalog.
func (t *Translator) SupportedLanguages() []string {
	langs := make([]string, 0, len(t.translations))
	for lang := range t.translations {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	return langs
}

// DefaultLanguage returns the configured default language.
func (t *Translator) DefaultLanguage() string {
	return t.defaultLang
}

// lookup traverses the catalog using dot-separated keys.
func lookup(m map[string]any, key string) (string, bool) {
	parts := strings.Split(key, ".")
	current := m

	for i, part := range parts {
		next, ok := current[part]
		if !ok {
			return "", false
		}
		if i == len(parts)-1 {
			s, ok := next.(string)
			return s, ok
		}
		current, ok = next.(map[string]any)
		if !ok {
			return "", false
		}
	}
	return "", false
}

func (t *Translator) find(lang, key string) (string, bool) {
	if messages, ok := t.translations[lang]; ok {
		if s, ok := lookup(messages, key); ok {
			return s, true
		}
	}
	if lang != t.defaultLang {
		if messages, ok := t.translations[t.defaultLang]; ok {
			if s, ok := lookup(messages, key); ok {
				return s, true
			}
		}
	}
	if t.missingLogMode {
		t.logger.Warn("translation not found", slog.String("lang", lang), slog.String("key", key))
	}
	return "", false
}

// Has reports whether key resolves for lang, directly or through the default language.
func (t *Translator) Has(lang, key string) bool {
	_, ok := t.find(lang, key)
	return ok
}

var paramRegex = regexp.MustCompile(`%\{([^}]+)\}`)

// namedSprintf replaces "%{name}" placeholders; unknown names are left as is.
func namedSprintf(tmpl string, params map[string]string) string {
	if len(params) == 0 {
		return tmpl
	}
	return paramRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
		if val, ok := params[match[2:len(match)-1]]; ok {
			return val
		}
		return match
	})
}

// T translates key for lang using key/value argument pairs for placeholders.
// A missing translation returns the key itself.
//
//	// "welcome": "Bonjour, %{name} !"
//	tr.T("fr", "welcome", "name", "Jeanne") // "Bonjour, Jeanne !"
func (t *Translator) T(lang, key string, args ...string) string {
	params := make(map[string]string, len(args)/2)
	for i := 0; i < len(args)-1; i += 2 {
		params[args[i]] = args[i+1]
	}

	tmpl, ok := t.find(lang, key)
	if !ok {
		return namedSprintf(key, params)
	}
	return namedSprintf(tmpl, params)
}

// Localize translates key for the locale stored in ctx. Values are formatted
// with fmt.Sprint. It returns an empty string when the key is unknown, which
// lets callers keep their own fallback message.
func (t *Translator) Localize(ctx context.Context, key string, values map[string]any) string {
	lang := localeOrDefault(ctx, t.defaultLang)
	tmpl, ok := t.find(lang, key)
	if !ok {
		return ""
	}

	params := make(map[string]string, len(values))
	for k, v := range values {
		params[k] = fmt.Sprint(v)
	}
	return namedSprintf(tmpl, params)
}
