// Package i18n loads the bundled translation catalogs and tracks the active
// language.
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var bundled embed.FS

// ErrUnknownLanguage is returned when no bundle exists for a language code.
var ErrUnknownLanguage = errors.New("unknown language")

// Bundle is one language's translation file.
type Bundle struct {
	Name      string            `yaml:"name"`
	Direction string            `yaml:"direction"`
	Messages  map[string]string `yaml:"messages"`
}

// Catalog holds the loaded bundles and the active language.
type Catalog struct {
	fallback string
	bundles  map[string]Bundle

	mu   sync.RWMutex
	lang string
}

// Load reads the bundled catalogs. When supported is non-empty only those
// languages are kept and each must have a bundle. The fallback language is
// active until ChangeLanguage is called.
func Load(fallback string, supported ...string) (*Catalog, error) {
	sub, err := fs.Sub(bundled, "locales")
	if err != nil {
		return nil, err
	}
	return LoadFS(sub, fallback, supported...)
}

// LoadFS reads "<lang>.yaml" files from fsys.
func LoadFS(fsys fs.FS, fallback string, supported ...string) (*Catalog, error) {
	files, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, fmt.Errorf("list locales: %w", err)
	}

	bundles := make(map[string]Bundle, len(files))
	for _, f := range files {
		lang := strings.ToLower(strings.TrimSuffix(path.Base(f), ".yaml"))

		data, err := fs.ReadFile(fsys, f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f, err)
		}

		var b Bundle
		if err := yaml.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("parse %s: %w", f, err)
		}
		if b.Messages == nil {
			b.Messages = map[string]string{}
		}
		bundles[lang] = b
	}

	if len(supported) > 0 {
		kept := make(map[string]Bundle, len(supported))
		for _, lang := range supported {
			lang = strings.ToLower(strings.TrimSpace(lang))
			b, ok := bundles[lang]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
			}
			kept[lang] = b
		}
		bundles = kept
	}

	fallback = strings.ToLower(strings.TrimSpace(fallback))
	if _, ok := bundles[fallback]; !ok {
		return nil, fmt.Errorf("fallback %w: %q", ErrUnknownLanguage, fallback)
	}

	return &Catalog{
		fallback: fallback,
		bundles:  bundles,
		lang:     fallback,
	}, nil
}

// ChangeLanguage activates lang.
func (c *Catalog) ChangeLanguage(lang string) error {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if _, ok := c.bundles[lang]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}

	c.mu.Lock()
	c.lang = lang
	c.mu.Unlock()
	return nil
}

// Language returns the active language code.
func (c *Catalog) Language() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lang
}

// Languages returns the available language codes, sorted.
func (c *Catalog) Languages() []string {
	langs := make([]string, 0, len(c.bundles))
	for lang := range c.bundles {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	return langs
}

// Supports reports whether a bundle exists for lang.
func (c *Catalog) Supports(lang string) bool {
	_, ok := c.bundles[strings.ToLower(strings.TrimSpace(lang))]
	return ok
}

// Name returns the display name of lang in its own language, or the code
// itself when unknown.
func (c *Catalog) Name(lang string) string {
	if b, ok := c.bundles[lang]; ok && b.Name != "" {
		return b.Name
	}
	return lang
}

// T translates key into the active language. Missing keys fall back to the
// fallback language and then to the key itself. Placeholders {0}, {1}, ...
// are replaced with args.
func (c *Catalog) T(key string, args ...any) string {
	return c.TIn(c.Language(), key, args...)
}

// TIn translates key into lang.
func (c *Catalog) TIn(lang, key string, args ...any) string {
	msg, ok := c.bundles[lang].Messages[key]
	if !ok {
		msg, ok = c.bundles[c.fallback].Messages[key]
	}
	if !ok {
		msg = key
	}
	return format(msg, args)
}

func format(msg string, args []any) string {
	if len(args) == 0 || !strings.Contains(msg, "{") {
		return msg
	}

	pairs := make([]string, 0, len(args)*2)
	for i, a := range args {
		pairs = append(pairs, "{"+strconv.Itoa(i)+"}", fmt.Sprint(a))
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}
