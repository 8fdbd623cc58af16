package locale

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

// DeviceLocale returns the locale reported by the environment, checking
// LC_ALL, LC_MESSAGES and LANG in that order.
func DeviceLocale() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// MatchDeviceLocale maps a POSIX locale ("he_IL.UTF-8") or BCP 47 tag
// ("he-IL") onto one of the supported language codes.
func MatchDeviceLocale(raw string, supported []string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexAny(raw, ".@"); i >= 0 {
		raw = raw[:i]
	}
	if raw == "" || raw == "C" || raw == "POSIX" || len(supported) == 0 {
		return "", false
	}

	tag, err := language.Parse(strings.ReplaceAll(raw, "_", "-"))
	if err != nil {
		return "", false
	}

	tags := make([]language.Tag, 0, len(supported))
	for _, s := range supported {
		t, err := language.Parse(s)
		if err != nil {
			t = language.Und
		}
		tags = append(tags, t)
	}

	_, idx, conf := language.NewMatcher(tags).Match(tag)
	if conf == language.No {
		return "", false
	}
	return supported[idx], true
}
