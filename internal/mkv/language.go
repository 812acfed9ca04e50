package mkv

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// languageNames maps the ISO 639-2 codes most often found in Matroska files to
// the language's own name.
var languageNames = map[string]string{
	"eng": "English",
	"spa": "Español",
	"fre": "Français",
	"fra": "Français",
	"ger": "Deutsch",
	"deu": "Deutsch",
	"ita": "Italiano",
	"por": "Português",
	"rus": "Русский",
	"jpn": "日本語",
	"chi": "中文",
	"zho": "中文",
	"kor": "한국어",
	"ara": "العربية",
	"und": "Unknown",
}

// LanguageName returns a human-readable name for an ISO 639-2 code. Codes
// outside the fixed table are resolved through CLDR; anything unresolvable is
// shown upper-cased.
func LanguageName(code string) string {
	code = strings.TrimSpace(code)
	if name, ok := languageNames[strings.ToLower(code)]; ok {
		return name
	}
	if tag, err := language.Parse(code); err == nil {
		if name := display.Self.Name(tag); name != "" {
			return name
		}
	}
	return strings.ToUpper(code)
}
