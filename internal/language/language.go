package language

import "strings"

type entry struct {
	code    string   // Short pack code, lowercase (e.g. "jp")
	locale  string   // Localization folder name (e.g. "jp-jp")
	effect  string   // Three-letter code used by translation-effect markup
	display string   // Human-readable name
	words   []string // Full word forms (e.g. "japanese")
}

var languages = []entry{
	{"en", "en-us", "eng", "English", []string{"english"}},
	{"pl", "pl-pl", "pol", "Polish", []string{"polish"}},
	{"br", "pt-br", "bra", "Brazilian", []string{"brazilian", "portuguese"}},
	{"cn", "zh-cn", "chin", "Chinese", []string{"chinese", "mandarin"}},
	{"fr", "fr-fr", "fra", "French", []string{"french"}},
	{"de", "de-de", "deu", "German", []string{"german"}},
	{"it", "it-it", "ita", "Italian", []string{"italian"}},
	{"jp", "jp-jp", "jpn", "Japanese", []string{"japanese"}},
	{"kr", "kr-kr", "kor", "Korean", []string{"korean"}},
	{"ru", "ru-ru", "rus", "Russian", []string{"russian"}},
	{"es", "es-es", "spa", "Spanish", []string{"spanish"}},
	{"mx", "es-mx", "mex", "Latin American Spanish", []string{"latam"}},
	{"ar", "ar-ar", "ara", "Arabic", []string{"arabic"}},
	{"cz", "cz-cz", "cze", "Czech", []string{"czech"}},
	{"hu", "hu-hu", "hun", "Hungarian", []string{"hungarian"}},
	{"th", "th-th", "tha", "Thai", []string{"thai"}},
	{"tr", "tr-tr", "tur", "Turkish", []string{"turkish"}},
	{"ua", "ua-ua", "ukr", "Ukrainian", []string{"ukrainian"}},
	{"zh", "zh-tw", "zht", "Traditional Chinese", []string{"taiwanese"}},
}

// Index maps built at init time.
var (
	byCode   map[string]*entry
	byLocale map[string]*entry
	byEffect map[string]*entry
	byWord   map[string]*entry
)

func init() {
	byCode = make(map[string]*entry, len(languages))
	byLocale = make(map[string]*entry, len(languages))
	byEffect = make(map[string]*entry, len(languages))
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode[e.code] = e
		byLocale[e.locale] = e
		byEffect[e.effect] = e
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode[code]; ok {
		return e
	}
	if e, ok := byLocale[code]; ok {
		return e
	}
	if e, ok := byEffect[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	return nil
}

// Known reports whether the input resolves to a supported language.
func Known(code string) bool {
	return lookup(code) != nil
}

// Normalize converts any recognized identifier to the short pack code.
// Returns empty string for unrecognized input.
func Normalize(code string) string {
	if e := lookup(code); e != nil {
		return e.code
	}
	return ""
}

// Locale returns the localization folder name for any recognized identifier.
// Unrecognized input passes through lowercased so callers can still build paths.
func Locale(code string) string {
	if e := lookup(code); e != nil {
		return e.locale
	}
	return strings.ToLower(strings.TrimSpace(code))
}

// EffectCode returns the three-letter code used by translation-effect markup.
// Returns "und" for unrecognized input.
func EffectCode(code string) string {
	if e := lookup(code); e != nil {
		return e.effect
	}
	return "und"
}

// DisplayName returns a human-readable language name for any recognized code.
// Returns "Unknown" for empty input, or the uppercased code for unrecognized input.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	if e := lookup(code); e != nil {
		return e.display
	}
	return strings.ToUpper(strings.TrimSpace(code))
}

// NormalizeList deduplicates and normalizes a list of language identifiers to
// short pack codes, dropping anything unrecognized.
func NormalizeList(codes []string) []string {
	if len(codes) == 0 {
		return nil
	}
	normalized := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		mapped := Normalize(code)
		if mapped == "" {
			continue
		}
		if _, ok := seen[mapped]; ok {
			continue
		}
		seen[mapped] = struct{}{}
		normalized = append(normalized, mapped)
	}
	return normalized
}
