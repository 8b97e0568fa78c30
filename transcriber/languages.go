package transcriber

type Language struct {
	Code  string // ISO-639-1, "" = auto-detect
	Label string
}

// Languages offered in the language picker. The first two are the defaults
// shown in the window's dropdown.
var Languages = []Language{
	{"no", "Norsk"},
	{"en", "English (US)"},
	{"", "Auto-detect"},
	{"da", "Dansk"},
	{"sv", "Svenska"},
	{"de", "Deutsch"},
	{"fr", "Français"},
	{"es", "Español"},
	{"it", "Italiano"},
	{"nl", "Nederlands"},
	{"fi", "Suomi"},
	{"pl", "Polski"},
	{"pt", "Português"},
	{"uk", "Українська"},
}

// LookupLanguage returns the entry for code.
func LookupLanguage(code string) (Language, bool) {
	for _, l := range Languages {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}

// LanguageByLabel maps a picker label back to its entry.
func LanguageByLabel(label string) (Language, bool) {
	for _, l := range Languages {
		if l.Label == label {
			return l, true
		}
	}
	return Language{}, false
}

// LanguageLabels lists the picker labels in order.
func LanguageLabels() []string {
	out := make([]string, len(Languages))
	for i, l := range Languages {
		out[i] = l.Label
	}
	return out
}

// NextLanguage cycles through Languages starting after code.
func NextLanguage(code string) Language {
	for i, l := range Languages {
		if l.Code == code {
			return Languages[(i+1)%len(Languages)]
		}
	}
	return Languages[0]
}
