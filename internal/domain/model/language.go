package model

import "strings"

type Language string

const (
	LanguageJava       Language = "JAVA"
	LanguagePython     Language = "PYTHON"
	LanguageCpp        Language = "CPP"
	LanguageJavaScript Language = "JAVASCRIPT"
)

// Languages is the fixed set a submission may use, in picker order.
var Languages = []Language{LanguageJava, LanguagePython, LanguageCpp, LanguageJavaScript}

var languageAliases = map[string]Language{
	"java":       LanguageJava,
	"python":     LanguagePython,
	"python3":    LanguagePython,
	"py":         LanguagePython,
	"cpp":        LanguageCpp,
	"c++":        LanguageCpp,
	"javascript": LanguageJavaScript,
	"js":         LanguageJavaScript,
}

// ParseLanguage resolves user input such as "c++" or "Python" to a Language.
func ParseLanguage(s string) (Language, bool) {
	l, ok := languageAliases[strings.ToLower(strings.TrimSpace(s))]
	return l, ok
}

func (l Language) Valid() bool {
	for _, known := range Languages {
		if l == known {
			return true
		}
	}
	return false
}
