package toshokan

import (
	"regexp"
	"strings"
)

const (
	tagDualAudio     = "[Dual Audio]"
	tagMultiSubs     = "[Multi Subs]"
	tagMultiLanguage = "[Multiple Languages]"
)

var (
	engTagRe  = regexp.MustCompile(`(?i)\[ENG\]`)
	langTagRe = regexp.MustCompile(`\[[A-Z]{2,3}(?:-[A-Z]{2})?\]`)
)

// FormatName appends informational tags to a title. Tags are added in a fixed
// order, each only when its signal is present and the tag is not already there,
// so FormatName(FormatName(t)) == FormatName(t).
func FormatName(title string) string {
	name := title

	if hasDualAudio(name) {
		name += " " + tagDualAudio
	}
	if hasMultiSubs(name) {
		name += " " + tagMultiSubs
	}
	if hasMultipleLanguages(name) {
		name += " " + tagMultiLanguage
	}

	return name
}

func hasDualAudio(title string) bool {
	lower := strings.ToLower(title)
	return engTagRe.MatchString(title) &&
		!strings.Contains(lower, "raw") &&
		!strings.Contains(lower, "dual audio")
}

func hasMultiSubs(title string) bool {
	lower := strings.ToLower(title)
	return strings.Contains(lower, "multiple subtitle") &&
		!strings.Contains(lower, "multi subs")
}

func hasMultipleLanguages(title string) bool {
	lower := strings.ToLower(title)
	return len(langTagRe.FindAllString(title, -1)) > 2 &&
		!strings.Contains(lower, "multiple languages")
}
