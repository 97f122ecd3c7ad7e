package toshokan

import (
	"regexp"
	"strconv"
)

// Title heuristics. Release titles are free text from many groups; each rule
// matches only the common conventions and otherwise reports "unknown".
var (
	// batchKeywordRe matches batch, complete, pack or collection as whole words.
	batchKeywordRe = regexp.MustCompile(`(?i)\b(?:batch|complete|pack|collection)\b`)

	// batchRangeRe matches an episode range such as 01-12 or 1 ~ 24.
	batchRangeRe = regexp.MustCompile(`\b\d{1,3}(?:-|\s*~\s*)\d{1,3}\b`)

	// episodeRe matches 1-4 digits opened by " - ", "[" or "(", with an optional
	// vN revision, closed by whitespace, "]", ")" or "END".
	episodeRe = regexp.MustCompile(`(?: - |\[|\()(\d{1,4})(?:v\d+)?(?:\s|\]|\)|END)`)
)

// IsBatch reports whether a title describes a multi-episode release.
func IsBatch(title string) bool {
	return batchKeywordRe.MatchString(title) || batchRangeRe.MatchString(title)
}

// ParseEpisode returns the first episode number found in a single-episode
// title. Batches and titles without a recognizable number yield -1.
func ParseEpisode(title string) int {
	if IsBatch(title) {
		return -1
	}
	m := episodeRe.FindStringSubmatch(title)
	if m == nil {
		return -1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return -1
	}
	return n
}
