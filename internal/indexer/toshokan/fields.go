package toshokan

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// isoLayout renders instants the way the host expects them (millisecond
// precision, "Z" suffix for UTC).
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	sizeRe       = regexp.MustCompile(`(?i)([\d.]+)\s*(GB|MB|KB)`)
	resolutionRe = regexp.MustCompile(`(?i)\b(\d{3,4}p)\b`)
	infoHashRe   = regexp.MustCompile(`btih:([a-zA-Z0-9]+)`)
	seedersRe    = regexp.MustCompile(`S:\s*(\d+)`)
	leechersRe   = regexp.MustCompile(`L:\s*(\d+)`)
	completedRe  = regexp.MustCompile(`C:\s*(\d+)`)

	// Substrings of the bottom-row description cell.
	descSizeRe = regexp.MustCompile(`Size:\s*([\d.]+\s*\w+)`)
	descDateRe = regexp.MustCompile(`Date:\s*([\s\S]+?UTC)`)
)

// dateLayouts are tried in order against the timestamp once "UTC" is removed.
var dateLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Stats holds the swarm counters of a listing entry.
type Stats struct {
	Seeders   int
	Leechers  int
	Completed int
}

// ParseSize converts a "<number><unit>" string (GB, MB or KB, 1024-based)
// into bytes. Unmatched input yields 0.
func ParseSize(s string) int64 {
	m := sizeRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	num, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}

	var multiplier float64
	switch strings.ToUpper(m[2]) {
	case "GB":
		multiplier = 1024 * 1024 * 1024
	case "MB":
		multiplier = 1024 * 1024
	case "KB":
		multiplier = 1024
	default:
		return 0
	}
	return int64(math.Round(num * multiplier))
}

// ParseDate converts a "YYYY-MM-DD HH:mm UTC" timestamp into an ISO-8601
// instant. The UTC label is authoritative; no local-time conversion happens.
// Empty or unparsable input yields "".
func ParseDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = strings.TrimSpace(strings.TrimSuffix(s, "UTC"))

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC().Format(isoLayout)
		}
	}
	return ""
}

// ParseStats reads the S:, L: and C: counters. Each missing counter is 0.
func ParseStats(s string) Stats {
	return Stats{
		Seeders:   matchInt(seedersRe, s),
		Leechers:  matchInt(leechersRe, s),
		Completed: matchInt(completedRe, s),
	}
}

// ExtractInfoHash returns the value after "btih:" in a magnet URI.
func ExtractInfoHash(magnet string) string {
	if m := infoHashRe.FindStringSubmatch(magnet); m != nil {
		return m[1]
	}
	return ""
}

// ParseResolution returns a whole-word "<3-4 digits>p" token as found in the
// title, or "".
func ParseResolution(title string) string {
	if m := resolutionRe.FindStringSubmatch(title); m != nil {
		return m[1]
	}
	return ""
}

// descriptionFields pulls the raw size and date substrings out of the bottom
// row text. A missing size is reported as "0".
func descriptionFields(text string) (size, date string) {
	size = "0"
	if m := descSizeRe.FindStringSubmatch(text); m != nil {
		size = m[1]
	}
	if m := descDateRe.FindStringSubmatch(text); m != nil {
		date = m[1]
	}
	return size, date
}

func matchInt(re *regexp.Regexp, s string) int {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
