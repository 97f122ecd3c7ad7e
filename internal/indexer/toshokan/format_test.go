package toshokan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatName(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{
			name:  "no signals",
			title: "[Group] Show - 01 [1080p]",
			want:  "[Group] Show - 01 [1080p]",
		},
		{
			name:  "english audio tag",
			title: "[Group] Show - 01 [ENG] [1080p]",
			want:  "[Group] Show - 01 [ENG] [1080p] [Dual Audio]",
		},
		{
			name:  "english tag on raw release",
			title: "[Raws] Show - 01 [eng]",
			want:  "[Raws] Show - 01 [eng]",
		},
		{
			name:  "already dual audio",
			title: "[Group] Show - 01 [ENG] Dual Audio",
			want:  "[Group] Show - 01 [ENG] Dual Audio",
		},
		{
			name:  "multiple subtitles",
			title: "[Group] Show - 01 (Multiple Subtitle)",
			want:  "[Group] Show - 01 (Multiple Subtitle) [Multi Subs]",
		},
		{
			name:  "multiple language codes",
			title: "[Group] Show - 01 [JA] [EN] [PT-BR]",
			want:  "[Group] Show - 01 [JA] [EN] [PT-BR] [Multiple Languages]",
		},
		{
			name:  "two language codes are not enough",
			title: "[Group] Show - 01 [JA] [EN]",
			want:  "[Group] Show - 01 [JA] [EN]",
		},
		{
			name:  "all tags in order",
			title: "Show [ENG] [JPN] [SPA] Multiple Subtitle",
			want:  "Show [ENG] [JPN] [SPA] Multiple Subtitle [Dual Audio] [Multi Subs] [Multiple Languages]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatName(tt.title))
		})
	}
}

func TestFormatNameIdempotent(t *testing.T) {
	titles := []string{
		"[Group] Show - 01 [ENG] [1080p]",
		"Show [ENG] [JPN] [SPA] Multiple Subtitle",
		"[Group] Show - 01 (Multiple Subtitle)",
		"[Group] Show - 01 [JA] [EN] [PT-BR]",
		"plain",
	}

	for _, title := range titles {
		once := FormatName(title)
		assert.Equal(t, once, FormatName(once), title)
	}
}
