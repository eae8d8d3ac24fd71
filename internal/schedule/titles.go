package schedule

import (
	"strings"

	"github.com/zapponejosh/audioreader-api/internal/lookup"
)

// CorrectTitle lower-cases a spoken program name and replaces it with the
// canonical title when it is a known mis-transcription.
func CorrectTitle(corrections *lookup.Table, spoken string) string {
	title := strings.ToLower(strings.TrimSpace(spoken))
	return corrections.Apply(title)
}
