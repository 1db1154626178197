// Package transcript converts SRT caption payloads into time-coded
// segments.
package transcript

import (
	"regexp"
	"strconv"
	"strings"

	"vidscope/internal/models"
)

// timecodeRe matches one "HH:MM:SS,mmm --> HH:MM:SS,mmm" line.
var timecodeRe = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2}),(\d{3})\s*-->\s*(\d{2}):(\d{2}):(\d{2}),(\d{3})$`)

// Parse splits an SRT payload into ordered segments. Each block is an index
// line, a timecode line and one or more text lines, separated from the next
// block by a blank line. Malformed blocks are skipped, never fatal, and
// input order is preserved (no re-sorting).
func Parse(payload string) []models.TranscriptSegment {
	payload = strings.ReplaceAll(payload, "\r\n", "\n")

	var segments []models.TranscriptSegment
	for _, block := range strings.Split(payload, "\n\n") {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 3 {
			continue
		}

		start, end, ok := parseTimecode(strings.TrimSpace(lines[1]))
		if !ok {
			continue
		}

		text := strings.TrimSpace(strings.Join(lines[2:], " "))
		if text == "" {
			continue
		}

		segments = append(segments, models.TranscriptSegment{
			Text:  text,
			Start: start,
			End:   end,
		})
	}

	return segments
}

func parseTimecode(line string) (start, end float64, ok bool) {
	m := timecodeRe.FindStringSubmatch(line)
	if m == nil {
		return 0, 0, false
	}
	return toSeconds(m[1], m[2], m[3], m[4]), toSeconds(m[5], m[6], m[7], m[8]), true
}

func toSeconds(h, m, s, ms string) float64 {
	hours, _ := strconv.Atoi(h)
	minutes, _ := strconv.Atoi(m)
	seconds, _ := strconv.Atoi(s)
	millis, _ := strconv.Atoi(ms)
	return float64(hours)*3600 + float64(minutes)*60 + float64(seconds) + float64(millis)/1000
}
