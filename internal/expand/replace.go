package expand

import (
	"fmt"
	"sort"
	"strings"
)

// replacement substitutes text for src[start:end].
type replacement struct {
	start int
	end   int
	text  string
}

// applyReplacements rewrites src from the highest offset down so that the
// offsets of pending replacements stay valid. Overlapping ranges are refused.
func applyReplacements(src string, reps []replacement) (string, error) {
	if len(reps) == 0 {
		return src, nil
	}

	sorted := make([]replacement, len(reps))
	copy(sorted, reps)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].start > sorted[j].start
	})

	limit := len(src)
	for _, r := range sorted {
		if r.start < 0 || r.start > r.end || r.end > limit {
			return "", fmt.Errorf("replacement [%d, %d) overlaps or lies outside [0, %d)", r.start, r.end, limit)
		}
		limit = r.start
	}

	var sb strings.Builder
	sb.Grow(len(src))
	pos := 0
	for i := len(sorted) - 1; i >= 0; i-- {
		r := sorted[i]
		sb.WriteString(src[pos:r.start])
		sb.WriteString(r.text)
		pos = r.end
	}
	sb.WriteString(src[pos:])
	return sb.String(), nil
}
