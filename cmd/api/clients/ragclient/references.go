package ragclient

import (
	"regexp"
	"strconv"
)

// markerPattern matches the inline citation markers the engine embeds
// in answers, e.g. "##3$$" pointing at chunk index 3.
var markerPattern = regexp.MustCompile(`##(\d+)\$\$`)

// ReorderReferences reconciles an answer's citation markers with its
// chunk list. Chunks are deduplicated and renumbered by order of first
// use, so the returned list holds each cited chunk exactly once and
// every surviving marker ##i$$ points at index i of that list. Markers
// whose index falls outside the chunk list are removed from the text.
func ReorderReferences(text string, chunks []ReferenceChunk) ([]ReferenceChunk, string) {
	matches := markerPattern.FindAllStringSubmatchIndex(text, -1)

	type replacement struct {
		start, end int
		newIndex   int
		valid      bool
	}
	replacements := make([]replacement, 0, len(matches))
	assigned := make(map[int]int)
	kept := []ReferenceChunk{}

	for _, m := range matches {
		original, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil || original < 0 || original >= len(chunks) {
			replacements = append(replacements, replacement{start: m[0], end: m[1]})
			continue
		}
		newIndex, ok := assigned[original]
		if !ok {
			newIndex = len(kept)
			assigned[original] = newIndex
			kept = append(kept, chunks[original])
		}
		replacements = append(replacements, replacement{start: m[0], end: m[1], newIndex: newIndex, valid: true})
	}

	// Rewrite right to left so earlier byte offsets stay valid.
	out := text
	for i := len(replacements) - 1; i >= 0; i-- {
		r := replacements[i]
		if r.valid {
			out = out[:r.start] + "##" + strconv.Itoa(r.newIndex) + "$$" + out[r.end:]
		} else {
			out = out[:r.start] + out[r.end:]
		}
	}
	return kept, out
}

// PageCount returns the number of pages needed for totalItems at the
// given page size. Zero items means zero pages.
func PageCount(totalItems, pageSize int) int {
	if totalItems == 0 {
		return 0
	}
	return (totalItems-1)/pageSize + 1
}
