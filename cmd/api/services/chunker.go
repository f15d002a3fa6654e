package services

import "time"

// contentSliceLen is the number of characters per content event. Two
// characters at a time reads as natural typing for CJK text.
const contentSliceLen = 2

// finalFlushInterval paces the last delta, which has no inter-arrival
// gap to derive a rate from.
const finalFlushInterval = 100 * time.Millisecond

// splitBlocks slices text into runs of size runes; the last block may
// be shorter. Splitting on runes keeps multi-byte characters intact.
func splitBlocks(text string, size int) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	blocks := make([]string, 0, (len(runes)+size-1)/size)
	for i := 0; i < len(runes); i += size {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		blocks = append(blocks, string(runes[i:end]))
	}
	return blocks
}

// sendInterval spreads the emission of n blocks evenly across the
// time the upstream spent producing them.
func sendInterval(elapsed time.Duration, n int) time.Duration {
	if n <= 1 {
		return 0
	}
	return elapsed / time.Duration(n-1)
}
