package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSplitBlocksPairsRunes(t *testing.T) {
	assert.Equal(t, []string{"你好", "世界"}, splitBlocks("你好世界", 2))
	assert.Equal(t, []string{"ab", "cd", "e"}, splitBlocks("abcde", 2))
	assert.Equal(t, []string{"x"}, splitBlocks("x", 2))
	assert.Nil(t, splitBlocks("", 2))
}

func TestSplitBlocksConcatenationIsLossless(t *testing.T) {
	inputs := []string{"勾股定理的证明", "abc", "混合mixed文本", "�边界"}
	for _, input := range inputs {
		blocks := splitBlocks(input, 2)
		assert.Equal(t, input, strings.Join(blocks, ""))
		for _, block := range blocks {
			assert.LessOrEqual(t, len([]rune(block)), 2)
		}
	}
}

func TestSendInterval(t *testing.T) {
	assert.Equal(t, time.Duration(0), sendInterval(time.Second, 0))
	assert.Equal(t, time.Duration(0), sendInterval(time.Second, 1))
	assert.Equal(t, time.Second, sendInterval(time.Second, 2))
	assert.Equal(t, 250*time.Millisecond, sendInterval(time.Second, 5))
}
