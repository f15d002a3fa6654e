package ragclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleChunks() []ReferenceChunk {
	return []ReferenceChunk{
		{ID: "c0", Content: "zero", DatasetID: "ds", DocumentID: "d0", DocumentName: "first.pdf"},
		{ID: "c1", Content: "one", DatasetID: "ds", DocumentID: "d1", DocumentName: "second.pdf"},
		{ID: "c2", Content: "two", DatasetID: "ds", DocumentID: "d2", DocumentName: "third.pdf"},
	}
}

func TestReorderReferencesRenumbersByFirstUse(t *testing.T) {
	refs, text := ReorderReferences("答案##2$$继续##0$$结束", sampleChunks())

	assert.Equal(t, "答案##0$$继续##1$$结束", text)
	assert.Len(t, refs, 2)
	assert.Equal(t, "c2", refs[0].ID)
	assert.Equal(t, "c0", refs[1].ID)
}

func TestReorderReferencesDeduplicatesRepeatedMarkers(t *testing.T) {
	refs, text := ReorderReferences("a##1$$b##1$$c##1$$", sampleChunks())

	assert.Equal(t, "a##0$$b##0$$c##0$$", text)
	assert.Len(t, refs, 1)
	assert.Equal(t, "c1", refs[0].ID)
}

func TestReorderReferencesDropsOutOfRangeMarkers(t *testing.T) {
	refs, text := ReorderReferences("前##7$$后##1$$", sampleChunks())

	assert.Equal(t, "前后##0$$", text)
	assert.Len(t, refs, 1)
	assert.Equal(t, "c1", refs[0].ID)
}

func TestReorderReferencesNoMarkers(t *testing.T) {
	refs, text := ReorderReferences("纯文本回答", sampleChunks())

	assert.Equal(t, "纯文本回答", text)
	assert.Empty(t, refs)
	assert.NotNil(t, refs)
}

func TestReorderReferencesEmptyChunkList(t *testing.T) {
	refs, text := ReorderReferences("见##0$$处", nil)

	assert.Equal(t, "见处", text)
	assert.Empty(t, refs)
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 0, PageCount(0, 30))
	assert.Equal(t, 1, PageCount(1, 30))
	assert.Equal(t, 1, PageCount(30, 30))
	assert.Equal(t, 2, PageCount(31, 30))
	assert.Equal(t, 4, PageCount(100, 30))
}
