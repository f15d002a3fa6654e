package ragclient

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func streamFrom(lines ...string) *ChatStream {
	return newChatStream(io.NopCloser(strings.NewReader(strings.Join(lines, "\n") + "\n")))
}

func collect(s *ChatStream) []string {
	var snapshots []string
	for {
		snapshot, ok := s.Next()
		if !ok {
			return snapshots
		}
		snapshots = append(snapshots, snapshot)
	}
}

func TestChatStreamYieldsCumulativeSnapshots(t *testing.T) {
	s := streamFrom(
		`data:{"code":0,"data":{"answer":"你"}}`,
		`data:{"code":0,"data":{"answer":"你好"}}`,
		`data:{"code":0,"data":{"answer":"你好，世界"}}`,
		`data:{"code":0,"data":true}`,
	)
	defer s.Close()

	snapshots := collect(s)

	assert.NoError(t, s.Err())
	assert.Equal(t, []string{"你", "你好", "你好，世界"}, snapshots)
	assert.Equal(t, "你好，世界", s.CompleteMessage())
	assert.Empty(t, s.References())
}

func TestChatStreamConsumesReferenceFrame(t *testing.T) {
	s := streamFrom(
		`data:{"code":0,"data":{"answer":"答案"}}`,
		`data:{"code":0,"data":{"answer":"答案##1$$","reference":{"chunks":[{"id":"a","content":"x","dataset_id":"ds","document_id":"d","document_name":"n"},{"id":"b","content":"y","dataset_id":"ds","document_id":"d","document_name":"n"}]}}}`,
		`data:{"code":0,"data":true}`,
	)
	defer s.Close()

	snapshots := collect(s)

	assert.NoError(t, s.Err())
	// the reference frame is not yielded as a snapshot
	assert.Equal(t, []string{"答案"}, snapshots)
	assert.Equal(t, "答案##0$$", s.CompleteMessage())
	assert.Len(t, s.References(), 1)
	assert.Equal(t, "b", s.References()[0].ID)
}

func TestChatStreamErrorFrame(t *testing.T) {
	s := streamFrom(
		`data:{"code":0,"data":{"answer":"开始"}}`,
		`data:{"code":102,"message":"session not found","data":null}`,
	)
	defer s.Close()

	snapshots := collect(s)

	assert.Equal(t, []string{"开始"}, snapshots)
	assert.ErrorContains(t, s.Err(), "session not found")
}

func TestChatStreamSkipsNonDataLines(t *testing.T) {
	s := streamFrom(
		``,
		`: keepalive`,
		`data:{"code":0,"data":{"answer":"ok"}}`,
		`data:{"code":0,"data":true}`,
	)
	defer s.Close()

	assert.Equal(t, []string{"ok"}, collect(s))
	assert.NoError(t, s.Err())
}

func TestChatStreamEOFWithoutTerminalFrame(t *testing.T) {
	s := streamFrom(
		`data:{"code":0,"data":{"answer":"部分"}}`,
	)
	defer s.Close()

	assert.Equal(t, []string{"部分"}, collect(s))
	assert.NoError(t, s.Err())
	assert.Equal(t, "部分", s.CompleteMessage())
}
