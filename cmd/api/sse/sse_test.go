package sse

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWriterSetsStreamingHeaders(t *testing.T) {
	rec := httptest.NewRecorder()

	_, err := NewWriter(rec)

	require.NoError(t, err)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "no", rec.Header().Get("X-Accel-Buffering"))
}

func TestSendFramesEventAsDataLine(t *testing.T) {
	rec := httptest.NewRecorder()
	writer, err := NewWriter(rec)
	require.NoError(t, err)

	err = writer.Send(ContentEvent{Type: EventContent, Role: "assistant", Content: "你好"})

	require.NoError(t, err)
	assert.Equal(t, "data: {\"type\":\"content\",\"role\":\"assistant\",\"content\":\"你好\"}\n\n", rec.Body.String())
	assert.True(t, rec.Flushed)
}

type plainWriter struct {
	http.ResponseWriter
}

func TestNewWriterRejectsNonFlushableWriter(t *testing.T) {
	_, err := NewWriter(plainWriter{httptest.NewRecorder()})

	assert.Error(t, err)
}
