package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_CarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)

	ctx := WithRequestID(context.Background(), "rid-123")
	NewLogger(ctx).LogError("save_page", errors.New("boom"))

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "rid-123", line["request_id"])
	assert.Equal(t, "save_page", line["operation"])
	assert.Equal(t, "boom", line["error"])
	assert.Equal(t, "error", line["level"])
}

func TestLogger_UnknownRequestID(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)

	NewLogger(context.Background()).LogInfof("backfill", "updated %d", 3)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "unknown", line["request_id"])
	assert.Equal(t, "updated 3", line["message"])
}

// syncBuffer lets concurrent writers share one buffer.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func TestSetOutput_ConcurrentWithLogging(t *testing.T) {
	var out syncBuffer
	ctx := WithRequestID(context.Background(), "rid-1")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				SetOutput(&out)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				NewLogger(ctx).LogInfo("concurrent", "ok")
				Base().Debug().Msg("ok")
			}
		}()
	}
	wg.Wait()

	SetOutput(io.Discard)
	assert.NotNil(t, Base())
}
