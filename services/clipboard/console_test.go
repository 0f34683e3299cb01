package clipboardsvc

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleSink_Write(t *testing.T) {
	out := &bytes.Buffer{}
	sink := NewConsoleSink(out)

	assert.NoError(t, sink.Write(context.Background(), "http://localhost:8000/?data=abc"))
	assert.Contains(t, out.String(), "http://localhost:8000/?data=abc\n")
	assert.Equal(t, []string{"http://localhost:8000/?data=abc"}, sink.Copied())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, sink.Write(ctx, "ignored"))
	assert.Len(t, sink.Copied(), 1)
}
