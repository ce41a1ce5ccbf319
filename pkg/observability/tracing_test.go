package observability

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestTracerProvider(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var out bytes.Buffer
	tp, err := NewTracerProvider("yuio-test", "0.0.1", &out)
	require.NoError(t, err)

	ctx, span := StartSpan(context.Background(), "test.command")
	span.SetAttributes(AttrCommand.String("ask"))
	RecordError(ctx, errors.New("boom"))
	span.End()

	require.NoError(t, tp.Shutdown(context.Background()))
	got := out.String()
	assert.Contains(t, got, `"Name": "test.command"`)
	assert.Contains(t, got, `"yuio.command"`)
	assert.Contains(t, got, "yuio-test")
	assert.Contains(t, got, "boom")
}
