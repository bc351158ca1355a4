package batch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeProvider routes every operation through optional hooks; operations
// without a hook succeed with a canned payload.
type fakeProvider struct {
	analyze       func(ctx context.Context, source string, opts Options) (any, error)
	compress      func(ctx context.Context, source string, opts Options) (any, error)
	convert       func(ctx context.Context, source, format string, opts Options) (any, error)
	extractColors func(ctx context.Context, source string, opts Options) (any, error)
}

func (f *fakeProvider) Analyze(ctx context.Context, source string, opts Options) (any, error) {
	if f.analyze != nil {
		return f.analyze(ctx, source, opts)
	}
	return "analyzed:" + source, nil
}

func (f *fakeProvider) Compress(ctx context.Context, source string, opts Options) (any, error) {
	if f.compress != nil {
		return f.compress(ctx, source, opts)
	}
	return "compressed:" + source, nil
}

func (f *fakeProvider) Convert(ctx context.Context, source, format string, opts Options) (any, error) {
	if f.convert != nil {
		return f.convert(ctx, source, format, opts)
	}
	return "converted:" + source + ":" + format, nil
}

func (f *fakeProvider) ExtractColors(ctx context.Context, source string, opts Options) (any, error) {
	if f.extractColors != nil {
		return f.extractColors(ctx, source, opts)
	}
	return "colors:" + source, nil
}

func TestDispatchRoutesOperations(t *testing.T) {
	d := NewDispatcher(&fakeProvider{}, zap.NewNop())
	ctx := context.Background()

	tests := []struct {
		operation Operation
		options   Options
		payload   string
	}{
		{OpAnalyze, nil, "analyzed:x.png"},
		{OpCompress, nil, "compressed:x.png"},
		{OpConvert, Options{"targetFormat": "jpeg"}, "converted:x.png:jpeg"},
		{OpExtractColors, nil, "colors:x.png"},
	}

	for _, tt := range tests {
		t.Run(string(tt.operation), func(t *testing.T) {
			outcome := d.Dispatch(ctx, WorkItem{Source: "x.png", Operation: tt.operation, Options: tt.options})

			require.True(t, outcome.OK())
			assert.Equal(t, "x.png", outcome.Source)
			assert.Equal(t, tt.payload, outcome.Payload)
			assert.Empty(t, outcome.Message)
		})
	}
}

func TestDispatchConvertRequiresTargetFormat(t *testing.T) {
	called := false
	provider := &fakeProvider{
		convert: func(ctx context.Context, source, format string, opts Options) (any, error) {
			called = true
			return nil, nil
		},
	}
	d := NewDispatcher(provider, zap.NewNop())

	outcome := d.Dispatch(context.Background(), WorkItem{Source: "x.png", Operation: OpConvert})

	require.False(t, outcome.OK())
	assert.Equal(t, "targetFormat is required for convert operation", outcome.Message)
	assert.False(t, called, "provider must not be invoked when pre-validation fails")
	assert.Zero(t, outcome.DurationMs)
}

func TestDispatchUnsupportedOperation(t *testing.T) {
	d := NewDispatcher(&fakeProvider{}, zap.NewNop())

	outcome := d.Dispatch(context.Background(), WorkItem{Source: "x.png", Operation: Operation("resize")})

	require.False(t, outcome.OK())
	assert.Equal(t, "Unsupported operation: resize", outcome.Message)
}

func TestDispatchProviderError(t *testing.T) {
	provider := &fakeProvider{
		analyze: func(ctx context.Context, source string, opts Options) (any, error) {
			return nil, errors.New("decode failed: truncated file")
		},
	}
	d := NewDispatcher(provider, zap.NewNop())

	outcome := d.Dispatch(context.Background(), WorkItem{Source: "x.png", Operation: OpAnalyze})

	require.False(t, outcome.OK())
	assert.Equal(t, "decode failed: truncated file", outcome.Message)
	assert.Nil(t, outcome.Payload)
	assert.Zero(t, outcome.DurationMs)
}

func TestDispatchRecoversProviderPanic(t *testing.T) {
	provider := &fakeProvider{
		analyze: func(ctx context.Context, source string, opts Options) (any, error) {
			panic("codec blew up")
		},
	}
	d := NewDispatcher(provider, zap.NewNop())

	outcome := d.Dispatch(context.Background(), WorkItem{Source: "x.png", Operation: OpAnalyze})

	require.False(t, outcome.OK())
	assert.Contains(t, outcome.Message, "codec blew up")
}

func TestDispatchMeasuresDuration(t *testing.T) {
	provider := &fakeProvider{
		analyze: func(ctx context.Context, source string, opts Options) (any, error) {
			time.Sleep(20 * time.Millisecond)
			return "ok", nil
		},
	}
	d := NewDispatcher(provider, zap.NewNop())

	outcome := d.Dispatch(context.Background(), WorkItem{Source: "x.png", Operation: OpAnalyze})

	require.True(t, outcome.OK())
	assert.GreaterOrEqual(t, outcome.DurationMs, uint64(15))
}
