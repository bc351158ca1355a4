package imaging

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"time"

	"go.uber.org/zap"

	"pixflow/pkg/imgutil"
)

// Ops implements the engine's Provider interface with real image work:
// metadata analysis, re-encoding, format conversion, and palette
// extraction. All operations read the source fully into memory first.
type Ops struct {
	loader  *Loader
	quality int
	logger  *zap.Logger
}

// NewOps builds the provider. quality is the JPEG encode quality used by
// compress and convert, clamped to 1..100.
func NewOps(loader *Loader, quality int, logger *zap.Logger) *Ops {
	if loader == nil {
		loader = NewLoader(30 * time.Second)
	}
	if quality < 1 || quality > 100 {
		quality = 75
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ops{
		loader:  loader,
		quality: quality,
		logger:  logger.With(zap.String("component", "imaging")),
	}
}

// load pulls the source bytes and sniffs the container format.
func (p *Ops) load(ctx context.Context, source string) ([]byte, imgutil.Kind, error) {
	data, err := p.loader.Load(ctx, source)
	if err != nil {
		return nil, imgutil.KindUnknown, err
	}

	kind, err := imgutil.DetectBytes(data)
	if err != nil {
		return nil, imgutil.KindUnknown, err
	}

	p.logger.Debug("source loaded",
		zap.String("source", source),
		zap.String("kind", kind.String()),
		zap.Int("bytes", len(data)),
	)
	return data, kind, nil
}

// decode turns raw bytes into a pixel image via the registered stdlib
// codecs (jpeg, png, gif).
func decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	return img, format, nil
}
