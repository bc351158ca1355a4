package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"

	"pixflow/internal/batch"
)

// ConvertResult is the convert payload.
type ConvertResult struct {
	SourceFormat string `json:"source_format"`
	TargetFormat string `json:"target_format"`
	SourceBytes  int    `json:"source_bytes"`
	TargetBytes  int    `json:"target_bytes"`
	Data         []byte `json:"-"`
}

// Convert decodes the source and re-encodes it as format. Supported
// targets are jpeg, png, and gif.
func (p *Ops) Convert(ctx context.Context, source, format string, opts batch.Options) (any, error) {
	data, _, err := p.load(ctx, source)
	if err != nil {
		return nil, err
	}

	img, sourceFormat, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", source, err)
	}

	var buf bytes.Buffer
	target := strings.ToLower(format)
	switch target {
	case "jpeg", "jpg":
		target = "jpeg"
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.quality})
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		return nil, fmt.Errorf("unsupported target format: %s", format)
	}
	if err != nil {
		return nil, err
	}

	return ConvertResult{
		SourceFormat: sourceFormat,
		TargetFormat: target,
		SourceBytes:  len(data),
		TargetBytes:  buf.Len(),
		Data:         buf.Bytes(),
	}, nil
}
