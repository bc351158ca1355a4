package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"image/png"

	"pixflow/internal/batch"
)

// CompressResult is the compress payload.
type CompressResult struct {
	Format          string  `json:"format"`
	OriginalBytes   int     `json:"original_bytes"`
	CompressedBytes int     `json:"compressed_bytes"`
	PercentSaved    float64 `json:"percent_saved"`
	Quality         int     `json:"quality,omitempty"`
	Data            []byte  `json:"-"`
}

// Compress re-encodes the source more aggressively: JPEG at the configured
// quality, PNG at best compression. An opts "quality" number overrides the
// provider default for this item.
func (p *Ops) Compress(ctx context.Context, source string, opts batch.Options) (any, error) {
	data, kind, err := p.load(ctx, source)
	if err != nil {
		return nil, err
	}

	img, format, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", source, err)
	}

	quality := p.quality
	if q, ok := optInt(opts, "quality"); ok && q >= 1 && q <= 100 {
		quality = q
	}

	var buf bytes.Buffer
	result := CompressResult{
		Format:        format,
		OriginalBytes: len(data),
	}

	switch format {
	case "jpeg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
		result.Quality = quality
	case "png", "gif":
		encoder := png.Encoder{CompressionLevel: png.BestCompression}
		if err := encoder.Encode(&buf, img); err != nil {
			return nil, err
		}
		result.Format = "png"
	default:
		return nil, fmt.Errorf("compression not supported for %s images", kind)
	}

	result.CompressedBytes = buf.Len()
	result.Data = buf.Bytes()
	if result.OriginalBytes > 0 {
		saved := float64(result.OriginalBytes-result.CompressedBytes) / float64(result.OriginalBytes) * 100
		if saved < 0 {
			saved = 0
		}
		result.PercentSaved = saved
	}

	return result, nil
}

func optInt(opts batch.Options, key string) (int, bool) {
	switch v := opts[key].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
