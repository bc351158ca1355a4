package imaging

import (
	"bytes"
	"context"
	"errors"
	"image"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"

	"pixflow/internal/batch"
)

// AnalyzeReport is the analyze payload: container format, pixel
// dimensions, and a summary of embedded EXIF metadata.
type AnalyzeReport struct {
	Format       string `json:"format"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	SizeBytes    int    `json:"size_bytes"`
	ExifTags     int    `json:"exif_tags"`
	HasGPS       bool   `json:"has_gps"`
	HasModel     bool   `json:"has_model"`
	HasTimestamp bool   `json:"has_timestamp"`
	CameraModel  string `json:"camera_model,omitempty"`
}

func (p *Ops) Analyze(ctx context.Context, source string, opts batch.Options) (any, error) {
	data, kind, err := p.load(ctx, source)
	if err != nil {
		return nil, err
	}

	report := AnalyzeReport{
		Format:    kind.String(),
		SizeBytes: len(data),
	}

	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		report.Width = cfg.Width
		report.Height = cfg.Height
	}

	if err := fillExif(data, &report); err != nil {
		return nil, err
	}

	return report, nil
}

func fillExif(data []byte, report *AnalyzeReport) error {
	raw, err := exif.SearchAndExtractExif(data)
	if err != nil {
		if errors.Is(err, exif.ErrNoExif) {
			return nil
		}
		return err
	}

	tags, _, err := exif.GetFlatExifData(raw, nil)
	if err != nil {
		return err
	}

	report.ExifTags = len(tags)
	for _, tag := range tags {
		name := tag.TagName

		if strings.HasPrefix(name, "GPS") || strings.Contains(tag.IfdPath, "GPS") {
			report.HasGPS = true
		}
		if name == "Model" || name == "CameraModelName" {
			report.HasModel = true
			if report.CameraModel == "" {
				report.CameraModel = strings.TrimSpace(tag.FormattedFirst)
			}
		}
		if name == "DateTimeOriginal" || name == "DateTimeDigitized" || name == "DateTime" {
			report.HasTimestamp = true
		}
	}

	return nil
}
