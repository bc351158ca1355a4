package imaging

import (
	"context"
	"fmt"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"pixflow/internal/batch"
)

// Swatch is one dominant color with its share of sampled pixels.
type Swatch struct {
	Hex     string  `json:"hex"`
	Percent float64 `json:"percent"`
}

// Palette is the extract_colors payload.
type Palette struct {
	Format   string   `json:"format"`
	Sampled  int      `json:"sampled_pixels"`
	Swatches []Swatch `json:"swatches"`
}

// sampleBudget bounds how many pixels extraction inspects regardless of
// image size.
const sampleBudget = 4096

// clusterThreshold is the perceptual distance under which a sample joins
// an existing cluster instead of seeding a new one.
const clusterThreshold = 0.12

// ExtractColors samples the image and greedily clusters samples in Lab
// space, returning the most populous clusters as hex swatches. An opts
// "count" number sets the palette size (default 5).
func (p *Ops) ExtractColors(ctx context.Context, source string, opts batch.Options) (any, error) {
	data, _, err := p.load(ctx, source)
	if err != nil {
		return nil, err
	}

	img, format, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", source, err)
	}

	count := 5
	if n, ok := optInt(opts, "count"); ok && n >= 1 && n <= 32 {
		count = n
	}

	bounds := img.Bounds()
	step := 1
	for (bounds.Dx()/step)*(bounds.Dy()/step) > sampleBudget {
		step++
	}

	type cluster struct {
		center colorful.Color
		count  int
	}
	var clusters []*cluster
	sampled := 0

	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				// Fully transparent pixel; nothing to sample.
				continue
			}
			sampled++

			var nearest *cluster
			best := clusterThreshold
			for _, cl := range clusters {
				if d := c.DistanceLab(cl.center); d < best {
					best = d
					nearest = cl
				}
			}
			if nearest == nil {
				clusters = append(clusters, &cluster{center: c, count: 1})
				continue
			}
			// Fold the sample into the running center so the cluster
			// drifts toward its true mean.
			w := float64(nearest.count)
			nearest.center = c.BlendLab(nearest.center, w/(w+1))
			nearest.count++
		}
	}

	if sampled == 0 {
		return nil, fmt.Errorf("no opaque pixels to sample in %s", source)
	}

	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i].count > clusters[j].count
	})
	if len(clusters) > count {
		clusters = clusters[:count]
	}

	palette := Palette{
		Format:   format,
		Sampled:  sampled,
		Swatches: make([]Swatch, 0, len(clusters)),
	}
	for _, cl := range clusters {
		palette.Swatches = append(palette.Swatches, Swatch{
			Hex:     cl.center.Clamped().Hex(),
			Percent: float64(cl.count) / float64(sampled) * 100,
		})
	}

	return palette, nil
}
