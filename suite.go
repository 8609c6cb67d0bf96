package dither

import (
	"context"
	"runtime"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Variant is a named dithering strategy run by the Suite.
type Variant struct {
	Name     string
	Ditherer Ditherer
}

// Result holds the outcome of a single variant.
type Result struct {
	Name    string
	Raster  *Raster
	Elapsed time.Duration
}

// Suite runs several dithering variants over the same source image.
// Every variant works on its own copy of the source, so they can run concurrently.
type Suite struct {
	Variants    []Variant
	Quantizer   Quantizer
	Concurrency int
}

// DefaultVariants returns the five supported methods in their presentation order.
func DefaultVariants(opts Options) []Variant {
	variants := make([]Variant, 0, len(methods))
	for _, m := range methods {
		d, err := m.Ditherer(opts)
		if err != nil {
			// All the registered methods have a ditherer.
			panic(err)
		}
		variants = append(variants, Variant{Name: m.Title(), Ditherer: d})
	}
	return variants
}

// NewSuite creates a suite running every supported method with the given quantizer.
func NewSuite(q Quantizer, opts Options) *Suite {
	return &Suite{
		Variants:    DefaultVariants(opts),
		Quantizer:   q,
		Concurrency: runtime.NumCPU(),
	}
}

// Run dithers a copy of src with each variant and returns the results in variant order,
// together with the time spent by each of them. The source raster is left untouched.
// Variants not yet started when ctx is cancelled are skipped.
func (s *Suite) Run(ctx context.Context, src *Raster) ([]Result, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if s.Quantizer == nil {
		return nil, ErrNilQuantizer
	}

	results := make([]Result, len(s.Variants))
	g, ctx := errgroup.WithContext(ctx)
	if s.Concurrency > 0 {
		g.SetLimit(s.Concurrency)
	}

	for i, v := range s.Variants {
		i, v := i, v
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img := src.Clone()

			start := time.Now()
			if err := v.Ditherer.Dither(img, s.Quantizer); err != nil {
				return errors.Wrapf(err, "%s dithering failed", v.Name)
			}
			elapsed := time.Since(start)

			log.WithFields(log.Fields{
				"variant": v.Name,
				"elapsed": elapsed,
			}).Debug("dithering done")

			results[i] = Result{
				Name:    v.Name,
				Raster:  img,
				Elapsed: elapsed,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
