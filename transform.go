package main

import (
	"fmt"

	"github.com/biogo/biogo/feat"
)

// Transform maps genomic intervals of one build onto the silhouette.
// Chromosome length is scaled linearly onto the drawn height; banding is not modelled.
type Transform struct {
	ref   *Reference
	build GenomeBuild
}

// NewTransform returns a transform for build using the geometry in ref.
func NewTransform(ref *Reference, build GenomeBuild) Transform {
	return Transform{ref: ref, build: build}
}

// Place converts the interval of f into drawing-surface coordinates.
// The chromosome is taken from f.Location().
func (t Transform) Place(f feat.Feature) (Placement, error) {
	loc := f.Location()
	if loc == nil {
		return Placement{}, fmt.Errorf("%w: feature %s has no location", ErrUnknownChromosome, f.Name())
	}
	chrom := loc.Name()

	geom, ok := t.ref.Geometry(chrom)
	if !ok {
		return Placement{}, fmt.Errorf("%w %q: no silhouette geometry", ErrUnknownChromosome, chrom)
	}
	length, ok := t.build.Length(chrom)
	if !ok {
		return Placement{}, fmt.Errorf("%w %q: not in build %s", ErrUnknownChromosome, chrom, t.build.Name)
	}

	scale := geom.Height / float64(length)
	return Placement{
		CenterX: geom.CenterX,
		YStart:  geom.OriginY + float64(f.Start())*scale,
		YEnd:    geom.OriginY + float64(f.End())*scale,
		Width:   geom.Width,
	}, nil
}
