package main

import (
	"fmt"

	"github.com/biogo/biogo/feat"
)

// --- Reference Structs ---

// ChromosomeGeometry anchors one chromosome on the silhouette.
// CenterX/OriginY is the top of the chromosome spine, Height and Width its drawn extent.
type ChromosomeGeometry struct {
	CenterX float64 `yaml:"cx"`
	OriginY float64 `yaml:"cy"`
	Height  float64 `yaml:"ht"`
	Width   float64 `yaml:"width"`
}

// GenomeBuild maps chromosome names to total reference lengths (bp) for one assembly.
type GenomeBuild struct {
	Name    string
	lengths map[string]int
}

// Length returns the reference length of chrom in this build.
func (b GenomeBuild) Length(chrom string) (int, bool) {
	n, ok := b.lengths[chrom]
	return n, ok
}

// --- Feature Structs ---

// ShapeKind is the shape code from the input table.
type ShapeKind int

const (
	Rectangle ShapeKind = iota
	Circle
	Triangle
	LineShape
)

func (k ShapeKind) String() string {
	switch k {
	case Rectangle:
		return "rectangle"
	case Circle:
		return "circle"
	case Triangle:
		return "triangle"
	case LineShape:
		return "line"
	}
	return fmt.Sprintf("ShapeKind(%d)", int(k))
}

// Copy is the homologous chromosome copy a feature is drawn on.
type Copy int

const (
	LeftCopy  Copy = 1 // left of the spine
	RightCopy Copy = 2 // right of the spine
)

// Chromosome is a named chromosome. It is the location of every FeatureRecord.
// It carries only the name: lengths depend on the genome build and are
// looked up by Transform, so its own span is always empty.
type Chromosome string

func (c Chromosome) Start() int             { return 0 }
func (c Chromosome) End() int               { return 0 }
func (c Chromosome) Len() int               { return 0 }
func (c Chromosome) Name() string           { return string(c) }
func (c Chromosome) Description() string    { return "chromosome" }
func (c Chromosome) Location() feat.Feature { return nil }

// FeatureRecord is one normalized input line.
type FeatureRecord struct {
	// Line is the 1-based record number, comments excluded.
	Line int

	Chrom     Chromosome
	FeatStart int
	FeatEnd   int

	Kind  ShapeKind
	Size  float64 // fraction of the chromosome width, in (0, 1]
	Color string
	Copy  Copy
}

var _ feat.Feature = (*FeatureRecord)(nil)

func (f *FeatureRecord) Start() int             { return f.FeatStart }
func (f *FeatureRecord) End() int               { return f.FeatEnd }
func (f *FeatureRecord) Len() int               { return f.FeatEnd - f.FeatStart }
func (f *FeatureRecord) Name() string           { return fmt.Sprintf("%s:[%d,%d)", f.Chrom, f.FeatStart, f.FeatEnd) }
func (f *FeatureRecord) Description() string    { return f.Kind.String() }
func (f *FeatureRecord) Location() feat.Feature { return f.Chrom }

// --- Geometry Structs ---

// Point is a position on the drawing surface.
type Point struct {
	X, Y float64
}

// Placement is a genomic interval mapped onto the drawing surface.
type Placement struct {
	CenterX float64 // spine of the chromosome
	YStart  float64
	YEnd    float64
	Width   float64 // chromosome width
}

// MidY returns the vertical midpoint of the placement.
func (p Placement) MidY() float64 {
	return (p.YStart + p.YEnd) / 2
}

// DrawStats summarises one GenerateSVG run.
type DrawStats struct {
	Records int // non-comment lines read
	Drawn   int // shapes added to the document
	Overlay int // of which drawn in the overlay bucket
	Skipped int // records dropped with a diagnostic
}
