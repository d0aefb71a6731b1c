package main

import (
	"bytes"
	"errors"
	"fmt"
)

// Triangle marker proportions, matched to the bundled silhouette.
const (
	triangleHalfHeight = 21.5
	triangleHalfBase   = 38.2
)

var ErrUnknownShape = errors.New("unknown feature shape")

// Shape is one drawable feature.
type Shape interface {
	Kind() ShapeKind
	writeSVG(svg *bytes.Buffer)
}

// Rect is a rectangle filling part of one chromatid.
type Rect struct {
	X, Y          float64
	Width, Height float64
	Fill          string
}

func (*Rect) Kind() ShapeKind { return Rectangle }

func (r *Rect) writeSVG(svg *bytes.Buffer) {
	fmt.Fprintf(svg, `<rect x="%.2f" y="%.2f" fill="%s" width="%.2f" height="%.2f"/>`+"\n",
		r.X, r.Y, escapeXML(r.Fill), r.Width, r.Height)
}

// CircleMark is a circle centred on one chromatid.
type CircleMark struct {
	CX, CY, R float64
	Fill      string
}

func (*CircleMark) Kind() ShapeKind { return Circle }

func (c *CircleMark) writeSVG(svg *bytes.Buffer) {
	fmt.Fprintf(svg, `<circle fill="%s" cx="%.2f" cy="%.2f" r="%.2f"/>`+"\n",
		escapeXML(c.Fill), c.CX, c.CY, c.R)
}

// TriangleMark is an arrowhead outside the chromosome pointing at it.
// Points[1] is the apex on the chromosome edge.
type TriangleMark struct {
	Points [3]Point
	Fill   string
}

func (*TriangleMark) Kind() ShapeKind { return Triangle }

func (t *TriangleMark) writeSVG(svg *bytes.Buffer) {
	p := t.Points
	fmt.Fprintf(svg, `<polygon fill="%s" points="%.2f,%.2f %.2f,%.2f %.2f,%.2f"/>`+"\n",
		escapeXML(t.Fill), p[0].X, p[0].Y, p[1].X, p[1].Y, p[2].X, p[2].Y)
}

// LineMark is a horizontal tick across one chromatid.
type LineMark struct {
	X1, Y1, X2, Y2 float64
	Stroke         string
}

func (*LineMark) Kind() ShapeKind { return LineShape }

func (l *LineMark) writeSVG(svg *bytes.Buffer) {
	fmt.Fprintf(svg, `<line fill="none" stroke="%s" stroke-miterlimit="10" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n",
		escapeXML(l.Stroke), l.X1, l.Y1, l.X2, l.Y2)
}

// BuildShape constructs the shape for rec at placement p.
// Copy 1 is drawn left of the spine and copy 2 right of it.
func BuildShape(rec *FeatureRecord, p Placement) (Shape, error) {
	side := copySide(rec.Copy)

	switch rec.Kind {
	case Rectangle:
		width := p.Width * rec.Size / 2
		x := p.CenterX
		if side < 0 {
			x -= width
		}
		return &Rect{X: x, Y: p.YStart, Width: width, Height: p.YEnd - p.YStart, Fill: rec.Color}, nil

	case Circle:
		return &CircleMark{
			CX:   p.CenterX + side*p.Width/4,
			CY:   p.MidY(),
			R:    p.Width * rec.Size / 4,
			Fill: rec.Color,
		}, nil

	case Triangle:
		// Apex sits on the chromosome edge, the base extends away from it.
		apex := Point{X: p.CenterX + side*p.Width/2, Y: p.MidY()}
		sx := -side * triangleHalfBase * rec.Size
		sy := triangleHalfHeight * rec.Size
		return &TriangleMark{
			Points: [3]Point{
				{X: apex.X - sx, Y: apex.Y - sy},
				apex,
				{X: apex.X - sx, Y: apex.Y + sy},
			},
			Fill: rec.Color,
		}, nil

	case LineShape:
		y := p.MidY()
		x1, x2 := p.CenterX-p.Width/2, p.CenterX
		if side > 0 {
			x1, x2 = p.CenterX, p.CenterX+p.Width/2
		}
		return &LineMark{X1: x1, Y1: y, X2: x2, Y2: y, Stroke: rec.Color}, nil
	}
	return nil, checkKind(rec.Kind)
}

// checkKind returns an ErrUnknownShape error for kinds BuildShape cannot draw.
func checkKind(k ShapeKind) error {
	if k >= Rectangle && k <= LineShape {
		return nil
	}
	return fmt.Errorf("%w %d, use 0, 1, 2 or 3", ErrUnknownShape, int(k))
}

// copySide returns -1 for the left copy and +1 for the right copy.
func copySide(c Copy) float64 {
	if c == RightCopy {
		return 1
	}
	return -1
}
