package main

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
)

// featureMarker separates the template header from its footer.
const featureMarker = "<!-- features -->"

//go:embed assets/base.svg
var baseTemplate []byte

var ErrTemplateMarker = errors.New("template must contain exactly one " + featureMarker + " marker")

// Template is the silhouette artwork the features are drawn into.
// Header opens the document, Footer is drawn over the base shapes.
// Neither contains the closing </svg> tag.
type Template struct {
	Header string
	Footer string
}

// ParseTemplate splits a complete SVG document at its feature marker.
func ParseTemplate(data []byte) (Template, error) {
	text := string(data)
	if strings.Count(text, featureMarker) != 1 {
		return Template{}, ErrTemplateMarker
	}
	i := strings.Index(text, featureMarker)
	header := text[:i]
	footer := strings.TrimLeft(text[i+len(featureMarker):], "\r\n")

	end := strings.LastIndex(footer, "</svg>")
	if end < 0 {
		return Template{}, errors.New("template has no closing </svg> tag")
	}
	return Template{Header: header, Footer: footer[:end]}, nil
}

// LoadTemplate reads a template from path, or returns the bundled one when path is empty.
func LoadTemplate(path string) (Template, error) {
	if path == "" {
		return ParseTemplate(baseTemplate)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Template{}, fmt.Errorf("failed to read template '%s': %w", path, err)
	}
	t, err := ParseTemplate(data)
	if err != nil {
		return Template{}, fmt.Errorf("template '%s': %w", path, err)
	}
	return t, nil
}

// Document accumulates shapes in draw order.
// Triangles go to the overlay and are always drawn after everything else.
type Document struct {
	template Template
	base     []Shape
	overlay  []Shape
}

// NewDocument returns an empty document using template t.
func NewDocument(t Template) *Document {
	return &Document{template: t}
}

// Add appends s to its draw bucket.
func (d *Document) Add(s Shape) {
	if s.Kind() == Triangle {
		d.overlay = append(d.overlay, s)
		return
	}
	d.base = append(d.base, s)
}

// Base returns the shapes drawn beneath the template footer, in append order.
func (d *Document) Base() []Shape { return d.base }

// Overlay returns the shapes drawn on top of everything, in append order.
func (d *Document) Overlay() []Shape { return d.overlay }

// Finalize renders the document:
// header, base shapes, footer, overlay shapes, closing tag.
func (d *Document) Finalize() string {
	var svg bytes.Buffer
	svg.WriteString(d.template.Header)
	for _, s := range d.base {
		s.writeSVG(&svg)
	}
	svg.WriteString(d.template.Footer)
	for _, s := range d.overlay {
		s.writeSVG(&svg)
	}
	svg.WriteString("</svg>\n")
	return svg.String()
}
