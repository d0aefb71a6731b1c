package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// DrawParams configures one ideogram run.
type DrawParams struct {
	Reference *Reference
	Build     GenomeBuild
	Template  Template
	Logger    logrus.FieldLogger
}

// GenerateSVG reads the feature table from in and returns the finished SVG document.
//
// Records are processed one at a time in input order. Field problems are
// logged and repaired, unusable records are logged and skipped. A wrong
// column count, a malformed coordinate or an unknown chromosome stops the
// run and no document is returned.
func GenerateSVG(in io.Reader, params DrawParams) (string, DrawStats, error) {
	var stats DrawStats
	if params.Reference == nil {
		return "", stats, errors.New("no reference tables")
	}
	log := params.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	transform := NewTransform(params.Reference, params.Build)
	doc := NewDocument(params.Template)
	reader := NewReader(in, log)

	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", stats, err
		}

		// An undrawable kind skips the record before its chromosome is looked up.
		if err := checkKind(rec.Kind); err != nil {
			log.WithField("line", rec.Line).Warnf("%v; skipping", err)
			stats.Skipped++
			continue
		}

		placement, err := transform.Place(rec)
		if err != nil {
			return "", stats, &RecordError{Line: rec.Line, Err: err}
		}

		shape, err := BuildShape(rec, placement)
		if err != nil {
			return "", stats, &RecordError{Line: rec.Line, Err: err}
		}
		doc.Add(shape)
		log.WithFields(logrus.Fields{
			"line":  rec.Line,
			"shape": shape.Kind(),
			"copy":  int(rec.Copy),
		}).Debugf("placed %s", rec.Name())
	}

	stats.Records = reader.Line()
	stats.Skipped += reader.Skipped()
	stats.Overlay = len(doc.Overlay())
	stats.Drawn = len(doc.Base()) + stats.Overlay

	return doc.Finalize(), stats, nil
}

// generateSVGFile runs GenerateSVG on the file at inputPath.
func generateSVGFile(inputPath string, params DrawParams) (string, DrawStats, error) {
	f, err := openInput(inputPath)
	if err != nil {
		return "", DrawStats{}, err
	}
	defer f.Close()

	svg, stats, err := GenerateSVG(f, params)
	if err != nil {
		return "", stats, fmt.Errorf("failed to draw '%s': %w", inputPath, err)
	}
	return svg, stats, nil
}
