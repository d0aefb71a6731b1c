// createImage.go
package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/jung-kurt/gofpdf"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// OutputFormat is a converted output type.
type OutputFormat string

const (
	FormatPNG OutputFormat = "png"
	FormatPDF OutputFormat = "pdf"
)

// parseOutputFormat reports whether s names a supported format.
func parseOutputFormat(s string) (OutputFormat, bool) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case FormatPNG:
		return FormatPNG, true
	case FormatPDF:
		return FormatPDF, true
	}
	return FormatPNG, false
}

// Rasterizer converts a finished SVG document into another format.
type Rasterizer interface {
	Rasterize(ctx context.Context, svg []byte, format OutputFormat, out io.Writer) error
}

// newRasterizer returns the named backend: "native" (default) or "chrome".
func newRasterizer(name string, scale float64, timeout time.Duration) (Rasterizer, error) {
	switch strings.ToLower(name) {
	case "", "native":
		return NativeRasterizer{Scale: scale}, nil
	case "chrome":
		return ChromeRasterizer{Timeout: timeout}, nil
	}
	return nil, fmt.Errorf("unknown renderer '%s' (use native or chrome)", name)
}

// --- Native Backend ---

// NativeRasterizer draws the SVG in process with oksvg and rasterx.
// PDF output embeds the raster image in a single page sized to the SVG viewBox.
type NativeRasterizer struct {
	// Scale multiplies the viewBox size to get the pixel size. Zero means 1.
	Scale float64
}

func (n NativeRasterizer) Rasterize(ctx context.Context, svg []byte, format OutputFormat, out io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	icon, err := readIcon(svg)
	if err != nil {
		return err
	}
	scale := n.Scale
	if scale <= 0 {
		scale = 1
	}
	img := rasterizeIcon(icon, scale)

	switch format {
	case FormatPNG:
		if err := png.Encode(out, img); err != nil {
			return fmt.Errorf("failed to encode PNG: %w", err)
		}
	case FormatPDF:
		if err := writePDF(img, icon.ViewBox.W, icon.ViewBox.H, out); err != nil {
			return err
		}
	default:
		return fmt.Errorf("internal error: unsupported output format '%s'", format)
	}
	return nil
}

func readIcon(svg []byte) (*oksvg.SvgIcon, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg), oksvg.WarnErrorMode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}
	if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
		return nil, errors.New("SVG has no usable viewBox")
	}
	return icon, nil
}

// rasterizeIcon draws icon onto an opaque white canvas.
func rasterizeIcon(icon *oksvg.SvgIcon, scale float64) *image.RGBA {
	w := int(math.Ceil(icon.ViewBox.W * scale))
	h := int(math.Ceil(icon.ViewBox.H * scale))
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)
	return img
}

// writePDF places img on one page of widthPt x heightPt points.
func writePDF(img image.Image, widthPt, heightPt float64, out io.Writer) error {
	var encoded bytes.Buffer
	if err := png.Encode(&encoded, img); err != nil {
		return fmt.Errorf("failed to encode page image: %w", err)
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: widthPt, Ht: heightPt},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("ideogram", opts, &encoded)
	pdf.ImageOptions("ideogram", 0, 0, widthPt, heightPt, false, opts, 0, "")

	if err := pdf.Output(out); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// --- Chrome Backend ---

// ChromeRasterizer renders the SVG in headless Chrome through chromedp.
type ChromeRasterizer struct {
	Timeout time.Duration
}

func (c ChromeRasterizer) Rasterize(ctx context.Context, svg []byte, format OutputFormat, out io.Writer) error {
	if format != FormatPNG && format != FormatPDF {
		return fmt.Errorf("internal error: unsupported output format '%s' with chromedp", format)
	}

	// Load the SVG directly from a data URI, no temp file needed.
	dataURI := "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(svg)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Headless,
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	runCtx, cancelRun := chromedp.NewContext(allocCtx)
	defer cancelRun()
	if c.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		runCtx, cancelTimeout = context.WithTimeout(runCtx, c.Timeout)
		defer cancelTimeout()
	}

	var result []byte
	tasks := chromedp.Tasks{
		chromedp.Navigate(dataURI),
		chromedp.WaitVisible(`svg`, chromedp.ByQuery),
	}
	switch format {
	case FormatPNG:
		tasks = append(tasks, chromedp.Screenshot(`svg`, &result, chromedp.ByQuery))
	case FormatPDF:
		icon, err := readIcon(svg)
		if err != nil {
			return err
		}
		// CSS pixels are 1/96 inch.
		widthIn, heightIn := icon.ViewBox.W/96, icon.ViewBox.H/96
		tasks = append(tasks, chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(widthIn).
				WithPaperHeight(heightIn).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPageRanges("1").
				Do(ctx)
			if err != nil {
				return err
			}
			result = data
			return nil
		}))
	}

	if err := chromedp.Run(runCtx, tasks); err != nil {
		return fmt.Errorf("chromedp execution failed: %w", err)
	}
	if len(result) == 0 {
		return errors.New("chrome returned an empty document")
	}
	if _, err := out.Write(result); err != nil {
		return fmt.Errorf("failed to write %s output: %w", strings.ToUpper(string(format)), err)
	}
	return nil
}
