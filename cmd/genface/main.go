// Command genface renders a synthetic single-face test image and optionally
// prints it as a data URL, ready to POST to /v1/snapshots. Handy for smoke
// testing the pipeline without a camera.
package main

import (
	"bytes"
	"encoding/base64"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/fogleman/gg"
)

func main() {
	var (
		out     = flag.String("out", "face.png", "output PNG path (empty to skip writing)")
		width   = flag.Int("width", 320, "image width in pixels")
		height  = flag.Int("height", 240, "image height in pixels")
		dataURL = flag.Bool("dataurl", false, "print the image as a data URL on stdout")
	)
	flag.Parse()

	dc := renderFace(*width, *height)

	if *out != "" {
		if err := dc.SavePNG(*out); err != nil {
			fmt.Fprintf(os.Stderr, "genface: %v\n", err)
			os.Exit(1)
		}
	}

	if *dataURL {
		var buf bytes.Buffer
		if err := dc.EncodePNG(&buf); err != nil {
			fmt.Fprintf(os.Stderr, "genface: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("data:image/png;base64,%s\n", base64.StdEncoding.EncodeToString(buf.Bytes()))
	}
}

// renderFace draws a bright face blob on a dark background: a filled head,
// darker eyes and a mouth arc. Bright-on-dark keeps the image detectable by
// the synthetic fallback detector as well as a real cascade.
func renderFace(width, height int) *gg.Context {
	dc := gg.NewContext(width, height)

	dc.SetRGB(0.10, 0.12, 0.18)
	dc.Clear()

	cx := float64(width) / 2
	cy := float64(height) / 2
	radius := math.Min(float64(width), float64(height)) / 3

	// Head.
	dc.SetRGB(0.96, 0.90, 0.82)
	dc.DrawCircle(cx, cy, radius)
	dc.Fill()

	// Eyes.
	dc.SetRGB(0.15, 0.15, 0.20)
	dc.DrawCircle(cx-radius/2.5, cy-radius/4, radius/8)
	dc.DrawCircle(cx+radius/2.5, cy-radius/4, radius/8)
	dc.Fill()

	// Mouth.
	dc.SetLineWidth(radius / 10)
	dc.DrawArc(cx, cy+radius/6, radius/2, 0.2*math.Pi, 0.8*math.Pi)
	dc.Stroke()

	return dc
}
