package chart

import (
	"fmt"
	"image"
	"strconv"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// faces holds the two text sizes used on a chart.
type faces struct {
	label font.Face // move-list panel
	small font.Face // id labels in place of icons
}

func newFaces(cell int) (*faces, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	label, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(cell) / 2,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("label face: %w", err)
	}
	small, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(cell) * 0.4,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		label.Close()
		return nil, fmt.Errorf("small face: %w", err)
	}
	return &faces{label: label, small: small}, nil
}

func (f *faces) Close() {
	f.label.Close()
	f.small.Close()
}

func drawText(dst draw.Image, face font.Face, s string, x, baseline int) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(textColor),
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(s)
}

// drawIDLabel writes the species id centred in the cell-sized box at at.
func drawIDLabel(dst draw.Image, face font.Face, id int, at image.Point, g geometry) {
	s := strconv.Itoa(id)
	w := font.MeasureString(face, s).Ceil()
	m := face.Metrics()
	x := at.X + (g.cell-w)/2
	if x < at.X {
		x = at.X
	}
	y := at.Y + (g.cell+m.Ascent.Ceil()-m.Descent.Ceil())/2
	drawText(dst, face, s, x, y)
}
