// Package chart paints matchup heat-maps: one coloured cell per pairing,
// species icons along both axes and an optional move-list panel.
package chart

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"

	"github.com/pable/go-matchup-chart/internal/colormap"
	"github.com/pable/go-matchup-chart/internal/model"
	"github.com/pable/go-matchup-chart/internal/ordering"
)

// DefaultCellSize is the cell edge in pixels that the icon layout was
// designed around.
const DefaultCellSize = 24

var (
	background = color.RGBA{128, 128, 128, 255}
	textColor  = color.RGBA{16, 16, 16, 255}
)

// Options controls rendering.
type Options struct {
	CellSize  int
	Colormap  *colormap.Map
	Sprites   image.Image // nil draws species ids instead of icons
	ShowMoves bool
}

// geometry holds pixel offsets derived from the cell size. All offsets are
// expressed for a 24px cell and scaled linearly.
type geometry struct {
	cell         int
	cellX, cellY int // origin of the grid
	topIconX     int // extra x shift of icons along the top axis
	padX, padY   int // canvas padding beyond the grid
	iconW, iconH int
}

func newGeometry(cell int) geometry {
	scale := func(v int) int { return v * cell / DefaultCellSize }
	return geometry{
		cell:     cell,
		cellX:    scale(16),
		cellY:    scale(6),
		topIconX: scale(8),
		padX:     scale(16),
		padY:     scale(8),
		iconW:    scale(iconWidth),
		iconH:    scale(iconHeight),
	}
}

// Render paints the chart for the species in order. Species not in order
// are left out entirely.
func Render(ds *model.Dataset, order []int, opts Options) (*image.RGBA, error) {
	if opts.CellSize <= 0 {
		opts.CellSize = DefaultCellSize
	}
	if opts.Colormap == nil {
		cm, err := colormap.Lookup(colormap.Default)
		if err != nil {
			return nil, err
		}
		opts.Colormap = cm
	}
	g := newGeometry(opts.CellSize)
	count := len(order)
	base := (count + 1) * g.cell

	faces, err := newFaces(g.cell)
	if err != nil {
		return nil, err
	}
	defer faces.Close()

	var lines []string
	panelW := 0
	if opts.ShowMoves {
		lines = moveLines(ds, order)
		panelW = panelWidth(faces.label, lines, g)
	}

	img := image.NewRGBA(image.Rect(0, 0, base+g.padX+panelW, base+g.padY))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	for n, idx := range order {
		n++
		id := ds.ID(idx)
		left := image.Pt(0, n*g.cell)
		top := image.Pt(g.topIconX+n*g.cell, 0)
		if opts.Sprites != nil {
			if err := drawIcon(img, opts.Sprites, id, left, g); err != nil {
				return nil, err
			}
			if err := drawIcon(img, opts.Sprites, id, top, g); err != nil {
				return nil, err
			}
			continue
		}
		drawIDLabel(img, faces.small, id, left, g)
		drawIDLabel(img, faces.small, id, top, g)
	}

	size := ds.Matrix.Size()
	pos := ordering.Positions(order, size)
	for i := 0; i < size; i++ {
		row := pos[i]
		if row == 0 {
			continue
		}
		for j := 0; j < size; j++ {
			col := pos[j]
			if col == 0 {
				continue
			}
			v, ok := ds.Matrix.At(i, j)
			if !ok {
				continue
			}
			draw.Draw(img, g.cellRect(row, col), image.NewUniform(opts.Colormap.At(v)), image.Point{}, draw.Src)
		}
	}

	if opts.ShowMoves {
		x := base + g.padX + g.cell/4
		for n, line := range lines {
			drawText(img, faces.label, line, x, rowBaseline(faces.label, g, n+1))
		}
	}
	return img, nil
}

// cellRect returns the pixel rectangle of the cell at 1-based row and
// column positions.
func (g geometry) cellRect(row, col int) image.Rectangle {
	return image.Rect(
		g.cellX+col*g.cell, g.cellY+row*g.cell,
		g.cellX+(col+1)*g.cell, g.cellY+(row+1)*g.cell,
	)
}

func moveLines(ds *model.Dataset, order []int) []string {
	lines := make([]string, len(order))
	for n, idx := range order {
		e := ds.Entities[idx]
		var b strings.Builder
		b.WriteString(e.Name)
		if e.Tier != "" {
			fmt.Fprintf(&b, " [%s]", e.Tier)
		}
		if len(e.Moves) > 0 {
			b.WriteString(": ")
			b.WriteString(strings.Join(e.Moves, ", "))
		}
		lines[n] = b.String()
	}
	return lines
}

func panelWidth(face font.Face, lines []string, g geometry) int {
	widest := 0
	for _, l := range lines {
		if w := font.MeasureString(face, l).Ceil(); w > widest {
			widest = w
		}
	}
	if widest == 0 {
		return 0
	}
	return widest + g.cell/2
}

// rowBaseline centres a line of text vertically on grid row n.
func rowBaseline(face font.Face, g geometry, n int) int {
	m := face.Metrics()
	textH := (m.Ascent + m.Descent).Ceil()
	return g.cellY + n*g.cell + (g.cell-textH)/2 + m.Ascent.Ceil()
}
