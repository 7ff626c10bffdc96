package chart

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-matchup-chart/internal/colormap"
	"github.com/pable/go-matchup-chart/internal/model"
)

func testDataset(t *testing.T) *model.Dataset {
	t.Helper()
	m := model.NewMatrix(3)
	require.NoError(t, m.RecordResult(0, 1, 10, 0, 0))
	require.NoError(t, m.RecordResult(0, 2, 3, 7, 0))
	return &model.Dataset{
		Start: 1,
		Entities: []model.Entity{
			{ID: 1, Name: "Bulbasaur", Tier: "NFE", Moves: []string{"Razor Leaf", "Sleep Powder"}},
			{ID: 2, Name: "Ivysaur", Tier: "NFE"},
			{ID: 3, Name: "Venusaur", Tier: "UU", Moves: []string{"Body Slam"}},
		},
		Matrix: m,
	}
}

// spriteSheet fills each icon slot with a distinct opaque colour.
func spriteSheet(icons int) *image.RGBA {
	rows := (icons + iconsPerRow - 1) / iconsPerRow
	cols := min(icons, iconsPerRow)
	sheet := image.NewRGBA(image.Rect(0, 0, cols*iconWidth, rows*iconHeight))
	for id := 1; id <= icons; id++ {
		r := IconRect(id)
		c := iconColor(id)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				sheet.SetRGBA(x, y, c)
			}
		}
	}
	return sheet
}

func iconColor(id int) color.RGBA {
	return color.RGBA{uint8(20 * id), 200, uint8(255 - 20*id), 255}
}

func centre(r image.Rectangle) image.Point {
	return image.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
}

func TestIconRect(t *testing.T) {
	assert.Equal(t, image.Rect(0, 0, 40, 30), IconRect(1))
	assert.Equal(t, image.Rect(600, 0, 640, 30), IconRect(16))
	assert.Equal(t, image.Rect(0, 30, 40, 60), IconRect(17))
}

func TestRenderDimensions(t *testing.T) {
	ds := testDataset(t)
	img, err := Render(ds, []int{0, 1, 2}, Options{Sprites: spriteSheet(3)})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4*24+16, 4*24+8), img.Bounds())

	img, err = Render(ds, []int{0, 2}, Options{Sprites: spriteSheet(3)})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3*24+16, 3*24+8), img.Bounds())
}

func TestRenderCells(t *testing.T) {
	ds := testDataset(t)
	cm, err := colormap.Lookup("redgrayblue")
	require.NoError(t, err)

	order := []int{2, 0, 1}
	img, err := Render(ds, order, Options{Colormap: cm, Sprites: spriteSheet(3)})
	require.NoError(t, err)

	// Bulbasaur (row 2) always beats Ivysaur (column 3).
	p := centre(newGeometry(DefaultCellSize).cellRect(2, 3))
	assert.Equal(t, cm.At(1), img.RGBAAt(p.X, p.Y))
	// Ivysaur (row 3) against Bulbasaur (column 2).
	p = centre(newGeometry(DefaultCellSize).cellRect(3, 2))
	assert.Equal(t, cm.At(0), img.RGBAAt(p.X, p.Y))
	// Diagonal is the neutral colour.
	p = centre(newGeometry(DefaultCellSize).cellRect(1, 1))
	assert.Equal(t, cm.At(0.5), img.RGBAAt(p.X, p.Y))
	// Ivysaur vs Venusaur was never played.
	p = centre(newGeometry(DefaultCellSize).cellRect(3, 1))
	assert.Equal(t, background, img.RGBAAt(p.X, p.Y))
}

func TestRenderIcons(t *testing.T) {
	ds := testDataset(t)
	img, err := Render(ds, []int{2, 0, 1}, Options{Sprites: spriteSheet(3)})
	require.NoError(t, err)

	// Left axis: Venusaur icon at row 1.
	assert.Equal(t, iconColor(3), img.RGBAAt(1, 24+1))
	// Top axis: Bulbasaur icon at column 2.
	assert.Equal(t, iconColor(1), img.RGBAAt(8+2*24+1, 1))
}

func TestRenderMissingSprite(t *testing.T) {
	ds := testDataset(t)
	_, err := Render(ds, []int{0, 1, 2}, Options{Sprites: spriteSheet(1)})
	assert.ErrorIs(t, err, ErrSpriteMissing)
}

func TestRenderWithoutSprites(t *testing.T) {
	ds := testDataset(t)
	img, err := Render(ds, []int{0, 1, 2}, Options{})
	require.NoError(t, err)

	drawn := false
	for y := 24; y < 48 && !drawn; y++ {
		for x := 0; x < 24; x++ {
			if img.RGBAAt(x, y) != background {
				drawn = true
				break
			}
		}
	}
	assert.True(t, drawn, "expected an id label on the left axis")
}

func TestRenderMovesPanel(t *testing.T) {
	ds := testDataset(t)
	plain, err := Render(ds, []int{0, 1, 2}, Options{Sprites: spriteSheet(3)})
	require.NoError(t, err)
	withMoves, err := Render(ds, []int{0, 1, 2}, Options{Sprites: spriteSheet(3), ShowMoves: true})
	require.NoError(t, err)
	assert.Greater(t, withMoves.Bounds().Dx(), plain.Bounds().Dx())
	assert.Equal(t, plain.Bounds().Dy(), withMoves.Bounds().Dy())
}

func TestMoveLines(t *testing.T) {
	ds := testDataset(t)
	lines := moveLines(ds, []int{0, 1})
	assert.Equal(t, []string{"Bulbasaur [NFE]: Razor Leaf, Sleep Powder", "Ivysaur [NFE]"}, lines)
}

func TestRenderScaledCells(t *testing.T) {
	ds := testDataset(t)
	img, err := Render(ds, []int{0, 1, 2}, Options{CellSize: 48, Sprites: spriteSheet(3)})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4*48+32, 4*48+16), img.Bounds())
}

func TestRenderEmptyOrder(t *testing.T) {
	img, err := Render(testDataset(t), nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 24+16, 24+8), img.Bounds())
}

func TestWriteFile(t *testing.T) {
	ds := testDataset(t)
	img, err := Render(ds, []int{0, 1, 2}, Options{Sprites: spriteSheet(3)})
	require.NoError(t, err)

	dir := t.TempDir()
	for _, name := range []string{"chart.png", "chart.jpg"} {
		path := filepath.Join(dir, name)
		require.NoError(t, WriteFile(path, img))

		f, err := os.Open(path)
		require.NoError(t, err)
		cfg, format, err := image.DecodeConfig(f)
		f.Close()
		require.NoError(t, err, name)
		assert.Equal(t, img.Bounds().Dx(), cfg.Width, name)
		assert.Equal(t, img.Bounds().Dy(), cfg.Height, name)
		assert.Contains(t, []string{"png", "jpeg"}, format)
	}
}

func TestLoadSprites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icons.png")
	require.NoError(t, WriteFile(path, spriteSheet(2)))

	sheet, err := LoadSprites(path)
	require.NoError(t, err)
	assert.Equal(t, 2*iconWidth, sheet.Bounds().Dx())

	_, err = LoadSprites(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}
