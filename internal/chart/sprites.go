package chart

import (
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"os"

	"golang.org/x/image/draw"
)

// Sprite sheet layout: icons are packed left to right, 16 per row, in
// species id order starting at id 1.
const (
	iconWidth   = 40
	iconHeight  = 30
	iconsPerRow = 16
)

// ErrSpriteMissing is returned when the sheet has no icon for a species.
var ErrSpriteMissing = errors.New("sprite missing from sheet")

// LoadSprites decodes a sprite sheet image.
func LoadSprites(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sprite sheet: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode sprite sheet %s: %w", path, err)
	}
	return img, nil
}

// IconRect returns the sheet rectangle holding the icon for species id.
func IconRect(id int) image.Rectangle {
	k := id - 1
	x := (k % iconsPerRow) * iconWidth
	y := (k / iconsPerRow) * iconHeight
	return image.Rect(x, y, x+iconWidth, y+iconHeight)
}

// drawIcon composites the icon for id with its top-left corner at at.
func drawIcon(dst draw.Image, sheet image.Image, id int, at image.Point, g geometry) error {
	if id < 1 {
		return fmt.Errorf("%w: species %d", ErrSpriteMissing, id)
	}
	src := IconRect(id).Add(sheet.Bounds().Min)
	if !src.In(sheet.Bounds()) {
		return fmt.Errorf("%w: species %d", ErrSpriteMissing, id)
	}
	if g.iconW == iconWidth && g.iconH == iconHeight {
		draw.Draw(dst, image.Rectangle{Min: at, Max: at.Add(src.Size())}, sheet, src.Min, draw.Over)
		return nil
	}
	r := image.Rect(at.X, at.Y, at.X+g.iconW, at.Y+g.iconH)
	draw.ApproxBiLinear.Scale(dst, r, sheet, src, draw.Over, nil)
	return nil
}
