package cmd

import (
	"fmt"
	"image"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pable/go-matchup-chart/internal/chart"
	"github.com/pable/go-matchup-chart/internal/colormap"
)

var (
	renderData     datasetFlags
	renderColor    string
	renderSprites  string
	renderMoves    bool
	renderCellSize int
)

var renderCmd = &cobra.Command{
	Use:   "render [infile] [outfile]",
	Short: "Render a matchup heat-map image",
	Long: `Render the win-rate matrix as a heat-map. Cell (row i, column j) is
coloured by the rate at which species i beats species j.

infile defaults to "results" and outfile to "results.png"; a .jpg or
.jpeg outfile is written as JPEG.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runRender,
}

func init() {
	renderData.register(renderCmd)
	fl := renderCmd.Flags()
	fl.StringVarP(&renderColor, "color", "c", "", fmt.Sprintf("colour map, suffix - to reverse (%v)", colormap.Names()))
	fl.StringVar(&renderSprites, "sprites", "", "sprite sheet PNG (16 icons of 40x30 per row)")
	fl.BoolVar(&renderMoves, "moves", false, "append a move-list panel to the right of the grid")
	fl.IntVar(&renderCellSize, "cell-size", 0, "cell edge in pixels")
}

func runRender(cmd *cobra.Command, args []string) error {
	infile, outfile := "results", "results.png"
	if len(args) > 0 {
		infile = args[0]
	}
	if len(args) > 1 {
		outfile = args[1]
	}

	fl := cmd.Flags()
	if !fl.Changed("color") {
		renderColor = cfg.Color
	}
	if !fl.Changed("sprites") {
		renderSprites = cfg.Sprites
	}
	if !fl.Changed("cell-size") {
		renderCellSize = cfg.CellSize
	}

	cm, err := colormap.Lookup(renderColor)
	if err != nil {
		return err
	}
	var sheet image.Image
	if renderSprites != "" {
		sheet, err = chart.LoadSprites(renderSprites)
		if err != nil {
			return err
		}
	}

	ds, err := renderData.loadDataset(infile)
	if err != nil {
		return err
	}
	order, err := renderData.orderDataset(cmd, ds)
	if err != nil {
		return err
	}

	img, err := chart.Render(ds, order, chart.Options{
		CellSize:  renderCellSize,
		Colormap:  cm,
		Sprites:   sheet,
		ShowMoves: renderMoves,
	})
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := chart.WriteFile(outfile, img); err != nil {
		return err
	}
	b := img.Bounds()
	log.Info().Str("path", outfile).Str("color", cm.Name()).Int("width", b.Dx()).Int("height", b.Dy()).Msg("wrote chart")
	return nil
}
