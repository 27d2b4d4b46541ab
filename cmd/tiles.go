package cmd

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/sosoyan/aton/tile"
	"github.com/sosoyan/aton/types"
	"github.com/urfave/cli"
)

// ShowTiles lists the regions farm workers render for a frame split.
func ShowTiles(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	res := types.Size{W: ctx.Int("width"), H: ctx.Int("height")}
	split := ctx.Int("split")

	var crop *types.Region
	if v := ctx.String("crop"); v != "" {
		rs, err := parseRegion(v)
		if err != nil {
			return err
		}
		crop = &types.Region{XMin: rs.X, YMin: rs.Y, XMax: rs.R, YMax: rs.T}
	}

	regions, err := tile.FarmRegions(res, crop, split)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Tile", "Min X", "Min Y", "Max X", "Max Y", "Size"})
	for i, region := range regions {
		if region == nil {
			table.Append([]string{fmt.Sprint(i), "-", "-", "-", "-", res.String()})
			continue
		}
		size := types.Size{W: region[2] - region[0] + 1, H: region[3] - region[1] + 1}
		table.Append([]string{
			fmt.Sprint(i),
			fmt.Sprint(region[0]),
			fmt.Sprint(region[1]),
			fmt.Sprint(region[2]),
			fmt.Sprint(region[3]),
			size.String(),
		})
	}
	table.SetFooter([]string{"", "", "", "", "TILES", fmt.Sprint(len(regions))})
	table.Render()
	logger.Noticef("%s split %d times\n%s", res, split, buf.String())
	return nil
}
