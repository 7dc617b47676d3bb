package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/postforge/postforge/internal/app"
	"github.com/postforge/postforge/internal/post"
	"github.com/postforge/postforge/internal/utils"
)

// ExportCommand returns the CLI command for exporting posts to CSV
func ExportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export generated posts to a CSV file",
		Description: "Writes posts to a timestamped CSV file. The file uses a \"Post Text\" " +
			"column, so it can be fed back to 'generate --history' as style examples.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "batch",
				Aliases: []string{"b"},
				Usage:   "Export a single batch by ID (default: recent posts)",
			},
			&cli.StringFlag{
				Name:    "platform",
				Aliases: []string{"p"},
				Usage:   "Filter by platform",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "Maximum number of posts to export",
				Value:   100,
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: configured export directory)",
			},
		},
		Action: exportAction,
	}
}

func exportAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return fmt.Errorf("failed to get application from context: %w", err)
	}

	ctx := context.Background()

	var posts []*post.Post
	if batchID := c.String("batch"); batchID != "" {
		posts, err = application.PostRepo.ListBatch(ctx, batchID)
	} else {
		posts, err = application.PostRepo.ListRecent(ctx, c.String("platform"), c.Int("limit"))
	}
	if err != nil {
		utils.PrintError(err.Error())
		return err
	}
	if len(posts) == 0 {
		utils.PrintWarning("No posts to export")
		return nil
	}

	dir := c.String("out")
	if dir == "" {
		dir = application.Config.Export.Dir
	}

	path, err := post.ExportCSV(dir, posts)
	if err != nil {
		utils.PrintError(fmt.Sprintf("Export failed: %s", err))
		return err
	}

	utils.PrintSuccess(fmt.Sprintf("Exported %d post(s) to %s", len(posts), path))
	return nil
}
