package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/postforge/postforge/internal/app"
	"github.com/postforge/postforge/internal/post"
	"github.com/postforge/postforge/internal/utils"
)

var postTableHeaders = []string{"ID", "Platform", "Provider", "Text", "Chars", "Created"}

// HistoryCommand returns the CLI command for browsing generated posts
func HistoryCommand() *cli.Command {
	return &cli.Command{
		Name:    "history",
		Aliases: []string{"ls"},
		Usage:   "List previously generated posts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "platform",
				Aliases: []string{"p"},
				Usage:   "Filter by platform",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "Maximum number of posts to list",
				Value:   20,
			},
			&cli.StringFlag{
				Name:    "batch",
				Aliases: []string{"b"},
				Usage:   "Show all posts of a batch in full",
			},
			&cli.StringFlag{
				Name:  "show",
				Usage: "Show a single post in full by ID",
			},
			&cli.BoolFlag{
				Name:  "copy",
				Usage: "Copy the shown post's text to the clipboard (with --show)",
			},
		},
		Action: historyAction,
	}
}

func historyAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return fmt.Errorf("failed to get application from context: %w", err)
	}

	ctx := context.Background()

	if id := c.String("show"); id != "" {
		p, err := application.PostRepo.GetPost(ctx, id)
		if err != nil {
			utils.PrintError(err.Error())
			return err
		}
		printPosts([]*post.Post{p})
		if c.Bool("copy") {
			if err := utils.CopyToClipboard(p.Text); err != nil {
				utils.PrintWarning("Failed to copy to clipboard: " + err.Error())
			} else {
				utils.PrintSuccess("Copied post text to clipboard")
			}
		}
		return nil
	}

	if batchID := c.String("batch"); batchID != "" {
		posts, err := application.PostRepo.ListBatch(ctx, batchID)
		if err != nil {
			utils.PrintError(err.Error())
			return err
		}
		if len(posts) == 0 {
			utils.PrintWarning("No posts found for batch " + batchID)
			return nil
		}
		printPosts(posts)
		return nil
	}

	posts, err := application.PostRepo.ListRecent(ctx, c.String("platform"), c.Int("limit"))
	if err != nil {
		utils.PrintError(err.Error())
		return err
	}
	if len(posts) == 0 {
		utils.PrintWarning("No posts found. Run 'postforge generate' to create some.")
		return nil
	}

	opts := utils.DefaultTableOptions()
	opts.Title = "Generated Posts"
	utils.PrintTable(postTableHeaders, postRows(posts), opts)
	return nil
}
