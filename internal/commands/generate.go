package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/postforge/postforge/internal/app"
	"github.com/postforge/postforge/internal/llm"
	"github.com/postforge/postforge/internal/post"
	"github.com/postforge/postforge/internal/prompt"
	"github.com/postforge/postforge/internal/utils"
)

// GenerateCommand returns the CLI command for generating posts
func GenerateCommand() *cli.Command {
	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen"},
		Usage:   "Generate social media posts from source material",
		Description: "Generates a batch of platform-ready social media posts from text files " +
			"(txt, md, docx, pdf) or inline text, guided by an optional brand guide and " +
			"previous post history.",
		Flags:  GenerateFlags(),
		Action: generateAction,
	}
}

// GenerateFlags returns the generation flags. They are also registered
// globally so the bare 'postforge' invocation can generate directly.
func GenerateFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "Source material file (txt, md, docx, pdf); repeatable",
		},
		&cli.StringFlag{
			Name:    "text",
			Aliases: []string{"t"},
			Usage:   "Inline source material",
		},
		&cli.StringFlag{
			Name:    "platform",
			Aliases: []string{"p"},
			Usage:   "Target platform: " + strings.Join(post.Platforms(), ", "),
		},
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"n"},
			Usage:   "Number of posts to generate",
		},
		&cli.StringFlag{
			Name:  "provider",
			Usage: "LLM provider: openai, claude, or gemini (default: configured provider)",
		},
		&cli.StringFlag{
			Name:  "model",
			Usage: "Model override for the selected provider",
		},
		&cli.StringFlag{
			Name:  "brand-guide",
			Usage: "Brand guide file (txt, md, docx, pdf)",
		},
		&cli.StringFlag{
			Name:  "history",
			Usage: "Previous posts CSV with a \"Post Text\" column",
		},
		&cli.StringFlag{
			Name:  "tone",
			Usage: "Content tone (Professional, Casual, Friendly, ...)",
			Value: "Professional",
		},
		&cli.StringFlag{
			Name:  "creativity",
			Usage: "Creativity level: Conservative, Balanced, Creative, or Innovative",
			Value: "Balanced",
		},
		&cli.BoolFlag{
			Name:  "no-hashtags",
			Usage: "Do not include hashtags",
		},
		&cli.BoolFlag{
			Name:  "no-emojis",
			Usage: "Do not include emojis",
		},
		&cli.BoolFlag{
			Name:  "no-cta",
			Usage: "Do not include calls-to-action",
		},
		&cli.StringFlag{
			Name:  "instructions",
			Usage: "Free-form custom instructions, highest priority",
		},
		&cli.BoolFlag{
			Name:    "export",
			Aliases: []string{"e"},
			Usage:   "Export the generated batch to a CSV file",
		},
	}
}

func generateAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return fmt.Errorf("failed to get application from context: %w", err)
	}

	settings := prompt.DefaultSettings()
	settings.ContentTone = c.String("tone")
	settings.CreativityLevel = c.String("creativity")
	settings.IncludeHashtags = !c.Bool("no-hashtags")
	settings.IncludeEmojis = !c.Bool("no-emojis")
	settings.CallToAction = !c.Bool("no-cta")
	settings.CustomInstructions = c.String("instructions")

	req := post.GenerateRequest{
		SourceText:     c.String("text"),
		SourceFiles:    c.StringSlice("file"),
		BrandGuideFile: c.String("brand-guide"),
		HistoryFile:    c.String("history"),
		Platform:       c.String("platform"),
		Count:          c.Int("count"),
		Provider:       llm.ClientType(strings.ToLower(c.String("provider"))),
		Model:          c.String("model"),
		Settings:       settings,
	}

	utils.PrintInfo("Generating posts...")

	batch, err := application.Posts.Generate(context.Background(), req)
	if err != nil {
		utils.PrintError(fmt.Sprintf("Generation failed: %s", err))
		return err
	}

	utils.PrintSuccess(fmt.Sprintf("Generated %d post(s) for %s using %s",
		len(batch.Posts), batch.Platform, batch.Provider))
	utils.PrintKeyValue("Batch", batch.ID)
	fmt.Println("")

	printPosts(batch.Posts)

	if c.Bool("export") {
		path, err := post.ExportCSV(application.Config.Export.Dir, batch.Posts)
		if err != nil {
			utils.PrintError(fmt.Sprintf("Export failed: %s", err))
			return err
		}
		utils.PrintSuccess("Exported batch to " + path)
	}

	return nil
}

// printPosts renders each post in full with a character count line.
func printPosts(posts []*post.Post) {
	for _, p := range posts {
		utils.PrintHeading(fmt.Sprintf("Post %d", p.Index))
		fmt.Println(utils.WrapText(p.Text, 80))

		counter := fmt.Sprintf("%d characters", p.CharCount)
		if limit := post.CharacterLimit(p.Platform); limit > 0 {
			counter = fmt.Sprintf("%d / %d characters", p.CharCount, limit)
			if p.OverLimit() {
				counter += " (over limit)"
			}
		}
		fmt.Println(utils.Theme.Subtle.Sprint(counter))
		utils.PrintDivider()
	}
}

// postRows converts posts to table rows for list views.
func postRows(posts []*post.Post) [][]string {
	rows := make([][]string, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, []string{
			p.ID,
			p.Platform,
			p.Provider,
			utils.Truncate(p.Text, 60),
			strconv.Itoa(p.CharCount),
			p.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	return rows
}
