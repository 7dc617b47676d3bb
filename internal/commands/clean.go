package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/postforge/postforge/internal/app"
	"github.com/postforge/postforge/internal/utils"
)

// CleanCommand returns the CLI command for sanitizing text
func CleanCommand() *cli.Command {
	return &cli.Command{
		Name:      "clean",
		Usage:     "Sanitize text: repair mojibake, normalize unicode, strip artifacts",
		ArgsUsage: "[text]",
		Description: "Runs text through the sanitization pipeline used on generated posts. " +
			"Reads from the argument, --file, or stdin, and writes the cleaned text to stdout.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Read text from a file instead of the argument",
			},
			&cli.BoolFlag{
				Name:    "report",
				Aliases: []string{"r"},
				Usage:   "Report residual encoding issues on stderr",
			},
		},
		Action: cleanAction,
	}
}

func cleanAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return fmt.Errorf("failed to get application from context: %w", err)
	}

	text, err := readCleanInput(c)
	if err != nil {
		return err
	}

	if !c.Bool("report") {
		fmt.Println(application.Sanitizer.Sanitize(text))
		return nil
	}

	cleaned, report := application.Sanitizer.Inspect(text)
	fmt.Println(cleaned)
	if report.HadIssues {
		for _, issue := range report.Issues {
			utils.PrintWarning(issue)
		}
	}
	return nil
}

func readCleanInput(c *cli.Context) (string, error) {
	if path := c.String("file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		return string(data), nil
	}
	if c.Args().Present() {
		return strings.Join(c.Args().Slice(), " "), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}
