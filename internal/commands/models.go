package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/postforge/postforge/internal/app"
	"github.com/postforge/postforge/internal/llm"
	"github.com/postforge/postforge/internal/utils"
)

// ModelsCommand returns the CLI command for listing available models
func ModelsCommand() *cli.Command {
	return &cli.Command{
		Name:  "models",
		Usage: "List available models per configured provider",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   "List models for one provider only",
			},
			&cli.BoolFlag{
				Name:    "refresh",
				Aliases: []string{"r"},
				Usage:   "Bypass the model cache and query the provider",
			},
		},
		Action: modelsAction,
	}
}

func modelsAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return fmt.Errorf("failed to get application from context: %w", err)
	}

	ctx := context.Background()

	providers := application.LLM.Available()
	if len(providers) == 0 {
		utils.PrintWarning("No LLM provider configured. Add an API key to your configuration.")
		return nil
	}
	if name := c.String("provider"); name != "" {
		providers = []llm.ClientType{llm.ClientType(name)}
	}

	for _, provider := range providers {
		var (
			models []llm.ModelInfo
			err    error
		)
		if c.Bool("refresh") {
			models, err = application.Discovery.Refresh(ctx, provider)
		} else {
			models, err = application.Discovery.Models(ctx, provider)
		}
		if err != nil {
			utils.PrintError(fmt.Sprintf("Failed to list %s models: %s", provider, err))
			continue
		}

		utils.PrintHeading(string(provider))
		rows := make([][]string, 0, len(models))
		for _, m := range models {
			name := m.DisplayName
			if name == "" {
				name = m.ID
			}
			rows = append(rows, []string{m.ID, name})
		}
		utils.PrintTable([]string{"Model", "Name"}, rows)
		fmt.Println("")
	}

	return nil
}
