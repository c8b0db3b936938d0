package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// addHelpCommands adds help and documentation commands.
func addHelpCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newCommandsCmd(app))
	rootCmd.AddCommand(newExamplesCmd(app))
}

type commandHelp struct {
	cmd  string
	desc string
}

func newCommandsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List all commands by category",
		Long:  "Display all available commands organized by category.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)

			output.Bold("optionlab Commands")
			output.Println()

			categories := []struct {
				name     string
				commands []commandHelp
			}{
				{
					name: "Analysis",
					commands: []commandHelp{
						{"analyze", "Full strategy report"},
						{"greeks", "Per-leg and position Greeks"},
						{"pl --at <price>", "P/L at a price"},
						{"breakeven", "Break-even prices at expiration"},
						{"detect", "Recognise the strategy type"},
						{"surface [--csv file]", "P/L over price and time"},
					},
				},
				{
					name: "Single Options",
					commands: []commandHelp{
						{"price", "Black-Scholes price and Greeks"},
						{"expiry [dates...]", "Classify expiry dates"},
					},
				},
				{
					name: "Library",
					commands: []commandHelp{
						{"strategy save <name>", "Save the given legs"},
						{"strategy list", "List saved strategies"},
						{"strategy show <name>", "Show a saved strategy"},
						{"strategy delete <name>", "Delete a saved strategy"},
					},
				},
				{
					name: "Utilities",
					commands: []commandHelp{
						{"config show/path/validate", "Configuration"},
						{"version", "Version information"},
						{"examples", "Common workflows"},
					},
				},
			}

			for _, cat := range categories {
				output.Bold(cat.name)
				for _, c := range cat.commands {
					output.Printf("  %-28s %s\n", output.Cyan(c.cmd), c.desc)
				}
				output.Println()
			}

			output.Dim("Use 'optionlab help <command>' for detailed help on any command")
			return nil
		},
	}
}

func newExamplesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "Show common workflow examples",
		Long:  "Display examples of common analysis workflows.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)

			output.Bold("Common Workflow Examples")
			output.Println()

			examples := []struct {
				title    string
				commands []string
			}{
				{
					title: "Analyze a Bull Call Spread",
					commands: []string{
						"optionlab analyze --spot 100 --leg LONG,CALL,100,500,1,2026-12-18 --leg SHORT,CALL,110,200,1,2026-12-18",
						"optionlab breakeven --spot 100 --leg LONG,CALL,100,500,1,2026-12-18 --leg SHORT,CALL,110,200,1,2026-12-18",
					},
				},
				{
					title: "Covered Call",
					commands: []string{
						"optionlab analyze --spot 100 --stock LONG,100,100 --leg SHORT,CALL,105,250,1,2026-12-18",
					},
				},
				{
					title: "Price a Single Option",
					commands: []string{
						"optionlab price --type put --strike 95 --spot 100 --expiry 2026-12-18 --vol 0.3",
						"optionlab expiry                  # Upcoming expiries",
					},
				},
				{
					title: "Strategy Files",
					commands: []string{
						"optionlab analyze -f condor.toml   # Legs and market from a file",
						"optionlab surface -f condor.yaml --csv condor.csv",
					},
				},
				{
					title: "Saved Strategies",
					commands: []string{
						"optionlab strategy save condor -f condor.toml --notes 'monthly income'",
						"optionlab strategy list",
						"optionlab analyze --saved condor --spot 101",
						"optionlab strategy delete condor",
					},
				},
				{
					title: "Scripting",
					commands: []string{
						"optionlab analyze --saved condor --spot 101 --json",
						"optionlab greeks --saved condor --spot 101 --yaml",
					},
				},
			}

			for _, ex := range examples {
				output.Bold(ex.title)
				for _, c := range ex.commands {
					parts := strings.SplitN(c, "#", 2)
					if len(parts) == 2 {
						output.Printf("  %s %s\n", output.Cyan(strings.TrimSpace(parts[0])), output.DimText(strings.TrimSpace(parts[1])))
					} else {
						output.Printf("  %s\n", output.Cyan(c))
					}
				}
				output.Println()
			}

			return nil
		},
	}
}
