package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"optionlab/internal/position"
	"optionlab/internal/store"
)

// addStrategyCommands adds the saved-strategy library commands.
func addStrategyCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:     "strategy",
		Aliases: []string{"strategies"},
		Short:   "Manage saved strategies",
		Long:    "Save strategies by name and reuse them with --saved.",
	}

	cmd.AddCommand(newStrategySaveCmd(app))
	cmd.AddCommand(newStrategyListCmd(app))
	cmd.AddCommand(newStrategyShowCmd(app))
	cmd.AddCommand(newStrategyDeleteCmd(app))

	rootCmd.AddCommand(cmd)
}

func newStrategySaveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save a strategy under a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)

			strat, _, err := resolveStrategy(cmd, app)
			if err != nil {
				return err
			}
			notes, _ := cmd.Flags().GetString("notes")

			lib, err := app.strategies()
			if err != nil {
				return err
			}
			saved := &store.SavedStrategy{Name: args[0], Notes: notes, Strategy: strat}
			if err := lib.SaveStrategy(cmd.Context(), saved); err != nil {
				return err
			}
			app.Logger.Info().Str("strategy", saved.Name).Int("legs", len(strat.Legs)).Msg("Strategy saved")

			if output.IsStructured() {
				return output.Emit(saved)
			}
			det := app.Analyzer.Detect(strat)
			output.Success("✓ Saved %q (%s, %d legs)", saved.Name, FormatStrategyType(det.Type), len(strat.Legs))
			return nil
		},
	}
	addStrategyFlags(cmd)
	cmd.Flags().String("notes", "", "free-form notes")
	return cmd
}

func newStrategyListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved strategies",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)

			lib, err := app.strategies()
			if err != nil {
				return err
			}
			list, err := lib.ListStrategies(cmd.Context())
			if err != nil {
				return err
			}

			if output.IsStructured() {
				return output.Emit(list)
			}
			if len(list) == 0 {
				output.Dim("No saved strategies. Use 'optionlab strategy save <name>' to add one.")
				return nil
			}

			table := NewTable(output, "NAME", "TYPE", "LEGS", "NET PREMIUM", "UPDATED", "NOTES")
			for _, s := range list {
				det := app.Analyzer.Detect(s.Strategy)
				table.AddRow(
					s.Name,
					FormatStrategyType(det.Type),
					fmt.Sprintf("%d", len(s.Strategy.Legs)),
					FormatPnL(position.NetPremium(s.Strategy)),
					FormatDate(s.UpdatedAt, app.Config.UI.DateFormat),
					s.Notes,
				)
			}
			table.Render()
			return nil
		},
	}
}

func newStrategyShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a saved strategy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)

			lib, err := app.strategies()
			if err != nil {
				return err
			}
			s, err := lib.GetStrategy(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if output.IsStructured() {
				return output.Emit(s)
			}

			det := app.Analyzer.Detect(s.Strategy)
			lines := []string{
				fmt.Sprintf("Type:        %s (%s)", FormatStrategyType(det.Type), FormatConfidence(det.Confidence)),
				fmt.Sprintf("Net premium: %s", FormatPnL(position.NetPremium(s.Strategy))),
				fmt.Sprintf("Created:     %s", FormatDate(s.CreatedAt, app.Config.UI.DateFormat)),
			}
			if s.Notes != "" {
				lines = append(lines, "Notes:       "+s.Notes)
			}
			for _, leg := range s.Strategy.Legs {
				lines = append(lines, "  "+FormatLeg(leg, app.Config.UI.DateFormat))
			}
			if s.Strategy.Stock != nil {
				lines = append(lines, "  "+FormatStock(*s.Strategy.Stock))
			}
			output.Box(s.Name, lines)
			return nil
		},
	}
}

func newStrategyDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a saved strategy",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)

			lib, err := app.strategies()
			if err != nil {
				return err
			}
			if err := lib.DeleteStrategy(cmd.Context(), args[0]); err != nil {
				return err
			}
			if output.IsStructured() {
				return output.Emit(map[string]string{"deleted": args[0]})
			}
			output.Success("✓ Deleted %q", args[0])
			return nil
		},
	}
}
