package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"optionlab/internal/logging"
	"optionlab/internal/models"
	"optionlab/internal/position"
)

// addAnalysisCommands adds the strategy analysis commands.
func addAnalysisCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newAnalyzeCmd(app))
	rootCmd.AddCommand(newGreeksCmd(app))
	rootCmd.AddCommand(newPLCmd(app))
	rootCmd.AddCommand(newBreakevenCmd(app))
	rootCmd.AddCommand(newDetectCmd(app))
}

// output builds an Output honouring the configured color preference.
func (app *App) output(cmd *cobra.Command) *Output {
	output := NewOutput(cmd)
	if !app.Config.UI.ColorEnabled {
		output.DisableColor()
	}
	return output
}

// withLogger attaches the app logger to the command context.
func (app *App) withLogger(cmd *cobra.Command, operation string) {
	logger := logging.WithOperation(app.Logger, operation)
	cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
}

func newAnalyzeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Full strategy report",
		Long: `Analyze a strategy: recognised type, net premium, P/L at spot,
maximum profit and loss, break-even prices, Greeks and a per-leg breakdown.`,
		Example: `  optionlab analyze --spot 100 \
    --leg LONG,CALL,100,500,1,2026-12-18 \
    --leg SHORT,CALL,110,200,1,2026-12-18`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.withLogger(cmd, "analyze")
			output := app.output(cmd)

			strat, market, err := resolveStrategy(cmd, app)
			if err != nil {
				return err
			}
			params, err := resolveMarket(cmd, app, market)
			if err != nil {
				return err
			}

			report, err := app.Analyzer.Analyze(cmd.Context(), strat, params)
			if err != nil {
				return err
			}
			if output.IsStructured() {
				return output.Emit(report)
			}

			title := FormatStrategyType(report.Detection.Type)
			if strat.Name != "" {
				title = fmt.Sprintf("%s (%s)", strat.Name, title)
			}
			output.Box(title, []string{
				fmt.Sprintf("Confidence:     %s", FormatConfidence(report.Detection.Confidence)),
				fmt.Sprintf("Spot:           $%.2f", params.Spot),
				fmt.Sprintf("As of:          %s", FormatDate(params.AsOf, app.Config.UI.DateFormat)),
				fmt.Sprintf("Days to expiry: %d", report.DaysToExpiry),
				fmt.Sprintf("Net premium:    %s", output.FormatPnL(report.NetPremium)),
				fmt.Sprintf("P/L at expiry:  %s", output.FormatPnL(report.ExpirationPL)),
				fmt.Sprintf("P/L now:        %s", output.FormatPnL(report.TheoreticalPL)),
				fmt.Sprintf("Max profit:     %s", FormatExtreme(report.MaxProfit)),
				fmt.Sprintf("Max loss:       %s", FormatExtreme(report.MaxLoss)),
				fmt.Sprintf("Break-evens:    %s (%s)", FormatRoots(report.BreakEvens), report.BreakEvenMode),
				fmt.Sprintf("Risk/reward:    %s", formatRiskReward(report.RiskReward)),
			})
			output.Println()

			output.Bold("Legs")
			table := NewTable(output, "LEG", "MONEY", "THEO", "INTRINSIC", "TIME", "P/L", "DELTA")
			for i, v := range report.Legs {
				table.AddRow(
					FormatLeg(strat.Legs[i], app.Config.UI.DateFormat),
					string(v.Moneyness),
					FormatPrice(v.Theoretical),
					FormatPrice(v.Intrinsic),
					FormatPrice(v.TimeValue),
					output.FormatPnL(v.PL),
					fmt.Sprintf("%.2f", v.Greeks.Delta),
				)
			}
			table.Render()
			if strat.Stock != nil {
				output.Dim("  + %s", FormatStock(*strat.Stock))
			}
			output.Println()

			printGreeks(output, report.Greeks)
			if report.UnlimitedRisk {
				output.Println()
				output.Warning("⚠ This position has unlimited loss potential")
			}
			return nil
		},
	}
	addStrategyFlags(cmd)
	addMarketFlags(cmd)
	return cmd
}

func newGreeksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "greeks",
		Short: "Per-leg and aggregate Greeks",
		Long: `Show dollar Greeks for every leg and for the whole position.
Delta is in equivalent shares, theta in dollars per day, vega and rho
in dollars per percentage point.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)

			strat, market, err := resolveStrategy(cmd, app)
			if err != nil {
				return err
			}
			params, err := resolveMarket(cmd, app, market)
			if err != nil {
				return err
			}

			total, err := position.AggregateGreeks(strat, params)
			if err != nil {
				return err
			}
			legs := make([]models.LegValuation, 0, len(strat.Legs))
			for _, leg := range strat.Legs {
				v, err := position.ValueLeg(leg, params)
				if err != nil {
					return err
				}
				legs = append(legs, v)
			}

			if output.IsStructured() {
				return output.Emit(map[string]interface{}{
					"legs":  legs,
					"total": total,
				})
			}

			table := NewTable(output, "LEG", "DELTA", "GAMMA", "THETA", "VEGA", "RHO")
			for i, v := range legs {
				g := v.Greeks
				table.AddRow(FormatLeg(strat.Legs[i], app.Config.UI.DateFormat),
					fmt.Sprintf("%.2f", g.Delta), fmt.Sprintf("%.4f", g.Gamma),
					fmt.Sprintf("%.2f", g.Theta), fmt.Sprintf("%.2f", g.Vega), fmt.Sprintf("%.2f", g.Rho))
			}
			if strat.Stock != nil {
				table.AddRow(FormatStock(*strat.Stock),
					fmt.Sprintf("%.2f", strat.Stock.SignedShares()), "0.0000", "0.00", "0.00", "0.00")
			}
			table.Render()
			output.Println()
			printGreeks(output, total)
			return nil
		},
	}
	addStrategyFlags(cmd)
	addMarketFlags(cmd)
	return cmd
}

func newPLCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pl",
		Short: "P/L at a price, at expiration and on a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)

			strat, market, err := resolveStrategy(cmd, app)
			if err != nil {
				return err
			}
			at, _ := cmd.Flags().GetFloat64("at")

			expiration, err := position.TotalPL(strat, at)
			if err != nil {
				return err
			}
			legs := make([]float64, len(strat.Legs))
			for i, leg := range strat.Legs {
				if legs[i], err = position.LegPL(leg, at); err != nil {
					return err
				}
			}

			result := map[string]interface{}{
				"price":         at,
				"expiration_pl": expiration,
				"legs":          legs,
			}

			// Mark-to-model P/L is shown when a valuation date is given.
			var theoretical *float64
			var onDate time.Time
			if cmd.Flags().Changed("as-of") || (market != nil && market.AsOf != "") {
				params, err := marketInputs(cmd, app, market)
				if err != nil {
					return err
				}
				params.Spot = at
				if err := params.Validate(); err != nil {
					return err
				}
				v, err := position.TheoreticalPL(strat, at, params.AsOf, params)
				if err != nil {
					return err
				}
				theoretical = &v
				onDate = params.AsOf
				result["theoretical_pl"] = v
				result["as_of"] = params.AsOf
			}

			if output.IsStructured() {
				return output.Emit(result)
			}

			output.Printf("Price:          $%.2f\n", at)
			output.Printf("P/L at expiry:  %s\n", output.FormatPnL(expiration))
			if theoretical != nil {
				output.Printf("P/L on %s: %s\n", FormatDate(onDate, app.Config.UI.DateFormat), output.FormatPnL(*theoretical))
			}
			output.Println()
			table := NewTable(output, "LEG", "P/L AT EXPIRY")
			for i, leg := range strat.Legs {
				table.AddRow(FormatLeg(leg, app.Config.UI.DateFormat), output.FormatPnL(legs[i]))
			}
			table.Render()
			return nil
		},
	}
	addStrategyFlags(cmd)
	addMarketFlags(cmd)
	cmd.Flags().Float64("at", 0, "underlying price to evaluate")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

func newBreakevenCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "breakeven",
		Short: "Break-even prices at expiration",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.withLogger(cmd, "breakeven")
			output := app.output(cmd)

			strat, market, err := resolveStrategy(cmd, app)
			if err != nil {
				return err
			}
			spot, _ := cmd.Flags().GetFloat64("spot")
			if !cmd.Flags().Changed("spot") && market != nil {
				spot = market.Spot
			}

			res, err := app.Analyzer.BreakEvens(cmd.Context(), strat, spot)
			if err != nil {
				return err
			}
			if output.IsStructured() {
				return output.Emit(res)
			}

			output.Printf("Strategy:    %s (%s)\n", FormatStrategyType(res.Detection.Type), FormatConfidence(res.Detection.Confidence))
			output.Printf("Method:      %s\n", res.Method)
			output.Printf("Break-evens: %s\n", FormatRoots(res.Roots))
			return nil
		},
	}
	addStrategyFlags(cmd)
	cmd.Flags().Float64("spot", 0, "underlying spot price; the search band is centred here")
	return cmd
}

func newDetectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Recognise the strategy type",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)

			strat, _, err := resolveStrategy(cmd, app)
			if err != nil {
				return err
			}

			det := app.Analyzer.Detect(strat)
			if output.IsStructured() {
				return output.Emit(det)
			}
			output.Printf("%s (%s confidence)\n", output.ColoredString(ColorBold, FormatStrategyType(det.Type)), FormatConfidence(det.Confidence))
			return nil
		},
	}
	addStrategyFlags(cmd)
	return cmd
}

func printGreeks(output *Output, g models.GreeksResult) {
	output.Bold("Position Greeks")
	output.Printf("  Delta: %10.2f shares\n", g.Delta)
	output.Printf("  Gamma: %10.4f per $1\n", g.Gamma)
	output.Printf("  Theta: %10s per day\n", FormatPnL(g.Theta))
	output.Printf("  Vega:  %10s per vol pt\n", FormatPnL(g.Vega))
	output.Printf("  Rho:   %10s per rate pt\n", FormatPnL(g.Rho))
}

func formatRiskReward(ratio *float64) string {
	if ratio == nil {
		return "n/a"
	}
	return fmt.Sprintf("1:%.2f", *ratio)
}
