package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	apperrors "optionlab/internal/errors"
	"optionlab/internal/models"
	"optionlab/internal/pricing"
	"optionlab/internal/surface"
	"optionlab/pkg/utils"
)

// maxSurfaceColumns limits how many date columns the text surface shows.
const maxSurfaceColumns = 8

// addDerivativesCommands adds single-option pricing, expiry and surface commands.
func addDerivativesCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newPriceCmd(app))
	rootCmd.AddCommand(newExpiryCmd(app))
	rootCmd.AddCommand(newSurfaceCmd(app))
}

// optionQuote is the result of pricing one option.
type optionQuote struct {
	Type       models.OptionType   `json:"type" yaml:"type"`
	Strike     float64             `json:"strike" yaml:"strike"`
	Spot       float64             `json:"spot" yaml:"spot"`
	Expiry     string              `json:"expiry" yaml:"expiry"`
	Years      float64             `json:"years_to_expiry" yaml:"years_to_expiry"`
	Rate       float64             `json:"rate" yaml:"rate"`
	Volatility float64             `json:"volatility" yaml:"volatility"`
	Price      float64             `json:"price" yaml:"price"`
	Contract   float64             `json:"contract_price" yaml:"contract_price"`
	Intrinsic  float64             `json:"intrinsic" yaml:"intrinsic"`
	TimeValue  float64             `json:"time_value" yaml:"time_value"`
	Moneyness  models.Moneyness    `json:"moneyness" yaml:"moneyness"`
	Greeks     models.GreeksResult `json:"greeks" yaml:"greeks"`
}

func newPriceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "price",
		Short:   "Black-Scholes price and Greeks of one option",
		Example: `  optionlab price --type call --strike 105 --spot 100 --expiry 2026-12-18 --vol 0.25`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)

			params, err := resolveMarket(cmd, app, nil)
			if err != nil {
				return err
			}
			typeFlag, _ := cmd.Flags().GetString("type")
			optType := models.OptionType(strings.ToUpper(typeFlag))
			if !optType.Valid() {
				return apperrors.NewValidationError("type", typeFlag, "use call or put")
			}
			strike, _ := cmd.Flags().GetFloat64("strike")
			if !(strike > 0) {
				return apperrors.NewValidationError("strike", strike, "must be positive")
			}
			expiryFlag, _ := cmd.Flags().GetString("expiry")
			expiry, err := models.ParseDate(expiryFlag)
			if err != nil {
				return apperrors.NewValidationError("expiry", expiryFlag, "use YYYY-MM-DD")
			}

			t := pricing.YearsToExpiry(expiry, params.AsOf)
			price := pricing.Price(optType, params.Spot, strike, t, params.Rate, params.Volatility)
			intrinsic := pricing.Intrinsic(optType, params.Spot, strike)
			q := optionQuote{
				Type:       optType,
				Strike:     strike,
				Spot:       params.Spot,
				Expiry:     expiry.Format(models.DateLayout),
				Years:      t,
				Rate:       params.Rate,
				Volatility: params.Volatility,
				Price:      price,
				Contract:   models.PremiumPerContract(price),
				Intrinsic:  intrinsic,
				TimeValue:  price - intrinsic,
				Moneyness:  pricing.Moneyness(optType, params.Spot, strike),
				Greeks:     pricing.Greeks(optType, params.Spot, strike, t, params.Rate, params.Volatility),
			}

			if output.IsStructured() {
				return output.Emit(q)
			}

			output.Box(fmt.Sprintf("%s %s %s", optType, trimFloat(strike), q.Expiry), []string{
				fmt.Sprintf("Price:      $%s per share (%s per contract)", FormatPrice(q.Price), FormatCurrency(q.Contract)),
				fmt.Sprintf("Intrinsic:  $%s", FormatPrice(q.Intrinsic)),
				fmt.Sprintf("Time value: $%s", FormatPrice(q.TimeValue)),
				fmt.Sprintf("Moneyness:  %s", q.Moneyness),
				fmt.Sprintf("Inputs:     S=%.2f T=%.4fy r=%s σ=%s", q.Spot, q.Years, FormatRate(q.Rate), FormatRate(q.Volatility)),
			})
			output.Println()
			output.Bold("Greeks (per share)")
			output.Printf("  Delta: %.4f\n", q.Greeks.Delta)
			output.Printf("  Gamma: %.4f\n", q.Greeks.Gamma)
			output.Printf("  Theta: %.4f per day\n", q.Greeks.Theta)
			output.Printf("  Vega:  %.4f per vol pt\n", q.Greeks.Vega)
			output.Printf("  Rho:   %.4f per rate pt\n", q.Greeks.Rho)
			return nil
		},
	}
	addMarketFlags(cmd)
	cmd.Flags().String("type", "call", "option type: call or put")
	cmd.Flags().Float64("strike", 0, "strike price")
	cmd.Flags().String("expiry", "", "expiry date YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("strike")
	_ = cmd.MarkFlagRequired("expiry")
	return cmd
}

func newExpiryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expiry [DATE...]",
		Short: "Classify expiry dates",
		Long: `Classify expiry dates as weekly, monthly or LEAPS. Without arguments,
list the next weekly expiry and the upcoming monthly (third Friday) expiries.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)

			asOf := time.Now().UTC()
			if cmd.Flags().Changed("as-of") {
				s, _ := cmd.Flags().GetString("as-of")
				t, err := models.ParseDate(s)
				if err != nil {
					return apperrors.NewValidationError("as_of", s, "use YYYY-MM-DD")
				}
				asOf = t
			}

			var dates []time.Time
			if len(args) == 0 {
				count, _ := cmd.Flags().GetInt("count")
				dates = append(dates, utils.NextWeekday(asOf, time.Friday))
				for _, d := range utils.NextMonthlyExpiries(asOf, count) {
					if !d.Equal(dates[0]) {
						dates = append(dates, d)
					}
				}
			}
			for _, a := range args {
				t, err := models.ParseDate(a)
				if err != nil {
					return apperrors.NewValidationError("expiry", a, "use YYYY-MM-DD")
				}
				dates = append(dates, t)
			}

			infos := make([]models.ExpiryInfo, len(dates))
			for i, d := range dates {
				infos[i] = pricing.ClassifyExpiry(d, asOf)
			}
			if output.IsStructured() {
				return output.Emit(infos)
			}

			table := NewTable(output, "DATE", "DAY", "TYPE", "DAYS", "STANDARD")
			for i, info := range infos {
				day := dates[i].Weekday().String()[:3]
				if utils.IsWeekend(dates[i]) {
					day = output.Yellow(day)
				}
				table.AddRow(info.Date, day, string(info.Type), fmt.Sprintf("%d", info.DaysUntil), fmt.Sprintf("%v", info.Standard))
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().Int("count", 3, "number of monthly expiries to list")
	cmd.Flags().String("as-of", "", "reference date YYYY-MM-DD (default today)")
	return cmd
}

func newSurfaceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "surface",
		Short: "P/L surface over price and time",
		Long: `Evaluate the strategy's mark-to-model P/L on a grid of prices around
spot and dates up to the latest expiry. The last column is the payoff at
expiration. Use --csv to export every cell.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.withLogger(cmd, "surface")
			output := app.output(cmd)

			strat, market, err := resolveStrategy(cmd, app)
			if err != nil {
				return err
			}
			params, err := resolveMarket(cmd, app, market)
			if err != nil {
				return err
			}

			opts := app.surfaceOptions()
			if cmd.Flags().Changed("range") {
				opts.PriceRange, _ = cmd.Flags().GetFloat64("range")
			}
			if cmd.Flags().Changed("workers") {
				opts.Workers, _ = cmd.Flags().GetInt("workers")
			}

			s, err := app.Analyzer.Surface(cmd.Context(), strat, params, opts)
			if err != nil {
				return err
			}
			summary, err := surface.Summarize(s)
			if err != nil {
				return err
			}

			if path, _ := cmd.Flags().GetString("csv"); path != "" {
				if err := writeSurfaceCSV(path, s); err != nil {
					return err
				}
				if !output.IsStructured() {
					output.Success("✓ Wrote %d cells to %s", len(s.Prices)*len(s.Dates), path)
				}
			}

			if output.IsStructured() {
				return output.Emit(map[string]interface{}{
					"surface": s,
					"summary": summary,
				})
			}

			renderSurface(output, s, app.Config.UI.DateFormat)
			output.Println()
			output.Bold("Summary")
			output.Printf("  Range:      %s to %s\n", FormatPnL(summary.Min), FormatPnL(summary.Max))
			output.Printf("  Mean:       %s (median %s)\n", FormatPnL(summary.Mean), FormatPnL(summary.Median))
			output.Printf("  P10 / P90:  %s / %s\n", FormatPnL(summary.P10), FormatPnL(summary.P90))
			output.Printf("  Profitable: %.0f%% of cells\n", summary.ProfitableShare*100)
			return nil
		},
	}
	addStrategyFlags(cmd)
	addMarketFlags(cmd)
	cmd.Flags().Float64("range", 0, "price range around spot as a fraction (default from config)")
	cmd.Flags().Int("workers", 0, "parallel workers (default from config)")
	cmd.Flags().String("csv", "", "write every cell to a CSV file")
	return cmd
}

func writeSurfaceCSV(path string, s *surface.Surface) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := surface.WriteCSV(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// renderSurface prints prices descending with a sample of the date columns,
// always keeping the first and the expiration column.
func renderSurface(output *Output, s *surface.Surface, layout string) {
	cols := sampleColumns(len(s.Dates), maxSurfaceColumns)

	headers := []string{"PRICE"}
	for _, j := range cols {
		headers = append(headers, FormatDate(s.Dates[j], layout))
	}
	table := NewTable(output, headers...)
	for i := len(s.Prices) - 1; i >= 0; i-- {
		price := fmt.Sprintf("%.2f", s.Prices[i])
		row := []string{price}
		for _, j := range cols {
			v := s.Values[i][j]
			row = append(row, output.ColoredString(output.PnLColor(v), utils.FormatCompact(v)))
		}
		table.AddRow(row...)
	}
	table.Render()
}

// sampleColumns picks up to limit evenly spaced indices from [0, n), including both ends.
func sampleColumns(n, limit int) []int {
	if n <= limit {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	idx := make([]int, limit)
	for k := range idx {
		idx[k] = k * (n - 1) / (limit - 1)
	}
	return idx
}
