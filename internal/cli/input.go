package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apperrors "optionlab/internal/errors"
	"optionlab/internal/models"
)

// strategyFile is the on-disk layout of a strategy in TOML, YAML or JSON.
// Expiries are quoted YYYY-MM-DD strings.
type strategyFile struct {
	Name   string       `mapstructure:"name"`
	Legs   []legEntry   `mapstructure:"legs"`
	Stock  *stockEntry  `mapstructure:"stock"`
	Market *marketEntry `mapstructure:"market"`
}

type legEntry struct {
	Position   string   `mapstructure:"position"`
	Type       string   `mapstructure:"type"`
	Strike     float64  `mapstructure:"strike"`
	Premium    float64  `mapstructure:"premium"`
	Quantity   int      `mapstructure:"quantity"`
	Expiry     string   `mapstructure:"expiry"`
	Volatility *float64 `mapstructure:"volatility"`
}

type stockEntry struct {
	Position   string  `mapstructure:"position"`
	EntryPrice float64 `mapstructure:"entry_price"`
	Quantity   int     `mapstructure:"quantity"`
}

type marketEntry struct {
	Spot       float64  `mapstructure:"spot"`
	Rate       *float64 `mapstructure:"rate"`
	Volatility *float64 `mapstructure:"volatility"`
	AsOf       string   `mapstructure:"as_of"`
}

// addStrategyFlags registers the flags every strategy command accepts.
func addStrategyFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("leg", "l", nil, "option leg POSITION,TYPE,STRIKE,PREMIUM,QTY,EXPIRY[,VOL] (repeatable)")
	cmd.Flags().String("stock", "", "stock leg POSITION,QTY,ENTRY_PRICE")
	cmd.Flags().StringP("file", "f", "", "read the strategy from a .toml, .yaml or .json file")
	cmd.Flags().StringP("saved", "s", "", "use a strategy from the saved library")
	cmd.Flags().String("name", "", "strategy name")
}

// addMarketFlags registers the market input flags.
func addMarketFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("spot", 0, "underlying spot price")
	cmd.Flags().Float64("rate", 0, "risk-free rate as a decimal (default from config)")
	cmd.Flags().Float64("vol", 0, "volatility as a decimal (default from config)")
	cmd.Flags().String("as-of", "", "valuation date YYYY-MM-DD (default now)")
}

// resolveStrategy builds the strategy from --saved, --file or --leg/--stock,
// in that order of precedence.
func resolveStrategy(cmd *cobra.Command, app *App) (models.Strategy, *marketEntry, error) {
	var (
		strat  models.Strategy
		market *marketEntry
	)

	saved, _ := cmd.Flags().GetString("saved")
	file, _ := cmd.Flags().GetString("file")
	legSpecs, _ := cmd.Flags().GetStringArray("leg")
	stockSpec, _ := cmd.Flags().GetString("stock")

	switch {
	case saved != "":
		lib, err := app.strategies()
		if err != nil {
			return strat, nil, err
		}
		s, err := lib.GetStrategy(cmd.Context(), saved)
		if err != nil {
			return strat, nil, err
		}
		strat = s.Strategy
	case file != "":
		var err error
		strat, market, err = loadStrategyFile(file)
		if err != nil {
			return strat, nil, err
		}
	default:
		for i, spec := range legSpecs {
			leg, err := parseLegSpec(spec)
			if err != nil {
				return strat, nil, apperrors.Wrapf(err, "--leg %d", i+1)
			}
			strat.Legs = append(strat.Legs, leg)
		}
		if stockSpec != "" {
			stock, err := parseStockSpec(stockSpec)
			if err != nil {
				return strat, nil, apperrors.Wrap(err, "--stock")
			}
			strat.Stock = &stock
		}
	}

	if name, _ := cmd.Flags().GetString("name"); name != "" {
		strat.Name = name
	}
	if strat.IsEmpty() {
		return strat, nil, apperrors.NewValidationError("legs", 0, "give --leg/--stock, --file or --saved")
	}
	return strat, market, strat.Validate()
}

// resolveMarket returns validated market inputs; a spot price is required.
func resolveMarket(cmd *cobra.Command, app *App, fromFile *marketEntry) (models.MarketParams, error) {
	params, err := marketInputs(cmd, app, fromFile)
	if err != nil {
		return params, err
	}
	if params.Spot == 0 {
		return params, apperrors.NewValidationError("spot", 0, "--spot is required")
	}
	return params, params.Validate()
}

// marketInputs merges flags, the strategy file and config defaults.
// Flags win over the file, which wins over the config.
func marketInputs(cmd *cobra.Command, app *App, fromFile *marketEntry) (models.MarketParams, error) {
	params := models.MarketParams{
		Rate:       app.Config.Market.Rate,
		Volatility: app.Config.Market.Volatility,
	}
	asOf := ""

	if fromFile != nil {
		params.Spot = fromFile.Spot
		if fromFile.Rate != nil {
			params.Rate = *fromFile.Rate
		}
		if fromFile.Volatility != nil {
			params.Volatility = *fromFile.Volatility
		}
		asOf = fromFile.AsOf
	}

	if cmd.Flags().Changed("spot") {
		params.Spot, _ = cmd.Flags().GetFloat64("spot")
	}
	if cmd.Flags().Changed("rate") {
		params.Rate, _ = cmd.Flags().GetFloat64("rate")
	}
	if cmd.Flags().Changed("vol") {
		params.Volatility, _ = cmd.Flags().GetFloat64("vol")
	}
	if cmd.Flags().Changed("as-of") {
		asOf, _ = cmd.Flags().GetString("as-of")
	}

	if asOf != "" {
		t, err := models.ParseDate(asOf)
		if err != nil {
			return params, apperrors.NewValidationError("as_of", asOf, "use YYYY-MM-DD")
		}
		params.AsOf = t
	} else {
		params.AsOf = time.Now().UTC()
	}
	return params, nil
}

// parseLegSpec parses POSITION,TYPE,STRIKE,PREMIUM,QTY,EXPIRY[,VOL].
func parseLegSpec(spec string) (models.OptionLeg, error) {
	fields := splitSpec(spec)
	if len(fields) != 6 && len(fields) != 7 {
		return models.OptionLeg{}, apperrors.NewValidationError("leg", spec, "expected POSITION,TYPE,STRIKE,PREMIUM,QTY,EXPIRY[,VOL]")
	}

	pos := models.Position(strings.ToUpper(fields[0]))
	typ := models.OptionType(strings.ToUpper(fields[1]))
	strike, err := parseFloat("strike", fields[2])
	if err != nil {
		return models.OptionLeg{}, err
	}
	premium, err := parseFloat("premium", fields[3])
	if err != nil {
		return models.OptionLeg{}, err
	}
	qty, err := strconv.Atoi(fields[4])
	if err != nil {
		return models.OptionLeg{}, apperrors.NewValidationError("quantity", fields[4], "must be an integer")
	}
	expiry, err := models.ParseDate(fields[5])
	if err != nil {
		return models.OptionLeg{}, apperrors.NewValidationError("expiry", fields[5], "use YYYY-MM-DD")
	}

	leg := models.NewOptionLeg(typ, pos, strike, premium, qty, expiry)
	if len(fields) == 7 {
		vol, err := parseFloat("volatility", fields[6])
		if err != nil {
			return models.OptionLeg{}, err
		}
		leg = leg.WithVolatility(vol)
	}
	return leg, leg.Validate()
}

// parseStockSpec parses POSITION,QTY,ENTRY_PRICE.
func parseStockSpec(spec string) (models.StockLeg, error) {
	fields := splitSpec(spec)
	if len(fields) != 3 {
		return models.StockLeg{}, apperrors.NewValidationError("stock", spec, "expected POSITION,QTY,ENTRY_PRICE")
	}
	qty, err := strconv.Atoi(fields[1])
	if err != nil {
		return models.StockLeg{}, apperrors.NewValidationError("stock.quantity", fields[1], "must be an integer")
	}
	price, err := parseFloat("stock.entry_price", fields[2])
	if err != nil {
		return models.StockLeg{}, err
	}
	stock := models.StockLeg{
		Position:   models.Position(strings.ToUpper(fields[0])),
		EntryPrice: price,
		Quantity:   qty,
	}
	return stock, stock.Validate()
}

// loadStrategyFile reads a strategy document; the format follows the extension.
func loadStrategyFile(path string) (models.Strategy, *marketEntry, error) {
	var strat models.Strategy

	v := viper.New()
	v.SetConfigFile(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".yaml", ".yml", ".json":
	default:
		return strat, nil, apperrors.NewValidationError("file", path, "use a .toml, .yaml or .json file")
	}
	if err := v.ReadInConfig(); err != nil {
		return strat, nil, fmt.Errorf("reading strategy file: %w", err)
	}

	var doc strategyFile
	if err := v.Unmarshal(&doc); err != nil {
		return strat, nil, fmt.Errorf("parsing strategy file: %w", err)
	}

	strat.Name = doc.Name
	for i, e := range doc.Legs {
		expiry, err := models.ParseDate(e.Expiry)
		if err != nil {
			return strat, nil, apperrors.NewValidationError(fmt.Sprintf("legs[%d].expiry", i), e.Expiry, "use a quoted YYYY-MM-DD date")
		}
		leg := models.NewOptionLeg(
			models.OptionType(strings.ToUpper(e.Type)),
			models.Position(strings.ToUpper(e.Position)),
			e.Strike, e.Premium, e.Quantity, expiry,
		)
		if e.Volatility != nil {
			leg = leg.WithVolatility(*e.Volatility)
		}
		strat.Legs = append(strat.Legs, leg)
	}
	if doc.Stock != nil {
		strat.Stock = &models.StockLeg{
			Position:   models.Position(strings.ToUpper(doc.Stock.Position)),
			EntryPrice: doc.Stock.EntryPrice,
			Quantity:   doc.Stock.Quantity,
		}
	}
	return strat, doc.Market, nil
}

func splitSpec(spec string) []string {
	fields := strings.Split(spec, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

func parseFloat(field, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, apperrors.NewValidationError(field, s, "must be a number")
	}
	return v, nil
}
