package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optionlab/internal/analyzer"
	"optionlab/internal/breakeven"
	"optionlab/internal/config"
	apperrors "optionlab/internal/errors"
	"optionlab/internal/models"
	"optionlab/internal/store"
)

var bullCallLegs = []string{
	"--leg", "LONG,CALL,100,500,1,2026-12-18",
	"--leg", "SHORT,CALL,110,200,1,2026-12-18",
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Store.Path = filepath.Join(t.TempDir(), "strategies.db")
	cfg.UI.ColorEnabled = false
	return cfg
}

func run(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd(cfg, zerolog.Nop())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestParseLegSpec(t *testing.T) {
	leg, err := parseLegSpec("long, call, 100, 500, 2, 2026-12-18, 0.3")
	require.NoError(t, err)
	assert.Equal(t, models.Long, leg.Position)
	assert.Equal(t, models.Call, leg.Type)
	assert.Equal(t, 100.0, leg.Strike)
	assert.Equal(t, 500.0, leg.Premium)
	assert.Equal(t, 2, leg.Quantity)
	require.NotNil(t, leg.Volatility)
	assert.Equal(t, 0.3, *leg.Volatility)

	for _, bad := range []string{
		"LONG,CALL,100,500,1",
		"LONG,CALL,abc,500,1,2026-12-18",
		"LONG,CALL,100,500,1,18/12/2026",
		"LONG,CALL,100,500,0,2026-12-18",
		"HOLD,CALL,100,500,1,2026-12-18",
	} {
		_, err := parseLegSpec(bad)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput, bad)
	}
}

func TestParseStockSpec(t *testing.T) {
	stock, err := parseStockSpec("LONG,100,98.5")
	require.NoError(t, err)
	assert.Equal(t, models.StockLeg{Position: models.Long, EntryPrice: 98.5, Quantity: 100}, stock)

	_, err = parseStockSpec("LONG,100")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestAnalyzeJSON(t *testing.T) {
	args := append([]string{"analyze", "--spot", "100", "--as-of", "2026-10-19", "--json"}, bullCallLegs...)
	out, err := run(t, testConfig(t), args...)
	require.NoError(t, err)

	var report analyzer.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, models.StrategyBullCallSpread, report.Detection.Type)
	require.Len(t, report.BreakEvens, 1)
	assert.InDelta(t, 103, report.BreakEvens[0], 1e-6)
	assert.InDelta(t, 700, report.MaxProfit.Value, 1e-9)
	assert.Equal(t, breakeven.MethodAnalytical, report.BreakEvenMode)
}

func TestAnalyzeText(t *testing.T) {
	args := append([]string{"analyze", "--spot", "100", "--as-of", "2026-10-19"}, bullCallLegs...)
	out, err := run(t, testConfig(t), args...)
	require.NoError(t, err)
	assert.Contains(t, out, "Bull Call Spread")
	assert.Contains(t, out, "$103.00")
	assert.Contains(t, out, "Position Greeks")
}

func TestAnalyzeRequiresSpotAndLegs(t *testing.T) {
	_, err := run(t, testConfig(t), append([]string{"analyze"}, bullCallLegs...)...)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = run(t, testConfig(t), "analyze", "--spot", "100")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestBreakevenYAML(t *testing.T) {
	out, err := run(t, testConfig(t), "breakeven", "--spot", "100", "--yaml",
		"--leg", "LONG,CALL,100,300,1,2026-12-18",
		"--leg", "LONG,PUT,100,500,1,2026-12-18")
	require.NoError(t, err)
	assert.Contains(t, out, "method: analytical")
	assert.Contains(t, out, "- 92")
	assert.Contains(t, out, "- 108")
}

func TestPLCommand(t *testing.T) {
	out, err := run(t, testConfig(t), append([]string{"pl", "--at", "120", "--json"}, bullCallLegs...)...)
	require.NoError(t, err)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.InDelta(t, 700, result["expiration_pl"].(float64), 1e-9)
	assert.NotContains(t, result, "theoretical_pl")

	out, err = run(t, testConfig(t), append([]string{"pl", "--at", "105", "--as-of", "2026-10-19", "--json"}, bullCallLegs...)...)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Contains(t, result, "theoretical_pl")
}

func TestDetectCommand(t *testing.T) {
	out, err := run(t, testConfig(t), "detect",
		"--stock", "LONG,100,100",
		"--leg", "SHORT,CALL,105,250,1,2026-12-18")
	require.NoError(t, err)
	assert.Contains(t, out, "Covered Call (100% confidence)")
}

func TestPriceCommand(t *testing.T) {
	out, err := run(t, testConfig(t), "price", "--json", "--type", "put", "--strike", "100",
		"--spot", "100", "--expiry", "2027-10-19", "--as-of", "2026-10-19", "--vol", "0.2", "--rate", "0.05")
	require.NoError(t, err)

	var q optionQuote
	require.NoError(t, json.Unmarshal([]byte(out), &q))
	assert.Equal(t, models.Put, q.Type)
	assert.Equal(t, models.ATM, q.Moneyness)
	assert.InDelta(t, 5.57, q.Price, 0.05)
	assert.InDelta(t, q.Price*100, q.Contract, 1e-6)
	assert.Less(t, q.Greeks.Delta, 0.0)
}

func TestExpiryCommand(t *testing.T) {
	out, err := run(t, testConfig(t), "expiry", "--json", "--as-of", "2026-10-19", "2026-11-20", "2026-10-30", "2028-01-21")
	require.NoError(t, err)

	var infos []models.ExpiryInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 3)
	assert.Equal(t, models.ExpiryMonthly, infos[0].Type)
	assert.Equal(t, models.ExpiryWeekly, infos[1].Type)
	assert.Equal(t, models.ExpiryLeaps, infos[2].Type)

	out, err = run(t, testConfig(t), "expiry", "--as-of", "2026-10-19", "--count", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "2026-10-23")
	assert.Contains(t, out, "2026-11-20")
	assert.Contains(t, out, "2026-12-18")
}

func TestSurfaceCSV(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "surface.csv")
	args := append([]string{"surface", "--spot", "100", "--as-of", "2026-10-19", "--workers", "2", "--csv", csvPath}, bullCallLegs...)
	out, err := run(t, testConfig(t), args...)
	require.NoError(t, err)
	assert.Contains(t, out, "Profitable")

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, 1+20*26, len(lines))
}

func TestStrategyFileAndLibrary(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(t.TempDir(), "condor.toml")
	content := `
name = "condor"

[market]
spot = 100
as_of = "2026-10-19"

[[legs]]
position = "LONG"
type = "PUT"
strike = 90
premium = 50
quantity = 1
expiry = "2026-12-18"

[[legs]]
position = "SHORT"
type = "PUT"
strike = 95
premium = 150
quantity = 1
expiry = "2026-12-18"

[[legs]]
position = "SHORT"
type = "CALL"
strike = 105
premium = 150
quantity = 1
expiry = "2026-12-18"

[[legs]]
position = "LONG"
type = "CALL"
strike = 110
premium = 50
quantity = 1
expiry = "2026-12-18"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	out, err := run(t, cfg, "breakeven", "-f", path, "--json")
	require.NoError(t, err)
	var res breakeven.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, models.StrategyIronCondor, res.Detection.Type)
	require.Len(t, res.Roots, 2)
	assert.InDelta(t, 93, res.Roots[0], 1e-6)
	assert.InDelta(t, 107, res.Roots[1], 1e-6)

	_, err = run(t, cfg, "strategy", "save", "condor", "-f", path, "--notes", "monthly")
	require.NoError(t, err)

	out, err = run(t, cfg, "strategy", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "condor")
	assert.Contains(t, out, "Iron Condor")

	out, err = run(t, cfg, "strategy", "show", "condor", "--json")
	require.NoError(t, err)
	var saved store.SavedStrategy
	require.NoError(t, json.Unmarshal([]byte(out), &saved))
	assert.Equal(t, "monthly", saved.Notes)
	assert.Len(t, saved.Strategy.Legs, 4)

	out, err = run(t, cfg, "analyze", "--saved", "condor", "--spot", "100", "--as-of", "2026-10-19", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"iron_condor"`)

	_, err = run(t, cfg, "strategy", "delete", "condor")
	require.NoError(t, err)
	_, err = run(t, cfg, "strategy", "show", "condor")
	assert.ErrorIs(t, err, apperrors.ErrStrategyNotFound)
}

func TestConfigCommands(t *testing.T) {
	cfg := testConfig(t)

	out, err := run(t, cfg, "config", "validate", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"valid": true}`, out)

	out, err = run(t, cfg, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Break-Even Solver")
	assert.Contains(t, out, cfg.Store.Path)

	out, err = run(t, cfg, "version", "--yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "version: "+Version)
}
