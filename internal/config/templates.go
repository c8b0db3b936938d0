package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# optionlab configuration

[market]
# Default annual risk-free rate (decimal)
rate = 0.05
# Default annual implied volatility (decimal), overridable per leg
volatility = 0.30

[solver]
# |P/L| in dollars accepted as a break-even
precision = 0.001
# Coarse scan step in dollars
scan_step = 0.10
# Bisection iteration budget
max_iterations = 1000
# Half-width in dollars of the fine scan around strikes
window = 5.0
window_step = 0.01
# Scanned band around spot, as a fraction of spot
price_range = 0.5

[surface]
# Price ladder half-width as a fraction of spot
price_range = 0.5
# Render height in pixels and minimum cell height; rows = height / cell, clamped to 9..20
render_height = 400
min_cell_height = 20
# Parallel row workers, 0 = one per CPU
workers = 0
# Date columns past the last step
fallback_columns = 20

[[surface.steps]]
max_days = 7
columns = 48

[[surface.steps]]
max_days = 14
columns = 40

[[surface.steps]]
max_days = 30
columns = 32

[[surface.steps]]
max_days = 60
columns = 26

[[surface.steps]]
max_days = 90
columns = 22

[log]
# debug, info, warn, error
level = "info"
# Write a rotating log file next to this config
file = true
max_size = 20
max_backups = 5
max_age = 30

[store]
# Saved strategies database; empty uses strategies.db in this directory
path = ""

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "2006-01-02"
`

// createTemplateConfig writes the commented template so users have a file to
// edit. Built-in defaults apply for this run.
func createTemplateConfig(configDir, name string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name+".toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}
