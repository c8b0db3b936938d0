// Package store provides persistence for saved strategies.
package store

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	apperrors "optionlab/internal/errors"
	"optionlab/internal/models"
)

// StrategyStore defines the interface for the saved-strategy library.
type StrategyStore interface {
	// SaveStrategy inserts or replaces a strategy by name.
	SaveStrategy(ctx context.Context, saved *SavedStrategy) error
	// GetStrategy returns errors.ErrStrategyNotFound for an unknown name.
	GetStrategy(ctx context.Context, name string) (*SavedStrategy, error)
	ListStrategies(ctx context.Context) ([]SavedStrategy, error)
	DeleteStrategy(ctx context.Context, name string) error

	// Lifecycle
	Close() error
}

// SavedStrategy is a named strategy with bookkeeping timestamps.
type SavedStrategy struct {
	Name      string          `json:"name" yaml:"name"`
	Notes     string          `json:"notes,omitempty" yaml:"notes,omitempty"`
	Strategy  models.Strategy `json:"strategy" yaml:"strategy"`
	CreatedAt time.Time       `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" yaml:"updated_at"`
}

// Strategy names: letters, digits, dash, underscore, dot and spaces.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_. -]{0,63}$`)

// NormalizeName trims and validates a strategy name.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.NewValidationError("name", name, "name cannot be empty")
	}
	if !namePattern.MatchString(name) {
		return "", apperrors.NewValidationError("name", name, "use up to 64 letters, digits, spaces, '.', '-' or '_'")
	}
	return name, nil
}

// MaxNotesLength caps the free-form notes stored with a strategy.
const MaxNotesLength = 1024

// NormalizeNotes strips control characters and enforces the length cap.
func NormalizeNotes(notes string) (string, error) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(notes) {
		if r >= 32 && r != 127 {
			b.WriteRune(r)
		}
	}
	notes = b.String()
	if len(notes) > MaxNotesLength {
		return "", apperrors.NewValidationError("notes", len(notes), fmt.Sprintf("notes too long (max %d characters)", MaxNotesLength))
	}
	return notes, nil
}
