package engine

import (
	"fmt"
	"time"
)

// GameConfig represents a named preset of settings and animation timing
type GameConfig struct {
	Name                   string   `json:"name" yaml:"name"`
	Description            string   `json:"description" yaml:"description"`
	Settings               Settings `json:"settings" yaml:"settings"`
	DealIntervalMS         int      `json:"deal_interval_ms" yaml:"deal_interval_ms"`
	AutoCompleteIntervalMS int      `json:"auto_complete_interval_ms" yaml:"auto_complete_interval_ms"`

	// Seed fixes the shuffle when non-zero.
	Seed int64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// Timing converts the configured intervals
func (c *GameConfig) Timing() Timing {
	return Timing{
		DealInterval:         time.Duration(c.DealIntervalMS) * time.Millisecond,
		AutoCompleteInterval: time.Duration(c.AutoCompleteIntervalMS) * time.Millisecond,
	}
}

// ValidateGameConfig validates a game configuration for correctness
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is required")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}
	if config.DealIntervalMS < 0 || config.DealIntervalMS > MaxIntervalMS {
		return fmt.Errorf("config validation: deal_interval_ms must be between 0 and %d, got %d", MaxIntervalMS, config.DealIntervalMS)
	}
	if config.AutoCompleteIntervalMS < 0 || config.AutoCompleteIntervalMS > MaxIntervalMS {
		return fmt.Errorf("config validation: auto_complete_interval_ms must be between 0 and %d, got %d", MaxIntervalMS, config.AutoCompleteIntervalMS)
	}
	return nil
}

// DefaultGameConfig returns the classic rules at interactive speed
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:                   "classic",
		Description:            "Classic Egyptian Spider: kings only on empty columns, hidden cards",
		DealIntervalMS:         int(DefaultDealInterval / time.Millisecond),
		AutoCompleteIntervalMS: int(DefaultAutoCompleteInterval / time.Millisecond),
	}
}
