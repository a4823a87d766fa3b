// Command analyze prints a quick, human-readable summary of every game
// configuration in a configs directory: the rule toggles, how many cards the
// opening deal leaves hidden, and how long the deal and a full auto-complete
// take at the configured intervals.
//
// Usage:
//
//	analyze [configs-dir]
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/wricardo/egyptian-spider/game/config"
	"github.com/wricardo/egyptian-spider/game/engine"
)

// AnalysisReport summarizes one configuration
type AnalysisReport struct {
	ConfigID         string
	Name             string
	Settings         engine.Settings
	DealtCards       int
	HiddenCards      int
	StockAfterDeal   int
	DealDuration     time.Duration
	AutoCompleteMax  time.Duration
	InstantAnimation bool
}

func main() {
	dir := "configs"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	if err := analyzeDir(os.Stdout, dir); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func analyzeDir(w io.Writer, dir string) error {
	manager, err := config.NewManager(dir)
	if err != nil {
		return err
	}

	infos, err := manager.ListConfigs()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Fprintf(w, "No configurations found in %s\n", dir)
		return nil
	}

	for _, info := range infos {
		cfg, err := manager.LoadConfig(info.ConfigID)
		if err != nil {
			fmt.Fprintf(w, "\n=== %s ===\nError loading: %v\n", info.Filename, err)
			continue
		}
		fmt.Fprintf(w, "\n=== Analyzing %s ===\n", info.Filename)
		printReport(w, analyzeConfig(info.ConfigID, cfg))
	}
	return nil
}

func analyzeConfig(id string, cfg *engine.GameConfig) AnalysisReport {
	targets := engine.DealTargets()

	hidden := 0
	if !cfg.Settings.RevealAllCards {
		for _, t := range targets {
			if !t.FaceUp {
				hidden++
			}
		}
	}

	timing := cfg.Timing()
	deckSize := 2 * 52
	return AnalysisReport{
		ConfigID:         id,
		Name:             cfg.Name,
		Settings:         cfg.Settings,
		DealtCards:       len(targets),
		HiddenCards:      hidden,
		StockAfterDeal:   deckSize - len(targets),
		DealDuration:     time.Duration(len(targets)) * timing.DealInterval,
		AutoCompleteMax:  time.Duration(deckSize) * timing.AutoCompleteInterval,
		InstantAnimation: timing.DealInterval == 0 && timing.AutoCompleteInterval == 0,
	}
}

func printReport(w io.Writer, r AnalysisReport) {
	fmt.Fprintf(w, "Config ID: %s\n", r.ConfigID)
	fmt.Fprintf(w, "Name: %s\n", r.Name)
	fmt.Fprintf(w, "Reveal all cards: %t\n", r.Settings.RevealAllCards)
	fmt.Fprintf(w, "Any card to empty column: %t\n", r.Settings.AllowAnyCardToEmptyColumn)
	fmt.Fprintf(w, "Dealt: %d cards (%d hidden), stock %d\n", r.DealtCards, r.HiddenCards, r.StockAfterDeal)

	if r.InstantAnimation {
		fmt.Fprintf(w, "Animation: instant\n")
		return
	}
	fmt.Fprintf(w, "Deal takes: %s\n", r.DealDuration)
	fmt.Fprintf(w, "Auto-complete takes at most: %s\n", r.AutoCompleteMax)
}
