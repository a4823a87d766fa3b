// Package config provides preset management for Egyptian Spider.
//
// A preset is an engine.GameConfig stored as a JSON or YAML file in the
// configs directory. Each preset defines:
//   - The rule settings (reveal all dealt cards, allow any card on an empty column)
//   - Deal and auto-complete animation intervals in milliseconds
//   - An optional shuffle seed for reproducible games
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	relaxed, err := manager.LoadConfig("relaxed")
//	defaultConfig := manager.GetDefault()
//	presets, err := manager.ListConfigs()
//
// The default preset is "classic" when present, otherwise the first valid
// file in the directory, otherwise engine.DefaultGameConfig.
package config
