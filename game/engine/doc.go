// Package engine provides the core game logic for Egyptian Spider solitaire.
//
// The engine package implements the game mechanics including:
//   - Dealing a shuffled two-pack deck onto nine pyramid columns
//   - Validated single-card and run moves between columns and foundations
//   - Stock draws onto every unresolved column
//   - A five-entry undo history
//   - Automatic end-game completion onto the foundations
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState is the authoritative game state,
// View is the read-only projection handed to transports, and GameConfig
// carries the player settings and animation timing loaded from preset files.
//
// Staged Steps:
//
// Dealing, drawing and auto-completion are queued as discrete steps. Each
// step is either armed on a timer (the animation interval), drained
// synchronously when the interval is zero, or advanced explicitly with
// Step when Timing.Manual is set. Commands are rejected while a deal, draw
// or auto-completion is in progress.
//
// Usage:
//
//	gameEngine, err := engine.NewEngine(engine.DefaultGameConfig(), engine.WithStore(store))
//	if err != nil {
//		log.Fatal(err)
//	}
//	gameEngine.Initialize(gameEngine.Settings())
//
//	start := 3
//	gameEngine.MoveCard(
//		engine.Source{Kind: engine.PileColumn, Index: 4, CardIndex: &start},
//		engine.Target{Kind: engine.PileFoundation, Index: 0},
//	)
//	view := gameEngine.View()
package engine
