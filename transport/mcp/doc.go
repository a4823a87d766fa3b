// Package mcp exposes the game to AI agents over the Model Context Protocol.
//
// Client registers one tool per game operation and forwards every call to the
// REST API, so an MCP process can run next to the HTTP server or against a
// remote one. Results are plain text: the tableau is rendered column by
// column with "##" for face-down cards, and command results start with
// [OK] or [REJECTED].
//
// Tools: create_session, list_sessions, get_session, game_state,
// legal_moves, move_card, auto_foundation, draw_cards, undo, new_game,
// advance, list_configs, game_instructions.
//
// Stdio:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
// HTTP, mounted at /mcp by the serve command:
//
//	server.NewStreamableHTTPServer(client.GetMCPServer())
package mcp
