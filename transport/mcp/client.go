package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/egyptian-spider/game/engine"
	"github.com/wricardo/egyptian-spider/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API at baseURL
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Egyptian Spider Solitaire",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Egyptian Spider Solitaire - MCP Interface

All tools proxy to the REST API server; every game lives in a session.

GOAL: move all 104 cards (two decks) onto the eight foundations, ace to king by suit.

TOOLS:
- create_session / list_sessions / get_session: manage games
- game_state: columns, foundations and stock of a session
- legal_moves: every move the rules accept right now
- move_card: move a run between columns, or a card to/from a foundation
- auto_foundation: send a column's top card to the first foundation that takes it
- draw_cards: deal one card from the stock onto every unfinished column
- undo: revert the last move (up to 5)
- new_game: deal a fresh game, optionally with new settings
- advance: apply pending deal or auto-complete steps without waiting
- list_configs, game_instructions

Call game_instructions once before playing.`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	sessionID := mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID"))

	// Session management
	c.mcpServer.AddTool(mcp.NewTool("create_session",
		mcp.WithDescription("Create a new game session and deal its first game"),
		mcp.WithString("config_id", mcp.Description("Config to use (see list_configs); empty selects the default")),
	), c.handleCreateSession)

	c.mcpServer.AddTool(mcp.NewTool("list_sessions",
		mcp.WithDescription("List game sessions, most recently used first"),
		mcp.WithNumber("limit", mcp.Description("Maximum number of sessions to return")),
	), c.handleListSessions)

	c.mcpServer.AddTool(mcp.NewTool("get_session",
		mcp.WithDescription("Get details of a specific session"),
		sessionID,
	), c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.NewTool("game_state",
		mcp.WithDescription("Show the tableau, foundations and stock of a session"),
		sessionID,
	), c.handleGameState)

	c.mcpServer.AddTool(mcp.NewTool("legal_moves",
		mcp.WithDescription("List every move currently accepted by the rules"),
		sessionID,
	), c.handleLegalMoves)

	c.mcpServer.AddTool(mcp.NewTool("move_card",
		mcp.WithDescription("Move a face-up run from a column (or the top card of a foundation) onto a column or foundation"),
		sessionID,
		mcp.WithString("source_kind", mcp.Enum("column", "foundation"), mcp.Description("Where the cards come from (default column)")),
		mcp.WithNumber("source_index", mcp.Required(), mcp.Description("0-based column (0-8) or foundation (0-7)")),
		mcp.WithNumber("card_index", mcp.Description("0-based index of the first moved card in the source column; omit for the top card")),
		mcp.WithString("target_kind", mcp.Enum("column", "foundation"), mcp.Description("Where the cards go (default column)")),
		mcp.WithNumber("target_index", mcp.Required(), mcp.Description("0-based column (0-8) or foundation (0-7)")),
	), c.handleMoveCard)

	c.mcpServer.AddTool(mcp.NewTool("auto_foundation",
		mcp.WithDescription("Send the top card of a column to the first foundation that accepts it"),
		sessionID,
		mcp.WithNumber("column", mcp.Required(), mcp.Description("0-based column index (0-8)")),
		mcp.WithString("card_id", mcp.Description("Optional id of the top card, to guard against stale state")),
	), c.handleAutoFoundation)

	c.mcpServer.AddTool(mcp.NewTool("draw_cards",
		mcp.WithDescription("Deal one face-up card from the stock onto every column that is not complete"),
		sessionID,
	), c.handleDrawCards)

	c.mcpServer.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Undo the most recent move or draw"),
		sessionID,
	), c.handleUndo)

	c.mcpServer.AddTool(mcp.NewTool("new_game",
		mcp.WithDescription("Shuffle and deal a new game in the session"),
		sessionID,
		mcp.WithBoolean("reveal_all_cards", mcp.Description("Deal every card face up")),
		mcp.WithBoolean("allow_any_card_to_empty_column", mcp.Description("Allow any card, not only kings, onto empty columns")),
	), c.handleNewGame)

	c.mcpServer.AddTool(mcp.NewTool("advance",
		mcp.WithDescription("Apply pending deal, draw or auto-complete steps immediately"),
		sessionID,
		mcp.WithNumber("steps", mcp.Description("Number of steps; 0 or omitted applies all")),
	), c.handleAdvance)

	// Configuration
	c.mcpServer.AddTool(mcp.NewTool("list_configs",
		mcp.WithDescription("List available game configurations"),
	), c.handleListConfigs)

	c.mcpServer.AddTool(mcp.NewTool("game_instructions",
		mcp.WithDescription("Rules of Egyptian Spider and how to read the game_state output"),
	), c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil && resp.StatusCode != http.StatusNoContent {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func sessionPath(id string, rest string) string {
	return "/api/sessions/" + url.PathEscape(id) + rest
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := map[string]string{}
	if configID := request.GetString("config_id", ""); configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, http.MethodPost, "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := "/api/sessions"
	if limit := request.GetInt("limit", 0); limit > 0 {
		path += fmt.Sprintf("?limit=%d", limit)
	}

	var sessions []*service.SessionInfo
	if err := c.apiCall(ctx, http.MethodGet, path, nil, &sessions); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(sessions) == 0 {
		return mcp.NewToolResultText("No sessions. Use create_session to start one."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d sessions:\n", len(sessions))
	for _, s := range sessions {
		fmt.Fprintf(&b, "- %s  config=%s  %s  last used %s\n",
			s.ID, s.ConfigName, summary(&s.View), s.LastAccessedAt.Format("2006-01-02 15:04:05"))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, http.MethodGet, sessionPath(id, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var view engine.View
	if err := c.apiCall(ctx, http.MethodGet, sessionPath(id, "/state"), nil, &view); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatView(&view)), nil
}

func (c *Client) handleLegalMoves(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var moves []engine.Move
	if err := c.apiCall(ctx, http.MethodGet, sessionPath(id, "/moves"), nil, &moves); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatMoves(moves)), nil
}

func (c *Client) handleMoveCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	srcIndex, err := request.RequireInt("source_index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dstIndex, err := request.RequireInt("target_index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	src := engine.Source{
		Kind:  engine.PileKind(request.GetString("source_kind", string(engine.PileColumn))),
		Index: srcIndex,
	}
	if _, ok := request.GetArguments()["card_index"]; ok && src.Kind == engine.PileColumn {
		cardIndex := request.GetInt("card_index", 0)
		src.CardIndex = &cardIndex
	}
	dst := engine.Target{
		Kind:  engine.PileKind(request.GetString("target_kind", string(engine.PileColumn))),
		Index: dstIndex,
	}

	body := map[string]interface{}{"source": src, "target": dst}
	var result service.ActionResult
	if err := c.apiCall(ctx, http.MethodPost, sessionPath(id, "/move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

func (c *Client) handleAutoFoundation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	column, err := request.RequireInt("column")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	body := map[string]interface{}{
		"card_id": request.GetString("card_id", ""),
		"source":  engine.Source{Kind: engine.PileColumn, Index: column},
	}
	var result service.ActionResult
	if err := c.apiCall(ctx, http.MethodPost, sessionPath(id, "/auto-foundation"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

func (c *Client) handleDrawCards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.simpleAction(ctx, request, "/draw", nil)
}

func (c *Client) handleUndo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.simpleAction(ctx, request, "/undo", nil)
}

func (c *Client) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	_, reveal := args["reveal_all_cards"]
	_, anyCard := args["allow_any_card_to_empty_column"]

	var body interface{}
	if reveal || anyCard {
		body = map[string]interface{}{
			"settings": engine.Settings{
				RevealAllCards:            request.GetBool("reveal_all_cards", false),
				AllowAnyCardToEmptyColumn: request.GetBool("allow_any_card_to_empty_column", false),
			},
		}
	}
	return c.simpleAction(ctx, request, "/new-game", body)
}

func (c *Client) handleAdvance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.simpleAction(ctx, request, "/advance", map[string]int{"steps": request.GetInt("steps", 0)})
}

func (c *Client) simpleAction(ctx context.Context, request mcp.CallToolRequest, path string, body interface{}) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.ActionResult
	if err := c.apiCall(ctx, http.MethodPost, sessionPath(id, path), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []*service.ConfigInfo
	if err := c.apiCall(ctx, http.MethodGet, "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available configurations:\n")
	for _, cfg := range configs {
		fmt.Fprintf(&b, "- %s (%s): %s [reveal_all_cards=%t allow_any_card_to_empty_column=%t]\n",
			cfg.ConfigID, cfg.Name, cfg.Description,
			cfg.Settings.RevealAllCards, cfg.Settings.AllowAnyCardToEmptyColumn)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `EGYPTIAN SPIDER SOLITAIRE

SETUP
Two shuffled 52-card decks (104 cards). 25 cards are dealt into nine columns
in a pyramid: 1, 2, 3, 4, 5, 4, 3, 2, 1 cards. Only the top card of each column
is face up unless the game uses reveal_all_cards. The other 79 cards form the stock.

GOAL
Build all eight foundations from ace to king, one suit per foundation.

MOVES
- Column to column: pick up a face-up card together with every card above it.
  The run must descend by one with alternating colors (e.g. 9♠ 8♥ 7♣).
  It may go onto a column whose top card is one rank higher and of the other
  color. An empty column takes only a run starting with a king, unless
  allow_any_card_to_empty_column is set.
- Column to foundation: a single card. Aces start an empty foundation; after
  that the next rank of the same suit.
- Foundation to column: the top foundation card may come back to a column
  under the same column rules.
- When a face-down card becomes the top of a column it turns face up.

DRAW
draw_cards deals one face-up card onto every column that is not a complete
king-to-ace run. An empty column counts as unfinished. The stock never refills.

UNDO
undo reverts the last move or draw. Only the last 5 are kept.

AUTO-COMPLETE
When the stock is empty and every column is either empty or a single face-up
run from a king down, the game finishes itself by moving cards to the foundations. Commands are refused
while cards are being dealt or auto-completed; use advance to finish those
steps immediately.

READING game_state
Columns are listed bottom to top; the last card listed is the top card.
"##" is a face-down card. Card indexes in move_card count from 0 at the
bottom of the column. Foundations show their top card and card count.

STRATEGY
- Use legal_moves to see every accepted move.
- Reveal face-down cards early; empty columns are valuable.
- Draw only when no productive move is left.`

// Formatting helpers

func summary(view *engine.View) string {
	moves := 0
	if view.State != nil {
		moves = view.State.Moves
	}
	status := string(view.Phase)
	if view.IsWon {
		status = "won"
	}
	return fmt.Sprintf("%s, moves=%d, foundations=%d/104, stock=%d", status, moves, view.FoundationCount, view.StockCount)
}

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatView(&session.View))
}

func formatView(view *engine.View) string {
	if view == nil || view.State == nil {
		return "No game state available"
	}
	state := view.State

	var b strings.Builder
	fmt.Fprintf(&b, "Phase: %s | Moves: %d | Stock: %d | Foundations: %d/104 | Undo: %t\n\n",
		view.Phase, state.Moves, view.StockCount, view.FoundationCount, view.CanUndo)

	b.WriteString("Foundations:\n")
	for i, f := range state.Foundations {
		if len(f) == 0 {
			fmt.Fprintf(&b, "  F%d: --\n", i)
			continue
		}
		fmt.Fprintf(&b, "  F%d: %s (%d)\n", i, f[len(f)-1].String(), len(f))
	}

	b.WriteString("\nColumns (bottom -> top):\n")
	for i, col := range state.Columns {
		labels := make([]string, len(col))
		for j, card := range col {
			labels[j] = card.Label()
		}
		if len(labels) == 0 {
			labels = append(labels, "(empty)")
		}
		fmt.Fprintf(&b, "  C%d: %s\n", i, strings.Join(labels, " "))
	}

	switch {
	case view.IsWon:
		b.WriteString("\nVICTORY! Every card is on the foundations.")
	case view.IsDealing:
		b.WriteString("\nCards are being dealt; use advance or wait.")
	case view.IsAutoCompleting:
		b.WriteString("\nAuto-completing; use advance or wait.")
	}
	return b.String()
}

func formatActionResult(result *service.ActionResult) string {
	status := "OK"
	if !result.Accepted {
		status = "REJECTED"
	}
	return fmt.Sprintf("[%s] %s: %s\n\n%s", status, result.Action, result.Message, formatView(&result.View))
}

func formatMoves(moves []engine.Move) string {
	if len(moves) == 0 {
		return "No legal moves. Try draw_cards or undo."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d legal moves:\n", len(moves))
	for _, m := range moves {
		b.WriteString("- " + describeMove(m) + "\n")
	}
	return b.String()
}

func describeMove(m engine.Move) string {
	from := fmt.Sprintf("%s %d", m.Source.Kind, m.Source.Index)
	if m.Source.CardIndex != nil {
		from += fmt.Sprintf(" from card %d", *m.Source.CardIndex)
	}
	return fmt.Sprintf("%s -> %s %d (%d cards)", from, m.Target.Kind, m.Target.Index, m.Cards)
}
