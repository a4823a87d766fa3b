// Package api exposes the game service over REST.
//
// Sessions:
//   - POST   /api/sessions              create ({"config_id": "classic"}; empty uses the default)
//   - GET    /api/sessions              list (?sort=created|accessed&order=asc|desc&limit=n)
//   - GET    /api/sessions/{id}         session info with the current view
//   - DELETE /api/sessions/{id}         delete
//
// Game:
//   - GET  /api/sessions/{id}/state            current view
//   - GET  /api/sessions/{id}/moves            legal moves while ready
//   - POST /api/sessions/{id}/new-game         {"settings": {...}} optional
//   - POST /api/sessions/{id}/move             {"source": {...}, "target": {...}}
//   - POST /api/sessions/{id}/draw
//   - POST /api/sessions/{id}/auto-foundation  {"card_id": "...", "source": {...}}
//   - POST /api/sessions/{id}/undo
//   - POST /api/sessions/{id}/advance          {"steps": n}; 0 drains pending steps
//
// Configs:
//   - GET  /api/configs, GET /api/configs/{name}
//   - POST /api/configs (?format=yaml to store YAML)
//
// Commands answer 200 with {"accepted": bool, "action", "message", "view"}; a
// rule rejection is accepted=false, not an HTTP error. Unknown sessions and
// configs are 404, invalid input 400. Errors are {"error": "message"}.
//
// GET /ws?session=<id> upgrades to the live view stream of transport/websocket.
package api
