// Package websocket pushes live game views to browsers.
//
// A central Hub owns every connection. Clients subscribe to one session with
// GET /ws?session=<id>; the current view is sent on connect and every engine
// change afterwards, each dealt card included, as
//
//	{"session_id": "ab12", "event": "state_update", "view": {...}}
//
// Hub.BroadcastView matches the session manager's change listener, so the
// server wires them together with
//
//	hub := websocket.NewHub(logger)
//	go hub.Run()
//	sessions.OnChange(hub.BroadcastView)
//
// Registration, removal and fan-out all run on the Run goroutine. A client
// whose buffer fills up is dropped.
package websocket
