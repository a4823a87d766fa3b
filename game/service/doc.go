// Package service is the facade every transport talks to.
//
// GameService resolves a session, forwards the command to its engine and
// wraps the outcome in an ActionResult. Unknown sessions and configs are
// errors (ErrSessionNotFound, ErrConfigNotFound); a command the rules reject
// is not an error and comes back with Accepted set to false.
//
// SessionManager and ConfigManager are implemented by game/session and
// game/config:
//
//	configs, _ := config.NewManager("configs")
//	sessions := session.NewManager(session.WithConfigs(configs))
//	svc := service.NewGameService(sessions, configs, logger)
//
//	info, _ := svc.CreateSession(ctx, "classic")
//	res, _ := svc.DrawCards(ctx, info.ID)
package service
