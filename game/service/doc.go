// Package service is the game layer shared by the REST API, the websocket
// feed and the MCP tools.
//
//	sessions := session.NewManager()
//	configs, _ := config.NewManager("configs")
//	svc := service.NewGameService(sessions, configs)
//
//	info, _ := svc.CreateSession(ctx, "easy", &seed)
//	res, _ := svc.BulkMove(ctx, info.ID, []string{"right", "down"}, false)
//
// Every session owns an engine over its own maze. Calls are serialized by
// the service, and each mutating call saves the session afterwards.
//
// BulkMove stops at the first refused move and says why in
// stop_reason_code: blocked_wall, blocked_boundary, invalid_direction,
// game_over or victory.
package service
