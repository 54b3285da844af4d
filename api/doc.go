// Package api provides the HTTP REST API for Maze Runner.
//
// Endpoints:
//
// Mazes:
//   - POST /api/mazes - Generate a standalone maze {rows, columns, seed?}
//
// Session Management:
//   - POST /api/sessions - Create new session {config_id?, seed?}
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current game state
//   - GET /api/sessions/{id}/scene - Wall geometry on the configured canvas
//   - GET /api/sessions/{id}/solution - Route from the player to the goal
//   - POST /api/sessions/{id}/move - {direction, reset?}
//   - POST /api/sessions/{id}/bulk-move - {moves: [...], reset?}
//   - POST /api/sessions/{id}/reset - Back to the start of the same maze
//   - POST /api/sessions/{id}/regenerate - New maze {seed?}
//   - GET /api/sessions/{id}/history - Paginated move history (?page&limit&order)
//
// Configuration:
//   - GET /api/configs - List presets
//   - GET /api/configs/{name} - Get a preset
//   - POST /api/configs - Save a preset
//
// Live updates are served on /ws?session=<id>.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	server := api.NewServer(gameService, hub)
//	http.ListenAndServe(":8080", server)
//
// Errors are returned as JSON with a status derived from the service error:
// unknown sessions and configs give 404, invalid configs and dimensions 400.
//
//	{"error": "session not found: id: ab12"}
//
// Move (POST /api/sessions/{id}/move) responses carry:
//   - step: { idx, dir, from{x,y}, to{x,y}, success, victory? }
//   - attempted_to: { x, y, reason } when the move did not happen
//
// Bulk move (POST /api/sessions/{id}/bulk-move) responses carry:
//   - requested_moves, moves_executed
//   - stopped_reason (text), stop_reason_code, stopped_on_move (1-based), truncated, limit
//   - steps, attempted_to, start_pos, end_pos
//   - possible_moves, distance_to_goal, game_over_code
package api
