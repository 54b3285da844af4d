// Package mcp exposes Maze Runner to AI agents over the Model Context Protocol.
//
// The Client registers a set of tools on an mcp-go server and proxies each
// call to the REST API, so agents and HTTP clients share the same sessions.
//
// MCP Tools:
//   - generate_maze: standalone maze with drawing and statistics
//   - create_session, get_session, list_sessions
//   - game_state: position, goal, possible moves and an ASCII drawing
//   - describe_cell: open, wall or boundary on each side of a cell
//   - move, bulk_move: movement with an optional reset first
//   - reset_game, regenerate_maze
//   - solution_hint: the unique route to the goal, optionally truncated
//   - move_history: paginated history plus the current segment
//   - list_configs, game_instructions
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
// The HTTP server also mounts the same tools at /mcp.
package mcp
