package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	log "github.com/sirupsen/logrus"

	"github.com/wricardo/mcp-training/mazerunner/game/engine"
	"github.com/wricardo/mcp-training/mazerunner/game/service"
)

var directionNames = []string{"up", "down", "left", "right"}

const serverInstructions = `Maze Runner - MCP Interface

Every call is forwarded to the Maze Runner REST API.

GAME OBJECTIVE:
Walk from the top-left cell of a perfect maze to the goal in the bottom-right cell.
Every pair of cells is joined by exactly one path, so there are no loops and no sealed rooms.

Start with create_session, look around with game_state or describe_cell, then move.
The 'intent' parameter on move and bulk_move is logged by the server; say what you are trying to do.
Call game_instructions for the full rules.`

func sessionArg() mcp.ToolOption {
	return mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID"))
}

func seedArgOption(description string) mcp.ToolOption {
	return mcp.WithNumber("seed", mcp.Min(0), mcp.Description(description))
}

func intentArg(what string) mcp.ToolOption {
	return mcp.WithString("intent", mcp.Description("Why you are making "+what+"; it is logged with the session"))
}

func resetArg() mcp.ToolOption {
	return mcp.WithBoolean("reset", mcp.Description("Reset the session before moving"))
}

func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.NewTool("generate_maze",
		mcp.WithDescription("Generate a standalone perfect maze and return its drawing, wall tables and statistics"),
		mcp.WithNumber("rows", mcp.Required(), mcp.Min(engine.MinGridSize), mcp.Max(engine.MaxGridSize), mcp.Description("Number of rows")),
		mcp.WithNumber("columns", mcp.Required(), mcp.Min(engine.MinGridSize), mcp.Max(engine.MaxGridSize), mcp.Description("Number of columns")),
		seedArgOption("Seed for a reproducible maze (optional)"),
		mcp.WithReadOnlyHintAnnotation(true),
	), c.handleGenerateMaze)

	c.mcpServer.AddTool(mcp.NewTool("create_session",
		mcp.WithDescription("Create a new game session with optional config selection and seed"),
		mcp.WithString("config_id", mcp.Description("Config to use (optional, see list_configs)")),
		seedArgOption("Seed for a reproducible maze (optional)"),
	), c.handleCreateSession)

	c.mcpServer.AddTool(mcp.NewTool("list_sessions",
		mcp.WithDescription("List all active game sessions"),
		mcp.WithReadOnlyHintAnnotation(true),
	), c.handleListSessions)

	c.mcpServer.AddTool(mcp.NewTool("get_session",
		mcp.WithDescription("Get details of a specific session"),
		sessionArg(),
		mcp.WithReadOnlyHintAnnotation(true),
	), c.handleGetSession)

	c.mcpServer.AddTool(mcp.NewTool("game_state",
		mcp.WithDescription("Get the player's position, the goal, the open directions and a drawing of the maze"),
		sessionArg(),
		mcp.WithReadOnlyHintAnnotation(true),
	), c.handleGameState)

	c.mcpServer.AddTool(mcp.NewTool("describe_cell",
		mcp.WithDescription("List the open and closed sides of a single maze cell"),
		sessionArg(),
		mcp.WithNumber("x", mcp.Required(), mcp.Min(0), mcp.Description("Column of the cell, 0-based")),
		mcp.WithNumber("y", mcp.Required(), mcp.Min(0), mcp.Description("Row of the cell, 0-based")),
		mcp.WithReadOnlyHintAnnotation(true),
	), c.handleDescribeCell)

	c.mcpServer.AddTool(mcp.NewTool("move",
		mcp.WithDescription("Move the player one cell"),
		sessionArg(),
		mcp.WithString("direction", mcp.Required(), mcp.Enum(directionNames...), mcp.Description("Direction to move")),
		intentArg("this move"),
		resetArg(),
	), c.handleMove)

	c.mcpServer.AddTool(mcp.NewTool("bulk_move",
		mcp.WithDescription(fmt.Sprintf("Execute up to %d moves in sequence, stopping at the first blocked move", engine.MaxBulkMoves)),
		sessionArg(),
		mcp.WithArray("moves", mcp.Required(), mcp.Description("Directions, in order"),
			mcp.Items(map[string]any{"type": "string", "enum": directionNames})),
		intentArg("these moves"),
		resetArg(),
	), c.handleBulkMove)

	c.mcpServer.AddTool(mcp.NewTool("reset_game",
		mcp.WithDescription("Put the player back at the start of the same maze"),
		sessionArg(),
	), c.handleReset)

	c.mcpServer.AddTool(mcp.NewTool("regenerate_maze",
		mcp.WithDescription("Replace the session's maze with a newly generated one"),
		sessionArg(),
		seedArgOption("Seed for the new maze (optional, random when omitted)"),
		mcp.WithDestructiveHintAnnotation(true),
	), c.handleRegenerate)

	c.mcpServer.AddTool(mcp.NewTool("solution_hint",
		mcp.WithDescription("Get the route from the player's position to the goal"),
		sessionArg(),
		mcp.WithNumber("steps", mcp.Min(1), mcp.Description("Only reveal this many moves (optional)")),
		mcp.WithReadOnlyHintAnnotation(true),
	), c.handleSolutionHint)

	c.mcpServer.AddTool(mcp.NewTool("move_history",
		mcp.WithDescription("Get move history for a session"),
		sessionArg(),
		mcp.WithNumber("page", mcp.Min(1), mcp.Description("Page number")),
		mcp.WithNumber("limit", mcp.Min(1), mcp.Description("Items per page")),
		mcp.WithReadOnlyHintAnnotation(true),
	), c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.NewTool("list_configs",
		mcp.WithDescription("List available game configurations"),
		mcp.WithReadOnlyHintAnnotation(true),
	), c.handleListConfigs)

	c.mcpServer.AddTool(mcp.NewTool("game_instructions",
		mcp.WithDescription("Get comprehensive game instructions and rules"),
		mcp.WithReadOnlyHintAnnotation(true),
	), c.handleGameInstructions)
}

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

// optionalInt reports an integer argument and whether it was supplied
func optionalInt(request mcp.CallToolRequest, name string) (int, bool) {
	if _, ok := request.GetArguments()[name]; !ok {
		return 0, false
	}
	return request.GetInt(name, 0), true
}

// seedFrom reads the optional non-negative seed argument
func seedFrom(request mcp.CallToolRequest) (*uint64, error) {
	v, ok := request.GetArguments()["seed"].(float64)
	if !ok {
		return nil, nil
	}
	if v < 0 {
		return nil, errors.New("seed must not be negative")
	}
	seed := uint64(v)
	return &seed, nil
}

func logIntent(request mcp.CallToolRequest, sessionID string) {
	if intent := request.GetString("intent", ""); intent != "" {
		log.WithFields(log.Fields{"session": sessionID, "tool": request.Params.Name}).Debugf("intent: %s", intent)
	}
}

func (c *Client) handleGenerateMaze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	seed, err := seedFrom(request)
	if err != nil {
		return toolError(err)
	}

	body := service.GenerateMazeRequest{
		Rows:    request.GetInt("rows", 0),
		Columns: request.GetInt("columns", 0),
		Seed:    seed,
	}
	var info service.MazeInfo
	if err := c.apiCall(ctx, "POST", "/api/mazes", body, &info); err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(formatMazeInfo(&info)), nil
}

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	seed, err := seedFrom(request)
	if err != nil {
		return toolError(err)
	}

	body := service.CreateSessionRequest{
		ConfigID: request.GetString("config_id", request.GetString("config_name", "")),
		Seed:     seed,
	}
	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return toolError(err)
	}

	text := fmt.Sprintf("Created session: %s\nConfig: %s\n", session.ID, session.ConfigName)
	if session.GameState != nil {
		text += fmt.Sprintf("Seed: %d\n\n%s", session.GameState.Seed, formatGameState(session.GameState))
	}
	return mcp.NewToolResultText(text), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var list service.SessionList
	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &list); err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(formatSessionList(&list)), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return toolError(err)
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

// fetchState loads the live state of a session
func (c *Client) fetchState(ctx context.Context, request mcp.CallToolRequest) (*engine.GameState, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return nil, err
	}
	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, err := c.fetchState(ctx, request)
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(formatGameState(state)), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	x, okX := optionalInt(request, "x")
	y, okY := optionalInt(request, "y")
	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required"), nil
	}

	state, err := c.fetchState(ctx, request)
	if err != nil {
		return toolError(err)
	}
	if state.Maze == nil {
		return mcp.NewToolResultError("session has no maze"), nil
	}

	cell := engine.Position{X: x, Y: y}.Cell()
	if !state.Maze.Contains(cell) {
		m := state.Maze
		return mcp.NewToolResultError(fmt.Sprintf("Coordinates (%d, %d) are out of bounds. Maze is %d columns by %d rows (x 0-%d, y 0-%d)",
			x, y, m.Columns, m.Rows, m.Columns-1, m.Rows-1)), nil
	}
	return mcp.NewToolResultText(describeCell(state, cell)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return toolError(err)
	}
	logIntent(request, sessionID)

	body := service.MoveRequest{
		Direction: request.GetString("direction", ""),
		Reset:     request.GetBool("reset", false),
	}
	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/move"), body, &result); err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return toolError(err)
	}
	logIntent(request, sessionID)

	body := service.BulkMoveRequest{
		Moves: request.GetStringSlice("moves", []string{}),
		Reset: request.GetBool("reset", false),
	}
	var result service.BulkMoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/bulk-move"), body, &result); err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(formatBulkMoveResult(sessionID, &result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return toolError(err)
	}

	var reply service.StateMessage
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &reply); err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(reply.Message + "\n\n" + formatGameState(reply.State)), nil
}

func (c *Client) handleRegenerate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return toolError(err)
	}
	seed, err := seedFrom(request)
	if err != nil {
		return toolError(err)
	}

	var reply service.StateMessage
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/regenerate"), service.RegenerateRequest{Seed: seed}, &reply); err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s (seed %d)\n\n%s", reply.Message, reply.Seed, formatGameState(reply.State))), nil
}

func (c *Client) handleSolutionHint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return toolError(err)
	}

	var solution service.SolutionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/solution"), nil, &solution); err != nil {
		return toolError(err)
	}

	steps, limited := optionalInt(request, "steps")
	return mcp.NewToolResultText(formatSolution(&solution, steps, limited)), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return toolError(err)
	}

	query := url.Values{}
	for _, name := range []string{"page", "limit"} {
		if v, ok := optionalInt(request, name); ok {
			query.Set(name, strconv.Itoa(v))
		}
	}
	path := sessionPath(sessionID, "/history")
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return toolError(err)
	}

	text := formatHistory(&history)
	// The live segment is a bonus; history alone is still useful
	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err == nil {
		text += "\n" + formatCurrentSegment(session.GameState)
	}
	return mcp.NewToolResultText(text), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(formatConfigs(configs)), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(gameInstructions), nil
}

var gameInstructions = strings.TrimSpace(`
Maze Runner - Complete Instructions

GAME OBJECTIVE:
Walk from the start in the top-left cell to the goal (G) in the bottom-right cell.

THE MAZE:
• The grid has rows and columns of cells with walls between neighbours
• The maze is perfect: every cell can be reached and there is exactly one path between any two cells
• The outer boundary is always closed

READING THE DRAWING:
• @ - your position
• G - the goal
• | and --- - walls; a gap means the passage is open
• Each cell is drawn three characters wide

COORDINATES:
• x is the column (0 at the left), y is the row (0 at the top)
• up decreases y, down increases y, left decreases x, right increases x

MOVEMENT COMMANDS:
- up, down, left, right - Single moves
- bulk_move - Up to ` + strconv.Itoa(engine.MaxBulkMoves) + ` moves at once; stops at the first move that hits a wall or the boundary
- reset - Go back to the start of the same maze

STRATEGIES:
- Check possible_moves in each response before planning
- describe_cell tells you which sides of a cell are open
- In a perfect maze, following one wall always reaches the goal
- Dead ends are common; back out to the last junction and try the next branch
- solution_hint reveals the route if you are stuck (use steps to see only a few moves)

VICTORY CONDITIONS:
- Reaching the goal ends the game
- Some configurations knock down every wall once you win
- Use reset_game to replay the same maze or regenerate_maze for a new one

SESSION MANAGEMENT:
- Multiple game sessions can run simultaneously
- Each session has a unique 8-character ID
- A seed reproduces the same maze in any session

Good luck finding the way out!`)
