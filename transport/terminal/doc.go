// Package terminal plays Maze Runner in a terminal using tcell.
//
// Draw renders a game state with solid blocks for walls, @ for the player and
// G for the goal. Run owns the event loop for a local game:
//
//	screen, _ := tcell.NewScreen()
//	screen.Init()
//	defer screen.Fini()
//	terminal.Run(screen, eng)
//
// Keys: arrows, wasd or hjkl move; r resets; n draws a new maze; q, Esc or
// Ctrl-C quit.
package terminal
