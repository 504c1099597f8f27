// Package command provides the command registry, parser, and built-in command
// definitions for the wheel's command line.
package command

// Categories for organizing commands.
const (
	CategoryWheel   = "wheel"
	CategoryEntries = "entries"
	CategorySystem  = "system"
	CategoryAdmin   = "admin"
)

// Handler identifiers mapping commands to their handler functions.
const (
	HandlerSpin     = "spin"
	HandlerAdd      = "add"
	HandlerEdit     = "edit"
	HandlerRemove   = "remove"
	HandlerReset    = "reset"
	HandlerList     = "list"
	HandlerHelp     = "help"
	HandlerQuit     = "quit"
	HandlerLogin    = "login"
	HandlerLogout   = "logout"
	HandlerPreset   = "preset"
	HandlerDuration = "duration"
	HandlerClose    = "close"
)

// Command defines a user-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage shows the argument syntax, e.g. "edit <n> <text>".
	Usage string
	// Help is the short help text displayed to the user.
	Help string
	// Category groups the command (wheel, entries, system, admin).
	Category string
	// Handler maps to the handler function.
	Handler string
}

// BuiltinCommands returns all built-in commands.
func BuiltinCommands() []Command {
	return []Command{
		// Wheel commands
		{Name: "spin", Aliases: []string{"s", "go"}, Usage: "spin", Help: "Spin the wheel", Category: CategoryWheel, Handler: HandlerSpin},

		// Entry commands
		{Name: "add", Aliases: []string{"a", "+"}, Usage: "add <text>", Help: "Add an entry to the wheel", Category: CategoryEntries, Handler: HandlerAdd},
		{Name: "edit", Aliases: []string{"e", "rename"}, Usage: "edit <n> <text>", Help: "Replace the text of entry n", Category: CategoryEntries, Handler: HandlerEdit},
		{Name: "remove", Aliases: []string{"rm", "del", "-"}, Usage: "remove <n>", Help: "Remove entry n", Category: CategoryEntries, Handler: HandlerRemove},
		{Name: "reset", Aliases: nil, Usage: "reset", Help: "Restore the default entries", Category: CategoryEntries, Handler: HandlerReset},
		{Name: "list", Aliases: []string{"ls", "l"}, Usage: "list", Help: "List the entries", Category: CategoryEntries, Handler: HandlerList},

		// System commands
		{Name: "help", Aliases: []string{"?", "h"}, Usage: "help", Help: "Show how to play", Category: CategorySystem, Handler: HandlerHelp},
		{Name: "quit", Aliases: []string{"exit", "q"}, Usage: "quit", Help: "Leave the wheel", Category: CategorySystem, Handler: HandlerQuit},

		// Admin commands, only reachable from the admin dialog
		{Name: "login", Aliases: nil, Usage: "login [password]", Help: "Unlock admin settings", Category: CategoryAdmin, Handler: HandlerLogin},
		{Name: "logout", Aliases: nil, Usage: "logout", Help: "Lock admin settings and clear the preset winner", Category: CategoryAdmin, Handler: HandlerLogout},
		{Name: "preset", Aliases: []string{"win"}, Usage: "preset <n|none>", Help: "Force entry n to win, or none for random", Category: CategoryAdmin, Handler: HandlerPreset},
		{Name: "duration", Aliases: []string{"dur"}, Usage: "duration <seconds>", Help: "Set the spin duration (1-10s, 0.5 steps)", Category: CategoryAdmin, Handler: HandlerDuration},
		{Name: "close", Aliases: []string{"done"}, Usage: "close", Help: "Close the admin dialog", Category: CategoryAdmin, Handler: HandlerClose},
	}
}
