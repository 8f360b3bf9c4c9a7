package client

import (
	"strings"

	"tcpchat/internal/protocol"
)

// Sender is the outbound half of the transport the commander needs. Tests
// substitute a recording fake.
type Sender interface {
	Send(msg protocol.ChatMessage) bool
	JoinRoom(username, room string) bool
}

type commandFunc func(c *Commander, args []string)

// Commander interprets user input: lines starting with "/" run locally and
// never reach the wire; anything else becomes an outbound chat message plus
// an immediate local echo.
type Commander struct {
	session  *Session
	sender   Sender
	commands map[string]commandFunc
}

func NewCommander(session *Session, sender Sender) *Commander {
	c := &Commander{session: session, sender: sender}
	c.registerCommands()
	return c
}

func (c *Commander) registerCommands() {
	c.commands = map[string]commandFunc{
		"rename": cmdRename,
		"nick":   cmdRename,
		"info": func(c *Commander, args []string) {
			c.session.Info(c.session.Username())
		},
		"local-color": func(c *Commander, args []string) {
			c.setColor(args, "/local-color", c.session.SetLocalColor)
		},
		"remote-color": func(c *Commander, args []string) {
			c.setColor(args, "/remote-color", c.session.SetRemoteColor)
		},
		"join": cmdJoin,
		"help": cmdHelp,
	}
}

// Submit handles one submitted input line.
func (c *Commander) Submit(input string) {
	input = strings.TrimSpace(input)
	if input == "" {
		return
	}
	if strings.HasPrefix(input, "/") {
		fields := strings.Fields(input[1:])
		if len(fields) == 0 {
			c.session.Error("Unknown command. Try /help")
			return
		}
		handler, ok := c.commands[fields[0]]
		if !ok {
			c.session.Error("Unknown command. Try /help")
			return
		}
		handler(c, fields[1:])
		return
	}
	c.sender.Send(c.session.Compose(input))
}

func cmdRename(c *Commander, args []string) {
	if len(args) != 1 {
		c.session.Error("Incorrect usage of command! /rename <name>")
		return
	}
	c.session.Rename(args[0])
	c.session.Info("Changed name to: " + args[0])
}

func (c *Commander) setColor(args []string, usage string, set func(protocol.Color)) {
	if len(args) != 1 {
		c.session.Error("Incorrect usage of command! " + usage + " <color>")
		return
	}
	color, err := protocol.ParseColor(args[0])
	if err != nil {
		c.session.Error("No such color. Try /help colors")
		return
	}
	set(color)
	c.session.appendColored("Changed color to "+args[0], color)
}

func cmdJoin(c *Commander, args []string) {
	if len(args) != 1 {
		c.session.Error("Incorrect usage of command! /join <room>")
		return
	}
	c.sender.JoinRoom(c.session.Username(), args[0])
	c.session.Info("Joined room: " + args[0])
}

func cmdHelp(c *Commander, args []string) {
	if len(args) == 1 && (args[0] == "colors" || args[0] == "color") {
		c.session.Info("Colors: " + strings.Join(protocol.ColorNames(), ", "))
		return
	}
	c.session.Info(`Commands:
/rename <name>        - Change your name (also /nick)
/info                 - Show your current name
/local-color <color>  - Color for your own messages
/remote-color <color> - Color peers use for your messages
/join <room>          - Move to another room
/help [colors]        - This help, or the color list`)
}
