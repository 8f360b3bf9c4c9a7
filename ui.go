// ui.go
package main

import (
	"context"
	"fmt"

	"github.com/jroimartin/gocui"

	"tcpchat/internal/client"
)

// ChatUI renders the session history above a one-line input field and feeds
// submitted lines to the commander. Messages arriving from the transport are
// appended through gocui.Update, which keeps all view mutation on the UI
// loop.
type ChatUI struct {
	gui       *gocui.Gui
	session   *client.Session
	commander *client.Commander
	transport *client.Transport
	msgView   string
	inputView string
}

func NewChatUI(session *client.Session, commander *client.Commander, transport *client.Transport) (*ChatUI, error) {
	g, err := gocui.NewGui(gocui.Output256)
	if err != nil {
		return nil, err
	}
	g.Cursor = true

	ui := &ChatUI{
		gui:       g,
		session:   session,
		commander: commander,
		transport: transport,
		msgView:   "messages",
		inputView: "input",
	}
	g.SetManagerFunc(ui.layout)
	return ui, nil
}

func (ui *ChatUI) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	inputTop := maxY - 3

	if v, err := g.SetView(ui.msgView, 0, 0, maxX-1, inputTop-1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Messages"
		v.Wrap = true
		v.Autoscroll = true
	}

	if v, err := g.SetView(ui.inputView, 0, inputTop, maxX-1, maxY-1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Input"
		v.Editable = true
		v.Wrap = true

		if _, err := g.SetCurrentView(ui.inputView); err != nil {
			return err
		}
	}

	return nil
}

func (ui *ChatUI) keybindings() error {
	if err := ui.gui.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone,
		func(g *gocui.Gui, _ *gocui.View) error {
			return gocui.ErrQuit
		}); err != nil {
		return err
	}

	return ui.gui.SetKeybinding(ui.inputView, gocui.KeyEnter, gocui.ModNone, ui.handleInput)
}

func (ui *ChatUI) handleInput(_ *gocui.Gui, v *gocui.View) error {
	input := v.Buffer()
	v.Clear()
	v.SetCursor(0, 0)

	ui.commander.Submit(input)
	ui.redraw()
	return nil
}

// redraw rewrites the messages view from the session history. History is
// append-only and small enough for an interactive session that a full
// rewrite keeps the rendering trivially consistent.
func (ui *ChatUI) redraw() {
	ui.gui.Update(func(g *gocui.Gui) error {
		v, err := g.View(ui.msgView)
		if err != nil {
			return err
		}
		v.Clear()
		for _, msg := range ui.session.History() {
			line := fmt.Sprintf("%s %s: %s",
				msg.Timestamp.Local().Format("15:04:05"), msg.Sender, msg.Content)
			fmt.Fprintln(v, msg.Color.Paint(line))
		}
		return nil
	})
}

// watch bridges the transport into the UI: inbound messages append to the
// history, a severed connection or an interrupt stops the main loop.
func (ui *ChatUI) watch(ctx context.Context) {
	for {
		select {
		case msg := <-ui.transport.Inbound:
			if ui.session.Receive(msg) {
				ui.redraw()
			}
		case <-ui.transport.Done():
			ui.quit()
			return
		case <-ctx.Done():
			ui.quit()
			return
		}
	}
}

func (ui *ChatUI) quit() {
	ui.gui.Update(func(*gocui.Gui) error {
		return gocui.ErrQuit
	})
}

func (ui *ChatUI) Run(ctx context.Context) error {
	if err := ui.keybindings(); err != nil {
		return err
	}
	go ui.watch(ctx)
	ui.redraw()

	if err := ui.gui.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

// Close restores the terminal to its normal mode.
func (ui *ChatUI) Close() {
	ui.gui.Close()
}
