// main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"tcpchat/internal/client"
	"tcpchat/internal/config"
	"tcpchat/internal/protocol"
	"tcpchat/internal/server"
)

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{})
	logrus.SetLevel(logrus.InfoLevel)
	logrus.SetOutput(os.Stdout)
}

type options struct {
	serverMode bool
	address    string
	port       string
	username   string
	room       string
	configPath string
}

func parseFlags() options {
	var opts options
	flag.BoolVar(&opts.serverMode, "s", false, "run in server mode")
	flag.BoolVar(&opts.serverMode, "server", false, "run in server mode")
	flag.StringVar(&opts.address, "a", "", "address to connect to")
	flag.StringVar(&opts.address, "address", "", "address to connect to")
	flag.StringVar(&opts.port, "p", "", "port to connect to or listen on")
	flag.StringVar(&opts.port, "port", "", "port to connect to or listen on")
	flag.StringVar(&opts.username, "u", "", "username to be identified with")
	flag.StringVar(&opts.username, "username", "", "username to be identified with")
	flag.StringVar(&opts.room, "r", "", "room to join")
	flag.StringVar(&opts.room, "room", "", "room to join")
	flag.StringVar(&opts.configPath, "c", "", "path to a settings file")
	flag.StringVar(&opts.configPath, "config", "", "path to a settings file")
	flag.Parse()
	return opts
}

// resolve merges flag values over the settings file over the defaults.
func resolve(opts options) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if opts.address != "" {
		cfg.Address = opts.address
	}
	if opts.port != "" {
		cfg.Port = opts.port
	}
	if opts.username != "" {
		cfg.Username = opts.username
	}
	if opts.room != "" {
		cfg.Room = opts.room
	}
	return cfg, nil
}

func main() {
	opts := parseFlags()

	cfg, err := resolve(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if opts.serverMode {
		fmt.Printf("Starting server on port %s...\n", cfg.Port)
		if err := server.New(logrus.StandardLogger()).Start(cfg.Port); err != nil {
			logrus.Fatal(err)
		}
		return
	}

	if err := runClient(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runClient(cfg config.Config) error {
	if cfg.Username == "" {
		fmt.Fprintln(os.Stderr, "Must enter username <-u username>")
		os.Exit(2)
	}
	localColor, err := protocol.ParseColor(cfg.LocalColor)
	if err != nil {
		return err
	}
	remoteColor, err := protocol.ParseColor(cfg.RemoteColor)
	if err != nil {
		return err
	}

	// The terminal belongs to the UI; client logs go to a file instead.
	logFile, err := os.OpenFile("tcpchat.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err == nil {
		defer logFile.Close()
		logrus.SetOutput(logFile)
	}

	// Interrupt cancels this context; the transport and the UI each observe
	// it and clean up their own resources before the process exits.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	addr := net.JoinHostPort(cfg.Address, cfg.Port)
	transport, err := client.Dial(ctx, addr, protocol.JoinRequest{
		Username: cfg.Username,
		Room:     cfg.Room,
	})
	if err != nil {
		return err
	}

	session := client.NewSession(cfg.Username, localColor, remoteColor)
	commander := client.NewCommander(session, transport)

	ui, err := NewChatUI(session, commander, transport)
	if err != nil {
		return err
	}
	runErr := ui.Run(ctx)
	ui.Close()
	if runErr != nil {
		return runErr
	}

	select {
	case <-transport.Done():
		if errors.Is(transport.Err(), client.ErrSevered) {
			fmt.Println("Connection with server was severed!")
		}
	default:
	}
	return nil
}
