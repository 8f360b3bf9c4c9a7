// Package server implements the relay: an accept loop, a per-connection
// handler for each accepted socket, and the room registry that fans chat
// messages out between them.
package server

import (
	"fmt"
	"net"

	"github.com/sirupsen/logrus"
)

// Banner is printed when the relay starts listening.
const Banner = `tcpchat relay
Clients join a room with their first frame and chat from there.
Press Ctrl-C to stop.`

// Server accepts connections and hands each one to its own Handler. It
// holds no per-message logic; chat semantics live in the Registry.
type Server struct {
	registry *Registry
	log      *logrus.Logger
}

func New(log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{
		registry: NewRegistry(log),
		log:      log,
	}
}

// Registry exposes the room registry, mainly for tests.
func (s *Server) Registry() *Registry { return s.registry }

// Start binds the port and serves until the listener fails.
func (s *Server) Start(port string) error {
	listener, err := net.Listen("tcp", net.JoinHostPort("", port))
	if err != nil {
		return fmt.Errorf("server: listen on port %s: %w", port, err)
	}
	fmt.Println(Banner)
	s.log.WithField("addr", listener.Addr().String()).Info("listening")
	return s.Serve(listener)
}

// Serve runs the accept loop on an existing listener. Handlers run
// independently, so the loop stays responsive while connections are active.
func (s *Server) Serve(listener net.Listener) error {
	for {
		conn, err := listener.Accept()
		if err != nil {
			return fmt.Errorf("server: accept: %w", err)
		}
		s.log.WithField("conn", conn.RemoteAddr().String()).Info("client connected")
		go NewHandler(conn, s.registry, s.log).Run()
	}
}
