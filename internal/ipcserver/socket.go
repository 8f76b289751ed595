// Package ipcserver exposes the §6 IPC contract over a unix-domain
// socket, the local-socket half of the CLI's two-transport collaborator
// (internal/api mounts the HTTP half). Framing is one JSON value per
// line, read with a buffered scanner and written with a trailing
// newline — the same newline-delimited request/response shape a plain
// TCP/unix control socket uses elsewhere in the corpus, generalised
// from single-line commands to single-line JSON envelopes.
package ipcserver

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"os"
	"sync"

	"github.com/goxlr-daemon/goxlrd/internal/ipc"
)

// maxLineSize bounds one request/response line; a GoXLRCommand envelope
// is always small, but a corrupt or hostile client shouldn't be able to
// force an unbounded buffer grow.
const maxLineSize = 1 << 20

// Server accepts connections on a unix-domain socket and answers each
// line with the Dispatcher's Response, one request at a time per
// connection (the daemon itself serialises concurrent callers further
// down, at the Device Actor).
type Server struct {
	path       string
	dispatcher *ipc.Dispatcher
}

// New returns a Server that will listen at path.
func New(path string, dispatcher *ipc.Dispatcher) *Server {
	return &Server{path: path, dispatcher: dispatcher}
}

// ListenAndServe binds the socket and serves connections until ctx is
// cancelled. The socket file is removed both before binding (clearing a
// stale file from an unclean shutdown) and after the listener closes.
func (s *Server) ListenAndServe(ctx context.Context) error {
	_ = os.Remove(s.path)

	ln, err := net.Listen("unix", s.path)
	if err != nil {
		return err
	}
	defer os.Remove(s.path)

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	var wg sync.WaitGroup
	defer wg.Wait()

	slog.Info("ipcserver: listening", "path", s.path)
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handleConn(ctx, conn)
		}()
	}
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 4096), maxLineSize)
	enc := json.NewEncoder(conn)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req ipc.Request
		if err := json.Unmarshal(line, &req); err != nil {
			if encErr := enc.Encode(ipc.ErrResponse("malformed request: " + err.Error())); encErr != nil {
				return
			}
			continue
		}

		resp := s.dispatcher.Handle(ctx, req)
		if err := enc.Encode(resp); err != nil {
			return
		}
	}
}
