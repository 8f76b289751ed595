package ipcserver

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/goxlr-daemon/goxlrd/internal/device"
	"github.com/goxlr-daemon/goxlrd/internal/ipc"
	"github.com/goxlr-daemon/goxlrd/internal/ipcclient"
)

type fakeSupervisor struct {
	status ipc.AggregatedStatus
}

func (f *fakeSupervisor) Submit(ctx context.Context, serial string, op func(context.Context, *device.Actor) (any, error)) (any, error) {
	return nil, nil
}

func (f *fakeSupervisor) Status() ipc.AggregatedStatus {
	return f.status
}

func startTestServer(t *testing.T) (string, func()) {
	t.Helper()
	socketPath := filepath.Join(t.TempDir(), "goxlr.socket")
	dispatcher := ipc.NewDispatcher(&fakeSupervisor{status: ipc.AggregatedStatus{Devices: map[string]device.Status{}}})
	srv := New(socketPath, dispatcher)

	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan struct{})
	go func() {
		close(ready)
		srv.ListenAndServe(ctx)
	}()
	<-ready
	time.Sleep(50 * time.Millisecond) // allow the listener to bind

	return socketPath, cancel
}

func TestSocketClientPing(t *testing.T) {
	socketPath, stop := startTestServer(t)
	defer stop()

	client := ipcclient.NewSocketClient(socketPath)
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestSocketClientGetStatus(t *testing.T) {
	socketPath, stop := startTestServer(t)
	defer stop()

	client := ipcclient.NewSocketClient(socketPath)
	status, err := client.GetStatus(context.Background())
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if status.Devices == nil {
		t.Fatal("expected a non-nil (possibly empty) Devices map")
	}
}

func TestSocketClientSequentialCalls(t *testing.T) {
	socketPath, stop := startTestServer(t)
	defer stop()

	client := ipcclient.NewSocketClient(socketPath)
	for i := 0; i < 3; i++ {
		if err := client.Ping(context.Background()); err != nil {
			t.Fatalf("Ping call %d: %v", i, err)
		}
	}
}
