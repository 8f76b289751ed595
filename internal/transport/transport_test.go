package transport

import (
	"context"
	"errors"
	"testing"

	"github.com/goxlr-daemon/goxlrd/internal/codec"
	"github.com/goxlr-daemon/goxlrd/internal/xerrors"
)

// fakeBackend is an in-memory Backend that echoes whatever command index it
// receives, optionally injecting a mismatch or a Pipe error on demand.
type fakeBackend struct {
	class DeviceClass

	lastWrite        []byte
	forceMismatchFor int // if > 0, the Nth sendOnce (1-indexed) responds with a wrong index, once
	pipesBeforeData  int // number of ErrPipe responses to return before real data

	writes int
	reads  int
	closed bool
}

func (f *fakeBackend) WriteVendorControl(request uint8, value, index uint16, data []byte) error {
	f.writes++
	f.lastWrite = append([]byte(nil), data...)
	return nil
}

func (f *fakeBackend) WriteClassControl(request uint8, value, index uint16, data []byte) error {
	return nil
}

func (f *fakeBackend) ReadVendorControl(request uint8, value, index uint16, length int) ([]byte, error) {
	f.reads++
	if f.pipesBeforeData > 0 {
		f.pipesBeforeData--
		return nil, xerrors.ErrPipe
	}
	if len(f.lastWrite) < codec.HeaderSize {
		return nil, xerrors.ErrPipe
	}
	hdr, body, err := codec.DecodeHeader(f.lastWrite)
	if err != nil {
		return nil, err
	}
	echoIndex := hdr.CommandIndex
	if f.forceMismatchFor == f.writes {
		echoIndex++
	}
	respHeader := codec.Header{CommandID: hdr.CommandID, BodyLen: uint16(len(body)), CommandIndex: echoIndex}
	return respHeader.Encode(body), nil
}

func (f *fakeBackend) ClaimInterface(int) error   { return nil }
func (f *fakeBackend) ReleaseInterface(int) error { return nil }
func (f *fakeBackend) ResetDevice() error         { return nil }
func (f *fakeBackend) DeviceClass() DeviceClass   { return f.class }
func (f *fakeBackend) Close() error               { f.closed = true; return nil }

func TestSendRoundTripsBody(t *testing.T) {
	backend := &fakeBackend{}
	tr := New(backend)

	got, err := tr.Send(context.Background(), codec.CommandID(codec.OpChannelVolume, 0), []byte{0x42})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != 0x42 {
		t.Errorf("Send() body = %v, want [0x42]", got)
	}
}

func TestSendResyncsOnceThenSucceeds(t *testing.T) {
	backend := &fakeBackend{forceMismatchFor: 1}
	tr := New(backend)

	_, err := tr.Send(context.Background(), codec.CommandID(codec.OpChannelVolume, 0), []byte{0x01})
	if err != nil {
		t.Fatalf("expected resync to recover, got %v", err)
	}
}

func TestSendFailsWithSyncLostOnSecondMismatch(t *testing.T) {
	// A backend that always echoes the wrong command index simulates
	// persistent desync: the resync retry can never succeed either.
	always := &alwaysMismatchBackend{}
	tr := New(always)

	_, err := tr.Send(context.Background(), codec.CommandID(codec.OpChannelVolume, 0), []byte{0x01})
	if !errors.Is(err, xerrors.ErrSyncLost) {
		t.Fatalf("err = %v, want ErrSyncLost", err)
	}
	if !xerrors.IsFatal(err) {
		t.Error("persistent desync must be reported as Fatal")
	}
}

type alwaysMismatchBackend struct {
	fakeBackend
}

func (a *alwaysMismatchBackend) ReadVendorControl(request uint8, value, index uint16, length int) ([]byte, error) {
	a.reads++
	hdr, body, err := codec.DecodeHeader(a.lastWrite)
	if err != nil {
		return nil, err
	}
	respHeader := codec.Header{CommandID: hdr.CommandID, BodyLen: uint16(len(body)), CommandIndex: hdr.CommandIndex + 1}
	return respHeader.Encode(body), nil
}

func TestSendTimesOutAfterExhaustingRetries(t *testing.T) {
	backend := &fakeBackend{pipesBeforeData: maxReadRetries}
	tr := New(backend)

	_, err := tr.Send(context.Background(), codec.CommandID(codec.OpChannelVolume, 0), []byte{0x01})
	if !errors.Is(err, xerrors.ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}

func TestInitializePerformsBringUpOnPipe(t *testing.T) {
	backend := &bringUpBackend{}
	tr := New(backend)

	if err := tr.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !backend.claimed || !backend.released || !backend.reset {
		t.Errorf("bring-up steps = claimed:%v released:%v reset:%v, want all true",
			backend.claimed, backend.released, backend.reset)
	}
	if backend.resetCalls != 2 {
		t.Errorf("reset vendor control calls = %d, want 2 (initial Pipe + post bring-up)", backend.resetCalls)
	}
}

// bringUpBackend fails the first vendor reset with Pipe, then requires the
// full first-time bring-up sequence before accepting a second reset.
type bringUpBackend struct {
	resetCalls        int
	claimed, released bool
	reset             bool
}

func (b *bringUpBackend) WriteVendorControl(request uint8, value, index uint16, data []byte) error {
	if request == 1 {
		b.resetCalls++
		if b.resetCalls == 1 {
			return xerrors.ErrPipe
		}
		return nil
	}
	return nil
}

func (b *bringUpBackend) WriteClassControl(request uint8, value, index uint16, data []byte) error {
	return nil
}

func (b *bringUpBackend) ReadVendorControl(request uint8, value, index uint16, length int) ([]byte, error) {
	return make([]byte, length), nil
}

func (b *bringUpBackend) ClaimInterface(int) error   { b.claimed = true; return nil }
func (b *bringUpBackend) ReleaseInterface(int) error { b.released = true; return nil }
func (b *bringUpBackend) ResetDevice() error         { b.reset = true; return nil }
func (b *bringUpBackend) DeviceClass() DeviceClass   { return ClassFull }
func (b *bringUpBackend) Close() error               { return nil }
