package zmqlink

import (
	"errors"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/pebbe/zmq4"

	"github.com/vortexcfd/fsi-simulations/pkg/solver"
)

// fakeShim answers one request per call to serve, mimicking the solver side
// of the link on an inproc transport.
type fakeShim struct {
	t      *testing.T
	socket *zmq4.Socket
}

func newFakeShim(t *testing.T, endpoint string) *fakeShim {
	t.Helper()
	socket, err := zmq4.NewSocket(zmq4.REP)
	if err != nil {
		t.Fatalf("Failed to create REP socket: %v", err)
	}
	if err := socket.Bind(endpoint); err != nil {
		t.Fatalf("Failed to bind %s: %v", endpoint, err)
	}
	t.Cleanup(func() { _ = socket.Close() })
	return &fakeShim{t: t, socket: socket}
}

func (s *fakeShim) serve(handler func(request) response) {
	go func() {
		raw, err := s.socket.RecvBytes(0)
		if err != nil {
			return
		}
		var req request
		if err := cbor.Unmarshal(raw, &req); err != nil {
			return
		}
		payload, err := cbor.Marshal(handler(req))
		if err != nil {
			return
		}
		_, _ = s.socket.SendBytes(payload, 0)
	}()
}

func TestDialHandshake(t *testing.T) {
	endpoint := "inproc://zmqlink-handshake"
	shim := newFakeShim(t, endpoint)

	shim.serve(func(req request) response {
		if req.Op != opHandshake {
			t.Errorf("Expected handshake op, got %s", req.Op)
		}
		if req.Config != "flow.cfg" || req.Zones != 1 || req.Dims != 2 {
			t.Errorf("Unexpected handshake payload: %+v", req)
		}
		return response{OK: true, Rank: 0, Size: 4}
	})

	client, err := Dial(endpoint, solver.Options{ConfigPath: "flow.cfg", Zones: 1, Dims: 2, Parallel: true})
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer func() { _ = client.socket.Close() }()

	if client.Rank() != 0 || client.Size() != 4 {
		t.Errorf("Expected rank 0 size 4, got %d/%d", client.Rank(), client.Size())
	}
}

func TestDialBuildMismatch(t *testing.T) {
	endpoint := "inproc://zmqlink-mismatch"
	shim := newFakeShim(t, endpoint)

	shim.serve(func(req request) response {
		return response{OK: false, Code: codeBuildMismatch, Error: "serial build"}
	})

	_, err := Dial(endpoint, solver.Options{Parallel: true})
	if !errors.Is(err, solver.ErrBuildMismatch) {
		t.Fatalf("Expected ErrBuildMismatch, got %v", err)
	}
}

func TestMonitorRoundTrip(t *testing.T) {
	endpoint := "inproc://zmqlink-monitor"
	shim := newFakeShim(t, endpoint)

	shim.serve(func(req request) response {
		return response{OK: true, Rank: 0, Size: 1}
	})
	client, err := Dial(endpoint, solver.Options{})
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer func() { _ = client.socket.Close() }()

	shim.serve(func(req request) response {
		if req.Op != opMonitor || req.Iter != 7 {
			t.Errorf("Unexpected monitor request: %+v", req)
		}
		return response{OK: true, Stop: true}
	})

	stop, err := client.Monitor(7)
	if err != nil {
		t.Fatalf("Monitor failed: %v", err)
	}
	if !stop {
		t.Errorf("Expected stop signal")
	}
}
