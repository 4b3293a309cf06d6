// Package zmqlink binds the driver contract to an external solver process
// over a ZeroMQ REQ/REP socket with CBOR-encoded frames.
package zmqlink

import (
	"fmt"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/pebbe/zmq4"

	"github.com/vortexcfd/fsi-simulations/pkg/solver"
)

// Client implements solver.Driver against a remote solver shim. The REQ
// socket alternates strictly between send and receive, so all calls are
// serialized behind one mutex.
type Client struct {
	mu     sync.Mutex
	socket *zmq4.Socket
	rank   int
	size   int
}

// Dial connects to the solver shim at endpoint and performs the handshake
// carrying the driver constructor arguments. A shim compiled without the
// requested parallelism answers with a build-mismatch code, surfaced as
// solver.ErrBuildMismatch.
func Dial(endpoint string, opts solver.Options) (*Client, error) {
	socket, err := zmq4.NewSocket(zmq4.REQ)
	if err != nil {
		return nil, fmt.Errorf("zmqlink: creating socket: %w", err)
	}
	if err := socket.Connect(endpoint); err != nil {
		_ = socket.Close()
		return nil, fmt.Errorf("zmqlink: connecting to %s: %w", endpoint, err)
	}

	c := &Client{socket: socket}
	resp, err := c.roundTrip(request{
		Op:       opHandshake,
		Config:   opts.ConfigPath,
		Zones:    opts.Zones,
		Dims:     opts.Dims,
		Parallel: opts.Parallel,
	})
	if err != nil {
		_ = socket.Close()
		return nil, err
	}

	c.rank = resp.Rank
	c.size = resp.Size
	if c.size < 1 {
		c.size = 1
	}
	return c, nil
}

// Rank returns this process's rank in the solver communicator.
func (c *Client) Rank() int { return c.rank }

// Size returns the solver communicator size.
func (c *Client) Size() int { return c.size }

// Barrier blocks until every solver rank reaches the matching barrier.
func (c *Client) Barrier() error {
	_, err := c.roundTrip(request{Op: opBarrier})
	return err
}

func (c *Client) roundTrip(req request) (*response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	payload, err := cbor.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("zmqlink: encoding %s: %w", req.Op, err)
	}
	if _, err := c.socket.SendBytes(payload, 0); err != nil {
		return nil, fmt.Errorf("zmqlink: sending %s: %w", req.Op, err)
	}

	raw, err := c.socket.RecvBytes(0)
	if err != nil {
		return nil, fmt.Errorf("zmqlink: receiving %s reply: %w", req.Op, err)
	}

	var resp response
	if err := cbor.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("zmqlink: decoding %s reply: %w", req.Op, err)
	}
	if !resp.OK {
		if resp.Code == codeBuildMismatch {
			return nil, fmt.Errorf("zmqlink: %s: %w", resp.Error, solver.ErrBuildMismatch)
		}
		return nil, fmt.Errorf("zmqlink: %s failed: %s", req.Op, resp.Error)
	}
	return &resp, nil
}

func (c *Client) DeformMeshMarkerTags() ([]string, error) {
	resp, err := c.roundTrip(request{Op: opDeformMarkerTags})
	if err != nil {
		return nil, err
	}
	return resp.Tags, nil
}

func (c *Client) BoundaryMarkers() (map[string]int, error) {
	resp, err := c.roundTrip(request{Op: opBoundaryMarkers})
	if err != nil {
		return nil, err
	}
	return resp.Markers, nil
}

func (c *Client) NumberVertices(marker int) (int, error) {
	resp, err := c.roundTrip(request{Op: opNumVertices, Marker: marker})
	if err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (c *Client) NumberHaloVertices(marker int) (int, error) {
	resp, err := c.roundTrip(request{Op: opNumHaloVertices, Marker: marker})
	if err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (c *Client) InitialMeshCoord(marker, vertex int) (float64, float64, float64, error) {
	resp, err := c.roundTrip(request{Op: opInitialCoord, Marker: marker, Vertex: vertex})
	if err != nil {
		return 0, 0, 0, err
	}
	return resp.Coord[0], resp.Coord[1], resp.Coord[2], nil
}

func (c *Client) UnsteadyTimeStep() (float64, error) {
	resp, err := c.roundTrip(request{Op: opTimeStep})
	if err != nil {
		return 0, err
	}
	return resp.Value, nil
}

func (c *Client) TimeIter() (int, error) {
	resp, err := c.roundTrip(request{Op: opTimeIter})
	if err != nil {
		return 0, err
	}
	return resp.Iter, nil
}

func (c *Client) NTimeIter() (int, error) {
	resp, err := c.roundTrip(request{Op: opNTimeIter})
	if err != nil {
		return 0, err
	}
	return resp.Iter, nil
}

func (c *Client) SetMeshDisplacement(marker, vertex int, dx, dy, dz float64) error {
	_, err := c.roundTrip(request{
		Op:     opSetDisplacement,
		Marker: marker,
		Vertex: vertex,
		Disp:   [3]float64{dx, dy, dz},
	})
	return err
}

func (c *Client) Preprocess(iter int) error {
	_, err := c.roundTrip(request{Op: opPreprocess, Iter: iter})
	return err
}

func (c *Client) Run() error {
	_, err := c.roundTrip(request{Op: opRun})
	return err
}

func (c *Client) Postprocess() error {
	_, err := c.roundTrip(request{Op: opPostprocess})
	return err
}

func (c *Client) Update() error {
	_, err := c.roundTrip(request{Op: opUpdate})
	return err
}

func (c *Client) Monitor(iter int) (bool, error) {
	resp, err := c.roundTrip(request{Op: opMonitor, Iter: iter})
	if err != nil {
		return false, err
	}
	return resp.Stop, nil
}

func (c *Client) Output(iter int) error {
	_, err := c.roundTrip(request{Op: opOutput, Iter: iter})
	return err
}

func (c *Client) Finalize() error {
	_, err := c.roundTrip(request{Op: opFinalize})
	return err
}

// Close tells the shim to release the driver and closes the socket.
func (c *Client) Close() error {
	_, rpcErr := c.roundTrip(request{Op: opClose})
	if err := c.socket.Close(); err != nil {
		return fmt.Errorf("zmqlink: closing socket: %w", err)
	}
	return rpcErr
}
