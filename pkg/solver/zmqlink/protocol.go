package zmqlink

// Wire protocol of the solver shim: one CBOR-encoded request per driver
// call on a REQ/REP socket, answered by a single CBOR response. The shim
// side lives in the solver binary and owns the real driver object.

// Operation names, matched by the shim.
const (
	opHandshake        = "handshake"
	opDeformMarkerTags = "deform_marker_tags"
	opBoundaryMarkers  = "boundary_markers"
	opNumVertices      = "n_vertices"
	opNumHaloVertices  = "n_halo_vertices"
	opInitialCoord     = "initial_coord"
	opTimeStep         = "time_step"
	opTimeIter         = "time_iter"
	opNTimeIter        = "n_time_iter"
	opSetDisplacement  = "set_displacement"
	opPreprocess       = "preprocess"
	opRun              = "run"
	opPostprocess      = "postprocess"
	opUpdate           = "update"
	opMonitor          = "monitor"
	opOutput           = "output"
	opFinalize         = "finalize"
	opBarrier          = "barrier"
	opClose            = "close"
)

// Error codes the shim may attach to a failed response.
const codeBuildMismatch = "build_mismatch"

type request struct {
	Op     string     `cbor:"op"`
	Marker int        `cbor:"marker,omitempty"`
	Vertex int        `cbor:"vertex,omitempty"`
	Iter   int        `cbor:"iter,omitempty"`
	Disp   [3]float64 `cbor:"disp,omitempty"`

	// Handshake payload, mirrors the driver constructor arguments.
	Config   string `cbor:"config,omitempty"`
	Zones    int    `cbor:"zones,omitempty"`
	Dims     int    `cbor:"dims,omitempty"`
	Parallel bool   `cbor:"parallel,omitempty"`
}

type response struct {
	OK    bool   `cbor:"ok"`
	Error string `cbor:"error,omitempty"`
	Code  string `cbor:"code,omitempty"`

	Tags    []string       `cbor:"tags,omitempty"`
	Markers map[string]int `cbor:"markers,omitempty"`
	Count   int            `cbor:"count,omitempty"`
	Coord   [3]float64     `cbor:"coord,omitempty"`
	Value   float64        `cbor:"value,omitempty"`
	Iter    int            `cbor:"iter,omitempty"`
	Stop    bool           `cbor:"stop,omitempty"`
	Rank    int            `cbor:"rank,omitempty"`
	Size    int            `cbor:"size,omitempty"`
}
