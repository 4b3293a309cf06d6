package fsiconfig

// Kind is the value type an option carries
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindString
)

// Recognized option names. The vocabulary is closed: anything else in a
// config file is rejected at load time.
const (
	NDim          = "NDIM"
	RestartIter   = "RESTART_ITER"
	TimeTreshold  = "TIME_TRESHOLD"
	NbFSIIter     = "NB_FSI_ITER"
	RBFRadius     = "RBF_RADIUS"
	AitkenParam   = "AITKEN_PARAM"
	UnstTimestep  = "UNST_TIMESTEP"
	UnstTime      = "UNST_TIME"
	FSITolerance  = "FSI_TOLERANCE"
	CFDConfigFile = "CFD_CONFIG_FILE_NAME"
	CSDSolver     = "CSD_SOLVER"
	CSDConfigFile = "CSD_CONFIG_FILE_NAME"
	RestartSol    = "RESTART_SOL"
	MatchingMesh  = "MATCHING_MESH"
	MeshInterp    = "MESH_INTERP_METHOD"
	DispPred      = "DISP_PRED"
	AitkenRelax   = "AITKEN_RELAX"
	TimeMarching  = "TIME_MARCHING"
)

var optionKinds = map[string]Kind{
	NDim:         KindInt,
	RestartIter:  KindInt,
	TimeTreshold: KindInt,
	NbFSIIter:    KindInt,

	RBFRadius:    KindFloat,
	AitkenParam:  KindFloat,
	UnstTimestep: KindFloat,
	UnstTime:     KindFloat,
	FSITolerance: KindFloat,

	CFDConfigFile: KindString,
	CSDSolver:     KindString,
	CSDConfigFile: KindString,
	RestartSol:    KindString,
	MatchingMesh:  KindString,
	MeshInterp:    KindString,
	DispPred:      KindString,
	AitkenRelax:   KindString,
	TimeMarching:  KindString,
}

// KindOf reports the kind of a recognized option name
func KindOf(key string) (Kind, bool) {
	k, ok := optionKinds[key]
	return k, ok
}
