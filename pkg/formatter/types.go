package formatter

// Stage names one step of the format pipeline.
type Stage string

// Constants representing the pipeline stages, in execution order.
const (
	StageDetect    Stage = "detect"
	StageNormalize Stage = "normalize"
	StageConvert   Stage = "convert"
	StageSerialize Stage = "serialize"
)

// Stages lists every stage in the order the pipeline runs them.
var Stages = []Stage{StageDetect, StageNormalize, StageConvert, StageSerialize}

// Status defines the outcome of a pipeline stage.
type Status string

// Constants representing the defined stage outcomes.
const (
	StatusSuccess Status = "success"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)
