package render

// Stage is a shader stage that reads push constants.
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
)

func (s Stage) String() string {
	if s == StageFragment {
		return "fragment"
	}
	return "vertex"
}

// Push-constant block layout shared by the pipeline layout and the draw
// recorder. The vertex stage reads a column-major 4x4 transform, the
// fragment stage reads an RGB colour.
const (
	TransformOffset = 0
	TransformSize   = 16 * 4
	ColorOffset     = TransformOffset + TransformSize
	ColorSize       = 3 * 4
)

type PushConstantRange struct {
	Stage  Stage
	Offset uint32
	Size   uint32
}

// PushConstantRanges returns the ranges the pipeline layout must declare.
func PushConstantRanges() []PushConstantRange {
	return []PushConstantRange{
		{Stage: StageVertex, Offset: TransformOffset, Size: TransformSize},
		{Stage: StageFragment, Offset: ColorOffset, Size: ColorSize},
	}
}
