package pipeline

import (
	"fmt"

	"github.com/Faultbox/shadowlab/internal/engine/shadow"
)

// Target names used by the stages.
const (
	ShadowTarget     = "shadow"
	FaceTarget       = "shadow.face"
	CubeTargetPrefix = "shadow.cube"
)

// StageKind identifies what a stage does.
type StageKind uint8

const (
	StageShadow StageKind = iota
	StageBlur
	StageLit
	StageDebugView
)

func (k StageKind) String() string {
	switch k {
	case StageShadow:
		return "shadow"
	case StageBlur:
		return "blur"
	case StageLit:
		return "lit"
	case StageDebugView:
		return "debug_view"
	default:
		return fmt.Sprintf("stage(%d)", uint8(k))
	}
}

// Stage is one step of a frame.
type Stage struct {
	Kind StageKind
	// Face is the cube face rendered, or -1.
	Face int
	// Target is the target written; empty for the display.
	Target string
	// Source is the target read by blur and debug view stages.
	Source string
}

func (s Stage) String() string {
	name := s.Kind.String()
	if s.Face >= 0 {
		name += "[" + shadow.CubeFace(s.Face).String() + "]"
	}
	dst := s.Target
	if dst == "" {
		dst = "display"
	}
	if s.Source != "" {
		return fmt.Sprintf("%s %s -> %s", name, s.Source, dst)
	}
	return fmt.Sprintf("%s -> %s", name, dst)
}

// PlanOptions selects the optional stages of a plan.
type PlanOptions struct {
	// DebugView overlays the shadow map on the display after the lit pass.
	DebugView bool
	// NoBlur drops the blur stages. Cube faces are then rendered directly
	// into the cube map and have no 2D source for the debug view.
	NoBlur bool
}

// BuildPlan returns the ordered stages of one frame of t.
func BuildPlan(t Technique, opts PlanOptions) []Stage {
	var plan []Stage
	debugSource := ShadowTarget

	switch t {
	case Blurred:
		plan = append(plan, Stage{Kind: StageShadow, Face: -1, Target: ShadowTarget})
		if !opts.NoBlur {
			plan = append(plan, Stage{Kind: StageBlur, Face: -1, Source: ShadowTarget, Target: ShadowTarget})
		}
	case CubeBlurred:
		for face := 0; face < 6; face++ {
			cubeFace := CubeTargetName(CubeTargetPrefix, face)
			if opts.NoBlur {
				plan = append(plan, Stage{Kind: StageShadow, Face: face, Target: cubeFace})
				continue
			}
			plan = append(plan,
				Stage{Kind: StageShadow, Face: face, Target: FaceTarget},
				Stage{Kind: StageBlur, Face: face, Source: FaceTarget, Target: cubeFace},
			)
		}
		debugSource = FaceTarget
		if opts.NoBlur {
			debugSource = ""
		}
	default:
		plan = append(plan, Stage{Kind: StageShadow, Face: -1, Target: ShadowTarget})
	}

	plan = append(plan, Stage{Kind: StageLit, Face: -1})
	if opts.DebugView && debugSource != "" {
		plan = append(plan, Stage{Kind: StageDebugView, Face: -1, Source: debugSource})
	}
	return plan
}
