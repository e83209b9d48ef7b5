package schedule

import (
	"github.com/brandon-fryslie/oscilla-animator-sub010/internal/ir"
)

// Time-variance analysis. A node is time-varying when its value can change
// from frame to frame: it derives from a time leaf, carries state, or
// combines something that does. Static field expressions are eligible for
// untilInvalidated caching; everything else recomputes per frame.
//
// Tables are topologically ordered by construction (operands always precede
// their users), so a single forward pass suffices.

func sigTimeVarying(sig []ir.SigNode) []bool {
	varying := make([]bool, len(sig))
	for i, n := range sig {
		switch n.Kind {
		case ir.KindConst:
			varying[i] = false
		case ir.KindTimeAbsMs, ir.KindPhase01, ir.KindProgress01, ir.KindStateful:
			varying[i] = true
		default:
			for _, a := range n.Args {
				if varying[a] {
					varying[i] = true
					break
				}
			}
		}
	}
	return varying
}

func fieldTimeVarying(field []ir.FieldNode, sigVarying []bool) []bool {
	varying := make([]bool, len(field))
	for i, n := range field {
		switch n.Kind {
		case ir.KindConst:
			varying[i] = false
		case ir.KindStateful:
			varying[i] = true
		case ir.KindBroadcastSig:
			varying[i] = sigVarying[n.Sig]
		default:
			for _, a := range n.Args {
				if varying[a] {
					varying[i] = true
					break
				}
			}
		}
	}
	return varying
}
