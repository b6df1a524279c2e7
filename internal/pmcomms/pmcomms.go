// Package pmcomms is the default Prime Minister communications engine.
package pmcomms

import (
	"fmt"

	"github.com/talgya/chancellor/internal/collab"
	"github.com/talgya/chancellor/internal/state"
)

// Relationship thresholds.
const (
	ReshuffleTrust    = 15.0
	ReshuffleApproval = 25.0
	WorriedGilt       = 5.5
	WarmApproval      = 45.0
	CheckInEvery      = 3 // turns between routine messages
)

// Engine implements collab.PMCommsEngine. It reads the snapshot and never
// writes to it.
type Engine struct{}

var _ collab.PMCommsEngine = Engine{}

// ProcessPMCommunications decides what, if anything, the PM says this month.
func (Engine) ProcessPMCommunications(s *state.Snapshot) collab.PMComms {
	p := s.Political
	switch {
	case p.PMTrust < ReshuffleTrust && p.Approval < ReshuffleApproval:
		return collab.PMComms{
			Message:            &collab.PMMessage{Tone: "final", Text: "The Prime Minister has asked for your resignation."},
			ReshuffleTriggered: true,
		}
	case p.PMIntervention != nil:
		return collab.PMComms{
			Message:      &collab.PMMessage{Tone: "stern", Text: fmt.Sprintf("Number 10 is still waiting: %s.", p.PMIntervention.Demand)},
			PMTrustDelta: -0.5,
		}
	case s.Markets.Gilt10 > WorriedGilt:
		return collab.PMComms{
			Message: &collab.PMMessage{Tone: "worried", Text: fmt.Sprintf("Gilts at %.2f%%. The PM wants a plan to calm the markets.", s.Markets.Gilt10)},
		}
	case s.Meta.Turn%CheckInEvery != 0:
		return collab.PMComms{}
	case p.Approval > WarmApproval && p.Compliance.Compliant:
		return collab.PMComms{
			Message:        &collab.PMMessage{Tone: "warm", Text: "Good numbers this quarter. Keep it up."},
			PMTrustDelta:   1,
			BackbenchDelta: 0.5,
		}
	}
	return collab.PMComms{
		Message: &collab.PMMessage{Tone: "routine", Text: "The Prime Minister would like the usual quarterly update."},
	}
}
