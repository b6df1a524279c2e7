package politics

import (
	"log/slog"

	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/entropy"
	"github.com/talgya/chancellor/internal/state"
)

// UpdateDevolution moves council financial stress with the real value of the
// local government grant and devolved strain with Barnett consequentials.
// Councils past the stress line may issue Section 114 notices.
func UpdateDevolution(prev, next *state.Snapshot, rng entropy.Source) {
	d := &next.Devolution
	next.Diagnostics.Section114 = 0

	ratio, ok := next.Services.RealRatios["social_care"]
	if !ok {
		ratio = 1
	}
	target := calib.BaselineLocalStress + calib.LocalStressSlope*(1-ratio)
	d.LocalAuthorityStress = calib.Clamp(
		calib.Approach(prev.Devolution.LocalAuthorityStress, target, calib.LocalStressAdjust),
		calib.ScoreMin, calib.ScoreMax)

	if d.LocalAuthorityStress > calib.Section114Stress {
		p := (d.LocalAuthorityStress - calib.Section114Stress) / calib.Section114ChanceDiv
		if entropy.Chance(rng, p) {
			d.Section114Notices++
			next.Diagnostics.Section114 = 1
			next.Political.Credibility = calib.Clamp(next.Political.Credibility-calib.Section114Credibility, calib.ScoreMin, calib.ScoreMax)
			slog.Warn("section 114 notice issued", "turn", next.Meta.Turn, "stress", d.LocalAuthorityStress, "total", d.Section114Notices)
			next.Emit("devolution", "Another council issues a Section 114 notice", 2)
		}
	}

	strain := calib.BaselineDevolvedStrain - calib.DevolvedBarnettSlope*next.Fiscal.BarnettBn
	d.DevolvedStrain = calib.Clamp(
		calib.Approach(prev.Devolution.DevolvedStrain, strain, calib.DevolvedAdjust),
		calib.ScoreMin, calib.ScoreMax)
}
