package state

import (
	"maps"
	"slices"
)

// Clone returns a deep copy of s. Stages mutate only the copy, so the
// previous snapshot stays valid for comparison and history.
func (s *Snapshot) Clone() *Snapshot {
	c := *s

	c.Fiscal.Detailed = s.Fiscal.Detailed.Clone()
	c.Fiscal.Departments = s.Fiscal.Departments.Clone()
	c.Fiscal.RevenueByInstrument = s.Fiscal.RevenueByInstrument.Clone()
	c.Fiscal.FiscalYearStartSpending = s.Fiscal.FiscalYearStartSpending.Clone()
	c.Fiscal.PriorYearSpending = s.Fiscal.PriorYearSpending.Clone()

	c.Markets.Committee = slices.Clone(s.Markets.Committee)
	c.Markets.VoteSplit = maps.Clone(s.Markets.VoteSplit)

	c.Services.Metrics = s.Services.Metrics.Clone()
	c.Services.RealRatios = s.Services.RealRatios.Clone()
	c.Services.Strikes = s.Services.Strikes.Clone()

	c.Political.RuleChangeLog = slices.Clone(s.Political.RuleChangeLog)
	c.Political.Compliance.Tests = maps.Clone(s.Political.Compliance.Tests)
	c.Political.PendingViolations = slices.Clone(s.Political.PendingViolations)
	if s.Political.PMIntervention != nil {
		pi := *s.Political.PMIntervention
		c.Political.PMIntervention = &pi
	}

	c.Parliament.Committees = s.Parliament.Committees.Clone()
	c.SpendingReview.Capacity = s.SpendingReview.Capacity.Clone()
	c.Emergency = slices.Clone(s.Emergency)
	c.RiskModifiers = slices.Clone(s.RiskModifiers)

	c.Manifesto.Pledges = s.Manifesto.Pledges.Clone()
	c.Manifesto.Violations = slices.Clone(s.Manifesto.Violations)
	c.MPs.MPs = s.MPs.MPs.Clone()
	c.MPs.Stances = s.MPs.Stances.Clone()

	c.Diagnostics.NewViolations = slices.Clone(s.Diagnostics.NewViolations)
	c.Diagnostics.StrikesStarted = slices.Clone(s.Diagnostics.StrikesStarted)
	c.Events = slices.Clone(s.Events)
	c.History = slices.Clone(s.History)
	return &c
}
