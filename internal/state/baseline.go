package state

import "github.com/talgya/chancellor/internal/calib"

// NewBaseline builds the turn-zero snapshot from calibration. The returned
// snapshot has no derived fiscal aggregates yet; engine.NewGame runs the
// fiscal stages once to fill them and capture the baseline deficit.
func NewBaseline(difficulty Difficulty, ruleID string) *Snapshot {
	if difficulty == "" {
		difficulty = DifficultyStandard
	}
	s := &Snapshot{
		Meta: Metadata{
			Turn:       0,
			Month:      calib.StartMonth,
			Year:       calib.StartYear,
			Difficulty: difficulty,
		},
		Economic: Economic{
			NominalGDP:            calib.BaselineNominalGDP,
			GrowthAnnual:          calib.BaselineGrowth,
			GrowthMonthly:         calib.Monthly(calib.BaselineGrowth),
			TrendGrowth:           calib.BaselineProductivity + calib.LabourForceGrowth,
			Inflation:             calib.BaselineInflation,
			InflationExpectations: calib.BaselineInflation,
			AnchorHealth:          calib.BaselineAnchorHealth,
			PriceLevel:            1.0,
			Unemployment:          calib.BaselineUnemployment,
			NAIRU:                 calib.BaselineNAIRU,
			Participation:         calib.BaselineParticipation,
			WageGrowth:            calib.BaselineWageGrowth,
			ProductivityLevel:     calib.BaselineProductivityLevel,
			ProductivityGrowth:    calib.BaselineProductivity,
			CorpTaxLagged:         25,
		},
		Fiscal:       baselineFiscal(),
		Debt:         baselineDebt(),
		Markets:      baselineMarkets(),
		Financial:    baselineFinancial(),
		Services:     baselineServices(),
		Political:    baselinePolitical(ruleID),
		External:     ExternalSector{CurrentAccountPct: calib.BaselineCurrentAccount, TradeFriction: calib.BaselineTradeFriction},
		Distribution: baselineDistribution(),
		Devolution: Devolution{
			LocalAuthorityStress: calib.BaselineLocalStress,
			DevolvedStrain:       calib.BaselineDevolvedStrain,
		},
		Parliament:     baselineParliament(),
		SpendingReview: baselineSpendingReview(),
		Emergency:      []EmergencyProgramme{},
		RiskModifiers:  []PolicyRiskModifier{},
		Manifesto:      Manifesto{Pledges: Keyed[string, Pledge]{}, Violations: []Violation{}},
		MPs:            MPSystem{MPs: Keyed[string, MP]{}, Stances: Keyed[string, Stance]{}},
		Events:         []Event{},
		History:        []HistoryEntry{},
	}
	return s
}

func baselineFiscal() Fiscal {
	f := Fiscal{
		Rates: TaxRates{
			IncomeBasic:      20,
			IncomeHigher:     40,
			IncomeAdditional: 45,
			NIEmployee:       8,
			NIEmployer:       13.8,
			VAT:              20,
			Corporation:      25,
		},
		Detailed:            Keyed[string, LineItem]{},
		Departments:         Keyed[Department, DeptBudget]{},
		RevenueByInstrument: Keyed[string, float64]{},
		DebtBn:              calib.BaselineDebtBn,
		DebtPctGDP:          calib.BaselineDebtBn / calib.BaselineNominalGDP * 100,
	}
	for _, id := range calib.Departments {
		b := calib.DepartmentBaselines[id]
		f.Departments[id] = DeptBudget{Current: b[0], Capital: b[1]}
	}
	for id, li := range calib.LineItems {
		item := LineItem{ID: id, Rate: li.BaselineRate}
		if li.Kind == calib.LineSpend {
			item.Budget = li.BaselineBn
		}
		f.Detailed[id] = item
	}
	f.FiscalYearStartSpending = f.Departments.Clone()
	f.PriorYearSpending = f.Departments.Clone()
	f.FiscalYearStartDebtPct = f.DebtPctGDP
	f.PriorYearDebtPct = f.DebtPctGDP
	f.FiscalYearStartPrice = 1.0
	f.PriorYearPrice = 1.0
	return f
}

func baselineDebt() DebtManagement {
	d := DebtManagement{
		Strategy:     IssuanceBalanced,
		QEHoldingsBn: calib.BaselineQEHoldingsBn,
		QTPaceBn:     calib.QTPaceAnnualBn,
	}
	for i, b := range d.Buckets() {
		spec := calib.DebtBuckets[i]
		*b = Bucket{StockBn: spec.BaselineBn, AvgCoupon: spec.Coupon, TurnsToMaturity: spec.CycleTurns}
	}
	return d
}

func baselineMarkets() Markets {
	m := Markets{
		BankRate:     calib.BaselineBankRate,
		LastDecision: VoteHold,
		VoteSplit:    map[Vote]int{VoteHold: len(calib.Committee)},
		Gilt10:       calib.BaselineGilt10,
		Gilt2:        calib.BaselineGilt2,
		Gilt30:       calib.BaselineGilt30,
		Sterling:     calib.BaselineSterling,
		MortgageRate: calib.BaselineMortgageRate,
	}
	for _, c := range calib.Committee {
		m.Committee = append(m.Committee, CommitteeMember{
			Name:            c.Name,
			InflationWeight: c.InflationWeight,
			StanceBias:      c.StanceBias,
			Chair:           c.Chair,
			PreferredRate:   calib.BaselineBankRate,
			LastVote:        VoteHold,
		})
	}
	return m
}

func baselineFinancial() FinancialStability {
	return FinancialStability{
		HousePriceIndex:  calib.BaselineHousePriceIndex,
		HousePriceGrowth: calib.BaselineHousePriceGrowth,
		HouseholdDTI:     calib.BaselineDTI,
		CreditGrowth:     calib.BaselineCreditGrowth,
	}
}

func baselineServices() Services {
	s := Services{
		Metrics:    Keyed[string, float64]{},
		RealRatios: Keyed[string, float64]{},
		Strikes:    Keyed[string, StrikeState]{},
	}
	for _, spec := range calib.HeadlineServices {
		s.SetIndex(spec.ID, spec.Baseline)
		s.RealRatios[spec.ID] = 1
	}
	for _, spec := range calib.GranularServices {
		s.SetIndex(spec.ID, spec.Baseline)
		s.RealRatios[spec.ID] = 1
	}
	for _, st := range calib.Strikes {
		s.Strikes[st.Sector] = StrikeState{}
	}
	return s
}

func baselinePolitical(ruleID string) Political {
	return Political{
		Approval:          calib.BaselineApproval,
		Backbench:         calib.BaselineBackbench,
		PMTrust:           calib.BaselinePMTrust,
		Credibility:       calib.BaselineCredibility,
		RatingNotch:       calib.BaselineRatingNotch,
		RatingOutlook:     "stable",
		FiscalRuleID:      ruleID,
		RuleChangeLog:     []int{},
		Compliance:        Compliance{Compliant: true, Tests: map[string]bool{}, GoldenRuleOK: true, LastBreachTurn: -1},
		PendingViolations: []string{},
	}
}

func baselineDistribution() Distributional {
	d := Distributional{
		Gini:             calib.BaselineGini,
		PovertyRate:      calib.BaselinePoverty,
		ChildPovertyRate: calib.BaselineChildPoverty,
	}
	for i := range d.Deciles {
		d.Deciles[i].EffectiveTaxRate = calib.DecileBaseTaxRate[i]
	}
	return d
}

func baselineParliament() Parliamentary {
	p := Parliamentary{
		WhipStrength: calib.BaselineWhip,
		Committees:   Keyed[string, Committee]{},
		Confidence:   ConfidenceVote{State: ConfidenceNone, LastSupport: 1},
	}
	for _, id := range CommitteeIDs {
		p.Committees[id] = Committee{Pressure: 20}
	}
	return p
}

// CommitteeIDs lists the select committees that scrutinise the Treasury.
var CommitteeIDs = []string{"treasury", "health", "education", "public_accounts"}

func baselineSpendingReview() SpendingReview {
	sr := SpendingReview{Capacity: Keyed[Department, float64]{}}
	for _, id := range calib.Departments {
		sr.Capacity[id] = calib.BaselineCapacity
	}
	return sr
}

// DebtLedger returns the opening debt-management ledger with bucket stocks
// scaled to hold debtBn in total.
func DebtLedger(debtBn float64) DebtManagement {
	d := baselineDebt()
	if total := d.TotalBn(); total > 0 && debtBn > 0 {
		for _, b := range d.Buckets() {
			b.StockBn *= debtBn / total
		}
	}
	return d
}
