package fiscal

import (
	"log/slog"
	"math"

	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/rules"
	"github.com/talgya/chancellor/internal/state"
)

// DebtInterest prices the maturity ledger: short debt floats at Bank Rate,
// conventional buckets pay their locked-in coupons, index-linked pays
// inflation plus margin, and the asset purchase facility passes through the
// gap between Bank Rate and its average coupon.
func DebtInterest(prev, next *state.Snapshot) {
	d := &next.Debt
	bank := next.Markets.BankRate
	interest := d.Short.StockBn*bank/100 +
		d.Medium.StockBn*d.Medium.AvgCoupon/100 +
		d.Long.StockBn*d.Long.AvgCoupon/100 +
		d.IndexLinked.StockBn*(next.Economic.Inflation+calib.IndexLinkedMargin)/100 +
		d.QEHoldingsBn*(bank-calib.APFAverageCoupon)/100
	d.Short.AvgCoupon = bank
	d.IndexLinked.AvgCoupon = next.Economic.Inflation + calib.IndexLinkedMargin
	next.Fiscal.DebtInterestBn = interest
}

// marketYields are the rates new issuance locks in, bucket by bucket.
func marketYields(s *state.Snapshot) [4]float64 {
	m := s.Markets
	return [4]float64{
		m.BankRate,
		(m.Gilt2 + m.Gilt10) / 2,
		m.Gilt30,
		calib.IndexLinkedMargin,
	}
}

// RollForward is the one place deficit and debt are set. It also allocates
// the month's borrowing across buckets, rolls maturing buckets, and
// refreshes headroom under the active rule.
func RollForward(prev, next *state.Snapshot) {
	f := &next.Fiscal
	f.CurrentSpendingBn = f.NonInterestCurrent + f.DebtInterestBn
	f.TotalManagedExpBn = f.CurrentSpendingBn + f.CapitalSpendingBn
	f.DeficitBn = f.TotalManagedExpBn - f.RevenueBn
	f.CurrentBalanceBn = f.RevenueBn - f.CurrentSpendingBn
	f.DebtBn = prev.Fiscal.DebtBn + f.DeficitBn/12

	gdp := next.Economic.NominalGDP
	f.DeficitPctGDP = calib.PctOfGDP(f.DeficitBn, gdp)
	f.DebtPctGDP = calib.PctOfGDP(f.DebtBn, gdp)

	yields := marketYields(prev)
	allocate(&next.Debt, f.DeficitBn/12, yields)
	rollover(&next.Debt, yields, next.Meta.Turn)
	reconcile(&next.Debt, f.DebtBn)
	updateRisk(&next.Debt)

	f.HeadroomBn = Headroom(next)
}

// Headroom is the margin against the active rule's own thresholds, in £bn.
func Headroom(s *state.Snapshot) float64 {
	return rules.HeadroomBn(rules.MustLookup(s.Political.FiscalRuleID), s)
}

func shares(strategy state.IssuanceStrategy) [4]float64 {
	if sh, ok := calib.IssuanceShares[string(strategy)]; ok {
		return sh
	}
	return calib.IssuanceShares[string(state.IssuanceBalanced)]
}

// allocate spreads new borrowing by strategy, blending coupons with market
// yields. Repayments retire short debt first, then medium, then the rest.
func allocate(d *state.DebtManagement, borrowBn float64, yields [4]float64) {
	buckets := d.Buckets()
	if borrowBn >= 0 {
		sh := shares(d.Strategy)
		for i, b := range buckets {
			add(b, borrowBn*sh[i], yields[i])
		}
		return
	}
	repay := -borrowBn
	for _, b := range buckets {
		take := math.Min(repay, b.StockBn)
		b.StockBn -= take
		repay -= take
		if repay <= 0 {
			return
		}
	}
}

func add(b *state.Bucket, amount, yield float64) {
	if amount <= 0 {
		return
	}
	total := b.StockBn + amount
	b.AvgCoupon = (b.StockBn*b.AvgCoupon + amount*yield) / total
	b.StockBn = total
}

// rollover refinances a slice of each maturing bucket across the strategy mix.
func rollover(d *state.DebtManagement, yields [4]float64, turn int) {
	sh := shares(d.Strategy)
	buckets := d.Buckets()
	for i, b := range buckets {
		b.TurnsToMaturity--
		if b.TurnsToMaturity > 0 {
			continue
		}
		b.TurnsToMaturity = calib.DebtBuckets[i].CycleTurns
		rolled := b.StockBn * calib.RolloverFraction
		b.StockBn -= rolled
		for j, target := range buckets {
			add(target, rolled*sh[j], yields[j])
		}
		slog.Debug("debt bucket rolled", "turn", turn, "bucket", calib.DebtBuckets[i].ID, "rolled_bn", rolled)
	}
}

// reconcile absorbs float drift so the ledger always sums to the debt stock.
func reconcile(d *state.DebtManagement, debtBn float64) {
	gap := debtBn - d.TotalBn()
	if math.Abs(gap) < 1e-6 {
		return
	}
	if gap > 0 || d.Short.StockBn+gap >= 0 {
		d.Short.StockBn += gap
		return
	}
	d.Medium.StockBn = math.Max(0, d.Medium.StockBn+gap+d.Short.StockBn)
	d.Short.StockBn = 0
}

func updateRisk(d *state.DebtManagement) {
	total := d.TotalBn()
	if total <= 0 {
		d.WAMYears, d.Refinancing = 0, 0
		return
	}
	wam := 0.0
	for i, b := range d.Buckets() {
		wam += b.StockBn * calib.DebtBuckets[i].MaturityYears
	}
	d.WAMYears = wam / total
	shortShare := d.Short.StockBn / total
	risk := shortShare*calib.RefinancingShortShare +
		calib.RefinancingWAMWeight*math.Max(0, calib.RefinancingWAMAnchor-d.WAMYears)/calib.RefinancingWAMAnchor
	d.Refinancing = calib.Clamp(risk, calib.ScoreMin, calib.ScoreMax)
}
