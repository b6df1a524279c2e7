package state

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/chancellor/internal/calib"
)

func TestKeyedSerializesSortedPairs(t *testing.T) {
	m := Keyed[string, int]{"vat": 2, "alcohol": 1, "nhs": 3}
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"key":"alcohol","value":1},{"key":"nhs","value":3},{"key":"vat","value":2}]`, string(data))

	var back Keyed[string, int]
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, m, back)
	assert.Equal(t, []string{"alcohol", "nhs", "vat"}, back.Keys())

	err = json.Unmarshal([]byte(`{"vat": 2}`), &back)
	assert.ErrorContains(t, err, "keyed map")
}

func TestCloneIsDeep(t *testing.T) {
	s := NewBaseline(DifficultyStandard, "stability_rule")
	s.Political.PMIntervention = &PMIntervention{Trigger: "gilts", Severity: 0.4}
	s.Political.PendingViolations = []string{"vat_lock"}

	c := s.Clone()
	for _, k := range c.Fiscal.Departments.Keys() {
		b := c.Fiscal.Departments[k]
		b.Current += 10
		c.Fiscal.Departments[k] = b
	}
	c.Political.PMIntervention.Severity = 0.9
	c.Political.PendingViolations[0] = "ni_lock"
	c.Emit("test", "cloned", 1)

	for _, k := range s.Fiscal.Departments.Keys() {
		assert.InDelta(t, s.Fiscal.Departments[k].Current+10, c.Fiscal.Departments[k].Current, 1e-9, k)
	}
	assert.InDelta(t, 0.4, s.Political.PMIntervention.Severity, 1e-9)
	assert.Equal(t, []string{"vat_lock"}, s.Political.PendingViolations)
	assert.Empty(t, s.Events)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(NewBaseline(DifficultyStandard, "stability_rule")))

	s := NewBaseline(DifficultyStandard, "stability_rule")
	s.Political.Approval = 140
	err := Validate(s)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.ErrorContains(t, err, "political.approval")

	s = NewBaseline(DifficultyStandard, "stability_rule")
	s.Economic.Inflation = math.NaN()
	err = Validate(s)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.ErrorContains(t, err, "snapshot.economic.inflation")
}

func TestDebtLedgerMatchesStock(t *testing.T) {
	d := DebtLedger(3100)
	assert.InDelta(t, 3100, d.TotalBn(), 1e-6)
	for _, b := range d.Buckets() {
		assert.Positive(t, b.StockBn)
	}
}

func TestDeptFallsBackToBaseline(t *testing.T) {
	s := NewBaseline(DifficultyStandard, "stability_rule")
	delete(s.Fiscal.Departments, "nhs")
	delete(s.Fiscal.FiscalYearStartSpending, "welfare")

	base := calib.DepartmentBaselines["nhs"]
	assert.Equal(t, DeptBudget{Current: base[0], Capital: base[1]}, s.Fiscal.Dept("nhs"))
	base = calib.DepartmentBaselines["welfare"]
	assert.Equal(t, DeptBudget{Current: base[0], Capital: base[1]}, s.Fiscal.YearStartDept("welfare"))

	s.Fiscal.Departments["defence"] = DeptBudget{Current: 1, Capital: 2}
	assert.Equal(t, DeptBudget{Current: 1, Capital: 2}, s.Fiscal.Dept("defence"))
}
