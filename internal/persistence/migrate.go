package persistence

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/state"
)

// CurrentSchema is the schema_version written by SaveTurn.
const CurrentSchema = 3

// ErrSchemaTooNew is returned for saves written by a newer build.
var ErrSchemaTooNew = errors.New("save schema is newer than this build")

type document = map[string]any

// migrations[v] upgrades a version-v document to v+1 in place.
var migrations = map[int]func(document) error{
	1: keyedMapsToPairs,
	2: addDebtLedger,
}

// keyedPaths lists every map stored as ordered pairs from version 2 on.
var keyedPaths = []string{
	"fiscal.detailed",
	"fiscal.departments",
	"fiscal.revenue_by_instrument",
	"fiscal.fiscal_year_start_spending",
	"fiscal.prior_year_spending",
	"services.metrics",
	"services.real_ratios",
	"services.strikes",
	"parliamentary.committees",
	"spending_review.capacity",
	"manifesto.pledges",
	"mp_system.mps",
	"mp_system.stances",
}

// Migrate upgrades a saved document of the given version and decodes it.
func Migrate(version int, body []byte) (*state.Snapshot, error) {
	if version > CurrentSchema {
		return nil, fmt.Errorf("%w: version %d, supported %d", ErrSchemaTooNew, version, CurrentSchema)
	}
	if version < 1 {
		return nil, fmt.Errorf("unknown schema version %d", version)
	}
	if version < CurrentSchema {
		doc, err := decodeDocument(body)
		if err != nil {
			return nil, fmt.Errorf("decode v%d document: %w", version, err)
		}
		for v := version; v < CurrentSchema; v++ {
			if err := migrations[v](doc); err != nil {
				return nil, fmt.Errorf("migrate v%d to v%d: %w", v, v+1, err)
			}
		}
		upgraded, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encode migrated document: %w", err)
		}
		body = upgraded
	}

	var s state.Snapshot
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &s, nil
}

// keyedMapsToPairs rewrites object-shaped maps as [{"key":..,"value":..}]
// sorted by key.
func keyedMapsToPairs(doc document) error {
	for _, path := range keyedPaths {
		parent, key, ok := walk(doc, path)
		if !ok {
			continue
		}
		obj, ok := parent[key].(map[string]any)
		if !ok {
			continue
		}
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		pairs := make([]any, 0, len(obj))
		for _, k := range keys {
			pairs = append(pairs, map[string]any{"key": k, "value": obj[k]})
		}
		parent[key] = pairs
	}
	return nil
}

// addDebtLedger builds the debt-management ledger from the stored debt stock
// and seeds inflation-anchor health, neither of which v2 saves carried.
func addDebtLedger(doc document) error {
	fiscal, ok := doc["fiscal"].(map[string]any)
	if !ok {
		return errors.New("document has no fiscal section")
	}
	if _, ok := doc["debt_management"]; !ok {
		debt := number(fiscal["debt_bn"])
		ledger, err := toDocument(state.DebtLedger(debt))
		if err != nil {
			return err
		}
		doc["debt_management"] = ledger
	}
	if econ, ok := doc["economic"].(map[string]any); ok {
		if _, ok := econ["anchor_health"]; !ok {
			econ["anchor_health"] = calib.BaselineAnchorHealth
		}
	}
	return nil
}

func toDocument(v any) (document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return decodeDocument(data)
}

// decodeDocument keeps numbers as json.Number so 63-bit seeds survive the
// round trip through a generic document.
func decodeDocument(body []byte) (document, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func number(v any) float64 {
	switch n := v.(type) {
	case json.Number:
		f, _ := n.Float64()
		return f
	case float64:
		return n
	}
	return 0
}

// walk returns the object holding the last element of a dotted path.
func walk(doc document, path string) (map[string]any, string, bool) {
	parts := strings.Split(path, ".")
	cur := doc
	for _, p := range parts[:len(parts)-1] {
		next, ok := cur[p].(map[string]any)
		if !ok {
			return nil, "", false
		}
		cur = next
	}
	return cur, parts[len(parts)-1], true
}
