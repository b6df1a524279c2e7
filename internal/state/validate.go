package state

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/talgya/chancellor/internal/calib"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid snapshot")

// Bound is an inclusive range a scalar field must stay inside.
type Bound struct {
	Field  string
	Lo, Hi float64
	Get    func(*Snapshot) float64
}

// Bounds lists the clamped fields the turn pipeline guarantees.
var Bounds = []Bound{
	{"political.approval", calib.ApprovalMin, calib.ApprovalMax, func(s *Snapshot) float64 { return s.Political.Approval }},
	{"political.backbench_satisfaction", calib.ScoreMin, calib.ScoreMax, func(s *Snapshot) float64 { return s.Political.Backbench }},
	{"political.pm_trust", calib.ScoreMin, calib.ScoreMax, func(s *Snapshot) float64 { return s.Political.PMTrust }},
	{"political.credibility", calib.ScoreMin, calib.ScoreMax, func(s *Snapshot) float64 { return s.Political.Credibility }},
	{"economic.unemployment", calib.UnemploymentMin, calib.UnemploymentMax, func(s *Snapshot) float64 { return s.Economic.Unemployment }},
	{"economic.nairu", calib.NAIRUMin, calib.NAIRUMax, func(s *Snapshot) float64 { return s.Economic.NAIRU }},
	{"economic.inflation", calib.InflationMin, calib.InflationMax, func(s *Snapshot) float64 { return s.Economic.Inflation }},
	{"economic.anchor_health", calib.ScoreMin, calib.ScoreMax, func(s *Snapshot) float64 { return s.Economic.AnchorHealth }},
	{"economic.growth_annual", calib.GrowthFloor, calib.GrowthCeiling, func(s *Snapshot) float64 { return s.Economic.GrowthAnnual }},
	{"markets.bank_rate", calib.BankRateMin, calib.BankRateMax, func(s *Snapshot) float64 { return s.Markets.BankRate }},
	{"markets.gilt_10y", calib.YieldMin, calib.YieldMax, func(s *Snapshot) float64 { return s.Markets.Gilt10 }},
	{"markets.sterling_index", calib.SterlingMin, calib.SterlingMax, func(s *Snapshot) float64 { return s.Markets.Sterling }},
	{"services.nhs", calib.QualityMin, calib.QualityMax, func(s *Snapshot) float64 { return s.Services.NHS }},
	{"services.education", calib.QualityMin, calib.QualityMax, func(s *Snapshot) float64 { return s.Services.Education }},
	{"services.infrastructure", calib.QualityMin, calib.QualityMax, func(s *Snapshot) float64 { return s.Services.Infrastructure }},
	{"distributional.gini", calib.GiniMin, calib.GiniMax, func(s *Snapshot) float64 { return s.Distribution.Gini }},
	{"distributional.poverty_rate", calib.PovertyMin, calib.PovertyMax, func(s *Snapshot) float64 { return s.Distribution.PovertyRate }},
}

// Validate reports the first non-finite numeric field or out-of-range bound.
func Validate(s *Snapshot) error {
	if path, ok := findNonFinite(reflect.ValueOf(s).Elem(), "snapshot"); ok {
		return fmt.Errorf("%w: %s is not finite", ErrInvalid, path)
	}
	for _, b := range Bounds {
		if v := b.Get(s); v < b.Lo || v > b.Hi {
			return fmt.Errorf("%w: %s = %.4f outside [%g, %g]", ErrInvalid, b.Field, v, b.Lo, b.Hi)
		}
	}
	for _, id := range s.Services.Metrics.Keys() {
		if v := s.Services.Metrics[id]; v < calib.QualityMin || v > calib.QualityMax {
			return fmt.Errorf("%w: services.metrics[%s] = %.4f outside [0, 100]", ErrInvalid, id, v)
		}
	}
	return nil
}

func findNonFinite(v reflect.Value, path string) (string, bool) {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return path, true
		}
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			name := t.Field(i).Tag.Get("json")
			name, _, _ = strings.Cut(name, ",")
			if name == "" {
				name = t.Field(i).Name
			}
			if p, ok := findNonFinite(v.Field(i), path+"."+name); ok {
				return p, true
			}
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if p, ok := findNonFinite(v.Index(i), fmt.Sprintf("%s[%d]", path, i)); ok {
				return p, true
			}
		}
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			if p, ok := findNonFinite(iter.Value(), fmt.Sprintf("%s[%v]", path, iter.Key())); ok {
				return p, true
			}
		}
	case reflect.Pointer:
		if !v.IsNil() {
			return findNonFinite(v.Elem(), path)
		}
	}
	return "", false
}
