package engine

import (
	"strings"
	"testing"
)

func TestParamsValidate(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("defaults should validate, got %v", err)
	}

	cases := []struct {
		name    string
		mutate  func(*Params)
		wantMsg string
	}{
		{"negative z", func(p *Params) { p.ServiceLevelZ = -1 }, "service level z"},
		{"negative buffer", func(p *Params) { p.SafetyBufferDays = -2 }, "safety buffer"},
		{"abc A above B", func(p *Params) { p.ABCCutoffA = 0.95; p.ABCCutoffB = 0.80 }, "abc cutoffs"},
		{"abc A equals B", func(p *Params) { p.ABCCutoffA = 0.9; p.ABCCutoffB = 0.9 }, "abc cutoffs"},
		{"abc B above one", func(p *Params) { p.ABCCutoffB = 1.2 }, "abc cutoffs"},
		{"abc A zero", func(p *Params) { p.ABCCutoffA = 0 }, "abc cutoffs"},
		{"xyz X above Y", func(p *Params) { p.XYZCutoffX = 1.5 }, "xyz cutoffs"},
		{"xyz X zero", func(p *Params) { p.XYZCutoffX = 0 }, "xyz cutoffs"},
		{"zero coverage threshold", func(p *Params) { p.ExcessCoverageDays = 0 }, "excess coverage"},
		{"zero period length", func(p *Params) { p.PeriodDays = 0 }, "period days"},
		{"negative sell-through", func(p *Params) { p.MinSellThroughDays = -1 }, "sell-through"},
		{"negative projection horizon", func(p *Params) { p.ProjectionHorizonDays = -1 }, "projection horizon"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := DefaultParams()
			tc.mutate(&params)

			err := params.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Errorf("expected error mentioning %q, got %q", tc.wantMsg, err)
			}
		})
	}
}
