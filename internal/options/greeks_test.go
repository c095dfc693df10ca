package options

import (
	"math"
	"testing"
)

func TestGreeksLongCallExample(t *testing.T) {
	// Long call K=180 exp 2026-06-19, spot 185, r=3%, q=0.5%, vol=25%, valued 2026-01-22
	contract := NewContract("AAPL", Call, 180, date(2026, 6, 19))
	market := MarketSnapshot{Spot: 185, Rate: 0.03, DividendYield: 0.005, Volatility: 0.25}
	today := date(2026, 1, 22)

	g := Compute(contract, market, today)

	if g.Delta <= 0 {
		t.Errorf("call delta = %g, want > 0", g.Delta)
	}
	if g.Gamma <= 0 {
		t.Errorf("gamma = %g, want > 0", g.Gamma)
	}
	if g.Vega <= 0 {
		t.Errorf("vega = %g, want > 0", g.Vega)
	}
	if g.Theta >= 0 {
		t.Errorf("theta = %g, want < 0", g.Theta)
	}
	if g.Rho <= 0 {
		t.Errorf("call rho = %g, want > 0", g.Rho)
	}
}

func TestGreeksDeltaBounds(t *testing.T) {
	expiry := date(2026, 6, 19)
	today := date(2026, 1, 22)
	market := MarketSnapshot{Spot: 185, Rate: 0.03, DividendYield: 0.005, Volatility: 0.25}

	for _, strike := range []float64{50, 150, 185, 220, 500} {
		call := Compute(NewContract("AAPL", Call, strike, expiry), market, today)
		if call.Delta < 0 || call.Delta > 1 {
			t.Errorf("call delta at K=%g is %g, want within [0,1]", strike, call.Delta)
		}

		put := Compute(NewContract("AAPL", Put, strike, expiry), market, today)
		if put.Delta < -1 || put.Delta > 0 {
			t.Errorf("put delta at K=%g is %g, want within [-1,0]", strike, put.Delta)
		}
	}
}

func TestGreeksGammaVegaSharedAcrossTypes(t *testing.T) {
	expiry := date(2026, 6, 19)
	today := date(2026, 1, 22)
	market := MarketSnapshot{Spot: 185, Rate: 0.03, DividendYield: 0.005, Volatility: 0.25}

	call := Compute(NewContract("AAPL", Call, 180, expiry), market, today)
	put := Compute(NewContract("AAPL", Put, 180, expiry), market, today)

	if math.Abs(call.Gamma-put.Gamma) > 1e-12 {
		t.Errorf("gamma differs: call=%g put=%g", call.Gamma, put.Gamma)
	}
	if math.Abs(call.Vega-put.Vega) > 1e-12 {
		t.Errorf("vega differs: call=%g put=%g", call.Vega, put.Vega)
	}
	if call.Gamma < 0 || call.Vega < 0 {
		t.Errorf("gamma/vega negative: gamma=%g vega=%g", call.Gamma, call.Vega)
	}
}

func TestGreeksAtExpiry(t *testing.T) {
	expiry := date(2026, 6, 19)
	market := MarketSnapshot{Rate: 0.03, DividendYield: 0.005, Volatility: 0.25}

	tests := []struct {
		name      string
		typ       OptionType
		spot      float64
		wantDelta float64
	}{
		{"call ITM", Call, 200, 1.0},
		{"call OTM", Call, 100, 0.0},
		{"call ATM boundary", Call, 180, 0.5},
		{"put ITM", Put, 100, -1.0},
		{"put OTM", Put, 200, 0.0},
		{"put ATM boundary", Put, 180, -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contract := NewContract("AAPL", tt.typ, 180, expiry)
			g := Compute(contract, market.WithSpot(tt.spot), expiry)

			if g.Delta != tt.wantDelta {
				t.Errorf("delta = %g, want %g", g.Delta, tt.wantDelta)
			}
			if g.Gamma != 0 || g.Vega != 0 || g.Theta != 0 || g.Rho != 0 {
				t.Errorf("gamma/vega/theta/rho = %g/%g/%g/%g, want all 0",
					g.Gamma, g.Vega, g.Theta, g.Rho)
			}
		})
	}
}

func TestGreeksZeroVol(t *testing.T) {
	expiry := date(2026, 6, 19)
	today := date(2026, 1, 22)
	T := YearFraction(expiry, today)

	// Forward > 0: call delta collapses to e^-qT, rho to T*K*e^-rT
	market := MarketSnapshot{Spot: 185, Rate: 0.03, DividendYield: 0.005, Volatility: 0}
	call := Compute(NewContract("AAPL", Call, 180, expiry), market, today)

	if math.Abs(call.Delta-math.Exp(-0.005*T)) > 1e-12 {
		t.Errorf("zero-vol ITM call delta = %g, want e^-qT", call.Delta)
	}
	if math.Abs(call.Rho-T*180*math.Exp(-0.03*T)) > 1e-12 {
		t.Errorf("zero-vol ITM call rho = %g, want T*K*e^-rT", call.Rho)
	}
	if call.Gamma != 0 || call.Vega != 0 || call.Theta != 0 {
		t.Error("zero-vol gamma/vega/theta should be 0")
	}

	// Forward < 0: call worthless, delta and rho are 0
	otm := Compute(NewContract("AAPL", Call, 400, expiry), market, today)
	if otm.Delta != 0 || otm.Rho != 0 {
		t.Errorf("zero-vol OTM call delta/rho = %g/%g, want 0/0", otm.Delta, otm.Rho)
	}
}

func TestGreeksScaleAndAdd(t *testing.T) {
	g := Greeks{Delta: 0.6, Gamma: 0.02, Vega: 0.4, Theta: -0.05, Rho: 0.3}

	neg := g.Scale(-1)
	if neg.Delta != -0.6 || neg.Gamma != -0.02 || neg.Vega != -0.4 || neg.Theta != 0.05 || neg.Rho != -0.3 {
		t.Errorf("Scale(-1) = %+v", neg)
	}

	sum := g.Add(neg)
	if sum.Delta != 0 || sum.Gamma != 0 || sum.Vega != 0 || sum.Theta != 0 || sum.Rho != 0 {
		t.Errorf("g.Add(g.Scale(-1)) = %+v, want zero", sum)
	}
}
