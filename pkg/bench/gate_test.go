package bench

import "testing"

func TestGatePolarity(t *testing.T) {
	tests := []struct {
		gate    GateType
		literal Polarity
		want    Polarity
	}{
		{GateAND, Direct, Direct},
		{GateAND, Inverted, Inverted},
		{GateOR, Direct, Direct},
		{GateXOR, Inverted, Inverted},
		{GateNAND, Direct, Inverted},
		{GateNAND, Inverted, Direct},
		{GateNOR, Direct, Inverted},
		{GateXNOR, Direct, Inverted},
		{GateXNOR, Inverted, Direct},
		{GateBUFF, Direct, Direct},
		{GateBUFF, Inverted, Inverted},
		{GateNOT, Direct, Inverted},
		{GateNOT, Inverted, Direct},
	}

	for _, tt := range tests {
		t.Run(tt.gate.String()+"/"+tt.literal.String(), func(t *testing.T) {
			if got := tt.gate.Polarity(tt.literal); got != tt.want {
				t.Errorf("%v.Polarity(%v) = %v, want %v", tt.gate, tt.literal, got, tt.want)
			}
		})
	}
}

func TestLookupGate(t *testing.T) {
	for _, name := range []string{"AND", "or", "Nand", "NOR", "xor", "XNOR", "BUFF", "buf", "NOT"} {
		g, ok := LookupGate(name)
		if !ok || !g.IsLogic() {
			t.Errorf("LookupGate(%q) = %v, %v", name, g, ok)
		}
	}
	for _, name := range []string{"", "MUX", "VDD", "NONE", "DFF"} {
		if _, ok := LookupGate(name); ok {
			t.Errorf("LookupGate(%q) should fail", name)
		}
	}
}

func TestGateArity(t *testing.T) {
	if !GateNOT.ArityOK(1) || GateNOT.ArityOK(2) {
		t.Error("NOT arity")
	}
	if GateAND.ArityOK(1) || !GateAND.ArityOK(2) || !GateAND.ArityOK(5) {
		t.Error("AND arity")
	}
	if GateConst.ArityOK(0) || GateNone.ArityOK(0) {
		t.Error("non-logic gates have no valid arity")
	}
}

func TestGateAlias(t *testing.T) {
	for g := GateNone; g.Valid(); g++ {
		if got, want := g.Alias(), g == GateBUFF; got != want {
			t.Errorf("%v.Alias() = %v, want %v", g, got, want)
		}
	}
	if GateType(200).Valid() || GateType(200).String() != "INVALID" {
		t.Error("out of range gate should be invalid")
	}
}
