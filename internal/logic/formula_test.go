package logic

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func natNotNeg() Formula {
	// A x.(NaturalNumber(x) -> ~NegativeNumber(x))
	return Forall{
		Bound: "x",
		Body: Impl{
			Left:  Rel{Name: "NaturalNumber", Args: []Term{Var{Name: "x"}}},
			Right: Not{Body: Rel{Name: "NegativeNumber", Args: []Term{Var{Name: "x"}}}},
		},
	}
}

func TestStructuralEquality(t *testing.T) {
	assert.True(t, natNotNeg().Equal(natNotNeg()))

	renamed := Forall{
		Bound: "y",
		Body: Impl{
			Left:  Rel{Name: "NaturalNumber", Args: []Term{Var{Name: "y"}}},
			Right: Not{Body: Rel{Name: "NegativeNumber", Args: []Term{Var{Name: "y"}}}},
		},
	}
	assert.False(t, natNotNeg().Equal(renamed), "bound variables compare by name")

	assert.True(t, Const{Name: "c_127"}.Equal(Const{Name: "c_127"}))
	assert.False(t, Const{Name: "c_127"}.Equal(Var{Name: "c_127"}))
	assert.False(t, Truth{}.Equal(Falsum{}))
}

func TestSubstFormula(t *testing.T) {
	body := Impl{
		Left:  Rel{Name: "NaturalNumber", Args: []Term{Var{Name: "x"}}},
		Right: Not{Body: Rel{Name: "NegativeNumber", Args: []Term{Var{Name: "x"}}}},
	}

	got, err := SubstFormula(body, map[string]Term{"x": Const{Name: "c_127"}})
	require.NoError(t, err)

	want := Impl{
		Left:  Rel{Name: "NaturalNumber", Args: []Term{Const{Name: "c_127"}}},
		Right: Not{Body: Rel{Name: "NegativeNumber", Args: []Term{Const{Name: "c_127"}}}},
	}
	assert.True(t, want.Equal(got), cmp.Diff(want.String(), got.String()))
}

func TestSubstShadowedByQuantifier(t *testing.T) {
	// Substituting x inside A x.P(x) must not touch the bound occurrences.
	f := natNotNeg()
	got, err := SubstFormula(f, map[string]Term{"x": Const{Name: "c_0"}})
	require.NoError(t, err)
	assert.True(t, f.Equal(got))
}

func TestSubstCaptureDetected(t *testing.T) {
	// A y.R(x, y) with x := f(y) would capture y.
	f := Forall{Bound: "y", Body: Rel{Name: "R", Args: []Term{Var{Name: "x"}, Var{Name: "y"}}}}
	_, err := SubstFormula(f, map[string]Term{"x": Fn{Name: "f", Args: []Term{Var{Name: "y"}}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "captured")
}

func TestFreeVars(t *testing.T) {
	assert.Empty(t, FreeVars(natNotNeg()))

	open := And{
		Left:  Rel{Name: "P", Args: []Term{Var{Name: "x"}}},
		Right: Exists{Bound: "y", Body: Rel{Name: "Q", Args: []Term{Var{Name: "y"}, Var{Name: "z"}}}},
	}
	assert.Equal(t, []string{"x", "z"}, FreeVars(open))
}

func TestReplaceInFormula(t *testing.T) {
	f := Rel{Name: "NaturalNumber", Args: []Term{Const{Name: "c_127"}}}
	got := ReplaceInFormula(f, Const{Name: "c_127"}, Var{Name: "v1"})
	want := Rel{Name: "NaturalNumber", Args: []Term{Var{Name: "v1"}}}
	assert.True(t, want.Equal(got))
}

func TestPrinter(t *testing.T) {
	cases := []struct {
		f    Formula
		want string
	}{
		{natNotNeg(), "A x.(NaturalNumber(x) -> ~NegativeNumber(x))"},
		{Not{Body: Rel{Name: "NegativeNumber", Args: []Term{Const{Name: "c_127"}}}}, "~NegativeNumber(c_127)"},
		{And{Left: Rel{Name: "p"}, Right: Or{Left: Rel{Name: "q"}, Right: Rel{Name: "r"}}}, "p & (q | r)"},
		{Exists{Bound: "y", Body: Rel{Name: "P", Args: []Term{Var{Name: "y"}}}}, "E y.P(y)"},
		{Falsum{}, "false"},
		{Apply{}, "Apply()"},
		{Rel{Name: "Lt", Args: []Term{Fn{Name: "succ", Args: []Term{Const{Name: "zero"}}}, Const{Name: "c_127"}}}, "Lt(succ(zero),c_127)"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.f.String())
	}
}
