package script

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deduce/internal/checker"
	"deduce/internal/rules"
)

const naturalNumberScript = `
name: 127 is not negative
axioms:
  - {role: comment, text: "127 is a natural number, so it is not negative"}
  - {role: given, formula: "A x.(NaturalNumber(x) -> ~NegativeNumber(x))"}
  - {role: given, formula: "NaturalNumber(c_127)"}
  - {role: goal, formula: "~NegativeNumber(c_127)"}
steps:
  - {rule: Ae, cites: [2], term: c_127}
  - {rule: ImplElim, cites: [5, 3]}
  - {rule: Refl, cites: [4, 6]}
`

func writeScript(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "proof.yaml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestLoadAndRunClosesProof(t *testing.T) {
	s, err := Load(writeScript(t, naturalNumberScript))
	require.NoError(t, err)
	assert.Equal(t, "127 is not negative", s.Name)
	require.Len(t, s.Axioms, 4)
	require.Len(t, s.Steps, 3)

	result, err := s.Run(checker.New(checker.CloseByRule, nil))
	require.NoError(t, err)

	assert.True(t, result.Closed())
	require.Len(t, result.Outcomes, 3)
	for i, out := range result.Outcomes {
		assert.False(t, out.Failed, "step %d: %s", i+1, out.Message)
	}
	assert.Equal(t, "NaturalNumber(c_127) -> ~NegativeNumber(c_127)", result.Outcomes[0].Line.Formula.String())
	assert.Equal(t, "~NegativeNumber(c_127)", result.Outcomes[1].Line.Formula.String())
	assert.Equal(t, "Apply()", result.Outcomes[2].Line.Formula.String())
	assert.Contains(t, result.Listing, "(7)  Refl 4,6")
}

func TestRunRecordsFailuresWithoutStopping(t *testing.T) {
	s, err := Load(writeScript(t, `
axioms:
  - {role: given, formula: "p -> q"}
  - {role: given, formula: "r"}
  - {role: goal, formula: "q"}
steps:
  - {rule: ImplElim, cites: [1, 2]}
  - {rule: AndIntro, cites: [1, 2]}
`))
	require.NoError(t, err)

	result, err := s.Run(checker.New(checker.CloseByRule, nil))
	require.NoError(t, err)

	require.Len(t, result.Outcomes, 2)
	assert.True(t, result.Outcomes[0].Failed)
	assert.Contains(t, result.Outcomes[0].Message, "Fail: ImplElim")
	assert.False(t, result.Outcomes[1].Failed, "replay continues past failed steps")
	assert.False(t, result.Closed())
	assert.Equal(t, 4, result.Session.Ledger.Len())
}

func TestRunRejectsUnknownRule(t *testing.T) {
	s, err := Load(writeScript(t, `
axioms:
  - {role: goal, formula: "p"}
steps:
  - {rule: Abracadabra, cites: [1]}
`))
	require.NoError(t, err)

	_, err = s.Run(checker.New(checker.CloseByRule, nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, rules.ErrUnknownRule)
	assert.Contains(t, err.Error(), `"Abracadabra"`)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(writeScript(t, `
axioms:
  - {role: goal, formula: "p"}
steps:
  - {rule: Ae, cites: [1], trem: c_1}
`))
	require.Error(t, err)
}

func TestRunWithExistentialIntroduction(t *testing.T) {
	s, err := Load(writeScript(t, `
axioms:
  - {role: given, formula: "NaturalNumber(c_127)"}
  - {role: goal, formula: "E x.NaturalNumber(x)"}
steps:
  - {rule: Ei, cites: [1], term: c_127, as: x}
  - {rule: Refl, cites: [2, 3]}
`))
	require.NoError(t, err)

	result, err := s.Run(checker.New(checker.CloseByRule, nil))
	require.NoError(t, err)
	assert.True(t, result.Closed())
	assert.Equal(t, "E x.NaturalNumber(x)", result.Outcomes[0].Line.Formula.String())
}

func TestRunWithDisjunctArgument(t *testing.T) {
	s, err := Load(writeScript(t, `
axioms:
  - {role: given, formula: "p"}
  - {role: goal, formula: "p | q"}
steps:
  - {rule: OrIntroLeft, cites: [1], with: q}
  - {rule: Refl, cites: [2, 3]}
`))
	require.NoError(t, err)

	result, err := s.Run(checker.New(checker.CloseByRule, nil))
	require.NoError(t, err)
	assert.True(t, result.Closed())
	assert.Equal(t, "p | q", result.Outcomes[0].Line.Formula.String())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestRunRejectsAxiomWithoutGoal(t *testing.T) {
	s, err := Load(writeScript(t, `
axioms:
  - {role: given, formula: "p"}
`))
	require.NoError(t, err)

	_, err = s.Run(checker.New(checker.CloseByRule, nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, checker.ErrInvalidAxiomSet)
}
