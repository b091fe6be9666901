package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deduce/internal/ledger"
	"deduce/internal/logic"
	"deduce/internal/session"
)

func mustParse(t *testing.T, s string) logic.Formula {
	t.Helper()
	f, err := logic.Parse(s)
	require.NoError(t, err)
	return f
}

func wellFormedSession(t *testing.T) *session.Session {
	t.Helper()
	sess := session.New()
	sess.Ledger.Append(ledger.Given, mustParse(t, "A x.(NaturalNumber(x) -> ~NegativeNumber(x))"), ledger.Justification{})
	sess.Ledger.Append(ledger.Given, mustParse(t, "NaturalNumber(c_127)"), ledger.Justification{})
	sess.Ledger.Append(ledger.Goal, mustParse(t, "~NegativeNumber(c_127)"), ledger.Justification{})
	sess.Goal = mustParse(t, "~NegativeNumber(c_127)")
	sess.Ledger.Append(ledger.Derived, mustParse(t, "NaturalNumber(c_127) -> ~NegativeNumber(c_127)"),
		ledger.Justification{Rule: "Ae", Cites: []int{1}, Terms: []logic.Term{logic.Const{Name: "c_127"}}})
	sess.Ledger.Append(ledger.Derived, mustParse(t, "~NegativeNumber(c_127)"),
		ledger.Justification{Rule: "ImplElim", Cites: []int{4, 2}})
	return sess
}

func TestAuditWellFormedLedger(t *testing.T) {
	auditor, err := New(nil)
	require.NoError(t, err)

	report, err := auditor.Run(wellFormedSession(t))
	require.NoError(t, err)

	assert.True(t, report.Ok(), report.Summary())
	assert.Equal(t, 5, report.Lines)
	assert.Equal(t, 3, report.Citations)
	assert.Equal(t, 1, report.GoalCount)
	assert.Empty(t, report.DanglingCites)
	assert.True(t, report.Contiguous)
}

func TestAuditDetectsDanglingCitation(t *testing.T) {
	auditor, err := New(nil)
	require.NoError(t, err)

	sess := wellFormedSession(t)
	// The ledger does not validate citations on append; the audit must
	// catch a justification pointing past the end.
	sess.Ledger.Append(ledger.Derived, mustParse(t, "p"),
		ledger.Justification{Rule: "ImplElim", Cites: []int{42, 2}})

	report, err := auditor.Run(sess)
	require.NoError(t, err)

	assert.False(t, report.Ok())
	require.Len(t, report.DanglingCites, 1)
	assert.Equal(t, Citation{Citing: 6, Cited: 42}, report.DanglingCites[0])
}

func TestAuditDetectsMissingGoal(t *testing.T) {
	auditor, err := New(nil)
	require.NoError(t, err)

	sess := session.New()
	sess.Ledger.Append(ledger.Given, mustParse(t, "p"), ledger.Justification{})

	report, err := auditor.Run(sess)
	require.NoError(t, err)

	assert.False(t, report.Ok())
	assert.Equal(t, 0, report.GoalCount)
}

func TestAuditorReusableAcrossSessions(t *testing.T) {
	auditor, err := New(nil)
	require.NoError(t, err)

	first, err := auditor.Run(wellFormedSession(t))
	require.NoError(t, err)
	second, err := auditor.Run(wellFormedSession(t))
	require.NoError(t, err)

	assert.Equal(t, first.Lines, second.Lines)
	assert.True(t, second.Ok())
}
