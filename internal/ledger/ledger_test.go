package ledger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deduce/internal/logic"
)

func TestAppendAssignsContiguousIndices(t *testing.T) {
	l := New()
	i1 := l.Append(Given, logic.Rel{Name: "p"}, Justification{})
	i2 := l.Append(Goal, logic.Rel{Name: "q"}, Justification{})
	i3 := l.Append(Derived, logic.Rel{Name: "q"}, Justification{Rule: "ImplElim", Cites: []int{1, 2}})

	assert.Equal(t, []int{1, 2, 3}, []int{i1, i2, i3})
	assert.Equal(t, 3, l.Len())
}

func TestGetOutOfRange(t *testing.T) {
	l := New()
	l.Append(Given, logic.Rel{Name: "p"}, Justification{})

	for _, idx := range []int{0, -1, 2, 99} {
		_, err := l.Get(idx)
		require.ErrorIs(t, err, ErrOutOfRange, "index %d", idx)
	}

	line, err := l.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 1, line.Index)
	assert.Equal(t, Given, line.Role)
}

func TestAllIsASnapshot(t *testing.T) {
	l := New()
	l.Append(Given, logic.Rel{Name: "p"}, Justification{})
	snapshot := l.All()

	l.Append(Derived, logic.Rel{Name: "q"}, Justification{Rule: "Ae", Cites: []int{1}})
	assert.Len(t, snapshot, 1, "earlier snapshot must not see later appends")
	assert.Len(t, l.All(), 2)

	// Previously returned lines are never altered.
	again := l.All()
	assert.True(t, snapshot[0].Formula.Equal(again[0].Formula))
	assert.Equal(t, snapshot[0].Just, again[0].Just)
}

func TestListingIdempotent(t *testing.T) {
	l := New()
	l.Append(Comment, logic.Text{S: "127 is a natural number"}, Justification{})
	l.Append(Given, logic.Rel{Name: "NaturalNumber", Args: []logic.Term{logic.Const{Name: "c_127"}}}, Justification{})

	first := l.Listing()
	second := l.Listing()
	assert.Equal(t, first, second)
}

func TestListingFormat(t *testing.T) {
	l := New()
	l.Append(Given, logic.Rel{Name: "p"}, Justification{})
	l.Append(Given, logic.Rel{Name: "NaturalNumber", Args: []logic.Term{logic.Const{Name: "c_127"}}}, Justification{})

	rows := strings.Split(strings.TrimRight(l.Listing(), "\n"), "\n")
	require.Len(t, rows, 2)
	assert.Contains(t, rows[1], "NaturalNumber(c_127)")
	assert.Contains(t, rows[1], "(2)  Given")
	// Index column is aligned across rows.
	assert.Equal(t, strings.Index(rows[0], "(1)"), strings.Index(rows[1], "(2)"))
}

func TestJustificationRendering(t *testing.T) {
	j := Justification{Rule: "Ae", Cites: []int{1}, Terms: []logic.Term{logic.Const{Name: "c_127"}}}
	assert.Equal(t, "Ae 1 with c_127", j.String())
	assert.Equal(t, "", Justification{}.String())
	assert.True(t, Justification{}.IsZero())
}

func TestParseRole(t *testing.T) {
	for name, want := range map[string]Role{"comment": Comment, "Given": Given, "GOAL": Goal, "derived": Derived} {
		got, err := ParseRole(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseRole("lemma")
	assert.Error(t, err)
}
