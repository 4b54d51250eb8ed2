package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationery/internal/core/apperror"
)

const today = "2024-03-15"

func stock(q map[string]int) Ledger {
	l := make(Ledger, len(q))
	for name, qty := range q {
		l[name] = Item{Quantity: qty}
	}
	return l
}

func TestApply_ProcessToDone(t *testing.T) {
	l := stock(map[string]int{"Pen": 5})
	items := map[string]int{"Pen": 3}

	next, err := Apply(l, Update(Side{Items: items}, Side{Done: true, Items: items}), today)
	require.NoError(t, err)

	assert.Equal(t, 2, next["Pen"].Quantity)
	assert.Equal(t, today, next["Pen"].LastOutDate)
	assert.Equal(t, -3, next["Pen"].LastUpdateQuantity)
	assert.Equal(t, 5, l["Pen"].Quantity, "prior ledger must not be mutated")
}

func TestApply_CreateDoneRejectedOnShortfall(t *testing.T) {
	l := stock(map[string]int{"Pen": 5, "Card": 1})

	next, err := Apply(l, Create(Side{Done: true, Items: map[string]int{"Pen": 10, "Card": 1}}), today)
	require.Error(t, err)

	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock))
	assert.Equal(t, []Shortfall{{Item: "Pen", Requested: 10, Available: 5}}, ShortfallsOf(err))
	assert.Equal(t, 5, next["Pen"].Quantity)
	assert.Equal(t, 1, next["Card"].Quantity, "no partial application")
	assert.Empty(t, next["Card"].LastOutDate)
}

func TestApply_ShortfallListsEveryItem(t *testing.T) {
	l := stock(map[string]int{"Pen": 1, "Tape": 0})

	_, err := Apply(l, Create(Side{Done: true, Items: map[string]int{"Pen": 2, "Tape": 1, "Glue": 4}}), today)

	assert.Equal(t, []Shortfall{
		{Item: "Glue", Requested: 4, Available: 0},
		{Item: "Pen", Requested: 2, Available: 1},
		{Item: "Tape", Requested: 1, Available: 0},
	}, ShortfallsOf(err))
}

func TestApply_CreateProcessIsNoop(t *testing.T) {
	l := stock(map[string]int{"Pen": 1})

	next, err := Apply(l, Create(Side{Items: map[string]int{"Pen": 50}}), today)
	require.NoError(t, err)
	assert.Equal(t, l, next)
}

func TestApply_DeleteDoneRestores(t *testing.T) {
	l := stock(map[string]int{"Card": 1})

	next, err := Apply(l, Delete(Side{Done: true, Items: map[string]int{"Card": 4}}), today)
	require.NoError(t, err)

	assert.Equal(t, 5, next["Card"].Quantity)
	assert.Equal(t, today, next["Card"].LastInDate)
	assert.Equal(t, 4, next["Card"].LastUpdateQuantity)
}

func TestApply_DeleteProcessIsNoop(t *testing.T) {
	l := stock(map[string]int{"Card": 1})

	next, err := Apply(l, Delete(Side{Items: map[string]int{"Card": 4}}), today)
	require.NoError(t, err)
	assert.Equal(t, 1, next["Card"].Quantity)
}

func TestApply_DoneToDoneSubtractsDelta(t *testing.T) {
	l := stock(map[string]int{"Bk": 10})

	next, err := Apply(l, Update(
		Side{Done: true, Items: map[string]int{"Bk": 2}},
		Side{Done: true, Items: map[string]int{"Bk": 5}},
	), today)
	require.NoError(t, err)

	assert.Equal(t, 7, next["Bk"].Quantity)
	assert.Equal(t, today, next["Bk"].LastOutDate)
	assert.Equal(t, -3, next["Bk"].LastUpdateQuantity)
}

func TestApply_DoneToDoneReturnsUnits(t *testing.T) {
	l := stock(map[string]int{"Bk": 0, "Pen": 0})

	next, err := Apply(l, Update(
		Side{Done: true, Items: map[string]int{"Bk": 5, "Pen": 1}},
		Side{Done: true, Items: map[string]int{"Bk": 2, "Pen": 1}},
	), today)
	require.NoError(t, err, "returning units never needs stock")

	assert.Equal(t, 3, next["Bk"].Quantity)
	assert.Equal(t, today, next["Bk"].LastInDate)
	assert.Empty(t, next["Bk"].LastOutDate)
	assert.Equal(t, Item{}, next["Pen"], "unchanged lines are untouched")
}

func TestApply_DoneToDoneChecksOnlyDelta(t *testing.T) {
	l := stock(map[string]int{"Bk": 3})

	_, err := Apply(l, Update(
		Side{Done: true, Items: map[string]int{"Bk": 2}},
		Side{Done: true, Items: map[string]int{"Bk": 6}},
	), today)

	assert.Equal(t, []Shortfall{{Item: "Bk", Requested: 4, Available: 3}}, ShortfallsOf(err))
}

func TestApply_DoneToProcessAddsOriginal(t *testing.T) {
	l := stock(map[string]int{"Pen": 2})

	next, err := Apply(l, Update(
		Side{Done: true, Items: map[string]int{"Pen": 3}},
		Side{Items: map[string]int{"Pen": 9}},
	), today)
	require.NoError(t, err)

	assert.Equal(t, 5, next["Pen"].Quantity)
	assert.Equal(t, today, next["Pen"].LastInDate)
}

func TestReplay_MatchesSequentialApply(t *testing.T) {
	initial := stock(map[string]int{"Pen": 20, "Card": 20, "Bk": 20})
	l := initial

	steps := []Transition{
		Create(Side{Done: true, Items: map[string]int{"Pen": 3}}),
		Create(Side{Items: map[string]int{"Card": 4}}),
		Update(Side{Items: map[string]int{"Card": 4}}, Side{Done: true, Items: map[string]int{"Card": 6, "Bk": 1}}),
		Update(Side{Done: true, Items: map[string]int{"Pen": 3}}, Side{Done: true, Items: map[string]int{"Pen": 1}}),
		Create(Side{Done: true, Items: map[string]int{"Bk": 2}}),
		Delete(Side{Done: true, Items: map[string]int{"Bk": 2}}),
	}
	for _, step := range steps {
		var err error
		l, err = Apply(l, step, today)
		require.NoError(t, err)
	}

	// Done reports left: {Pen:1}, {Card:6, Bk:1}
	replayed := Replay(initial, []Side{
		{Done: true, Items: map[string]int{"Pen": 1}},
		{Done: true, Items: map[string]int{"Card": 6, "Bk": 1}},
	}, today)

	for name := range initial {
		assert.Equal(t, replayed[name].Quantity, l[name].Quantity, name)
	}
}

func TestEdit(t *testing.T) {
	l := stock(map[string]int{"Pen": 5, "Tape": 2, "Glue": 1})

	next, err := Edit(l, map[string]int{"Pen": 8, "Tape": 0, "Glue": 1}, today)
	require.NoError(t, err)

	assert.Equal(t, Item{Quantity: 8, LastInDate: today, LastUpdateQuantity: 3}, next["Pen"])
	assert.Equal(t, Item{Quantity: 0, LastOutDate: today, LastUpdateQuantity: -2}, next["Tape"])
	assert.Equal(t, Item{Quantity: 1}, next["Glue"])
}

func TestEdit_RejectsInvalid(t *testing.T) {
	l := stock(map[string]int{"Pen": 5})

	_, err := Edit(l, map[string]int{"Pen": -1}, today)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	_, err = Edit(l, map[string]int{"Laser": 1}, today)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestClear(t *testing.T) {
	l := Ledger{
		"Pen":  {Quantity: 4, LastInDate: "2024-01-01", LastOutDate: "2024-02-01"},
		"Tape": {},
	}

	next := Clear(l)

	assert.Equal(t, Item{LastInDate: "2024-01-01", LastOutDate: "2024-02-01", LastUpdateQuantity: -4}, next["Pen"])
	assert.Equal(t, Item{}, next["Tape"])
	assert.Equal(t, 4, l["Pen"].Quantity)
}

func TestWithItemsAndSorted(t *testing.T) {
	l := Ledger{"Tape": {Quantity: 1}}.WithItems([]string{"Pen", "Tape"})

	entries := l.Sorted()
	require.Len(t, entries, 2)
	assert.Equal(t, "Pen", entries[0].Name)
	assert.Equal(t, "Tape", entries[1].Name)
	assert.Equal(t, 1, entries[1].Quantity)
}
