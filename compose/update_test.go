package compose_test

import (
	"errors"
	"testing"

	"github.com/delaneyj/recompose/compose"
	"github.com/delaneyj/recompose/compose/composetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueUpdater(t *testing.T) {
	t.Run("applies in enqueue order on flush", func(t *testing.T) {
		q := compose.NewQueueUpdater()
		exit := compose.NewRuntime(q).Enter()
		defer exit()

		s := compose.NewScopeState()
		s.Begin()
		m := compose.UseMut(s, func() int { return 1 })

		m.Update(func(n *int) { *n *= 2 })
		m.Update(func(n *int) { *n += 3 })
		assert.Equal(t, 1, m.Value())
		assert.Equal(t, 2, q.Len())
		assert.True(t, q.Pending(s))
		assert.False(t, s.IsChanged())

		require.NoError(t, q.Flush())
		assert.Equal(t, 5, m.Value())
		assert.EqualValues(t, 2, m.Generation())
		assert.True(t, s.IsChanged())
		assert.Equal(t, 0, q.Len())
		assert.False(t, q.Pending(s))
	})

	t.Run("discard forgets updates for a scope", func(t *testing.T) {
		q := compose.NewQueueUpdater()
		exit := compose.NewRuntime(q).Enter()
		defer exit()

		a, b := compose.NewScopeState(), compose.NewScopeState()
		a.Begin()
		b.Begin()
		ma := compose.UseMut(a, func() int { return 0 })
		mb := compose.UseMut(b, func() int { return 0 })

		ma.Set(1)
		mb.Set(2)
		ma.Set(3)
		q.Discard(a)
		assert.Equal(t, 1, q.Len())
		assert.False(t, q.Pending(a))

		require.NoError(t, q.Flush())
		assert.Equal(t, 0, ma.Value())
		assert.Equal(t, 2, mb.Value())
	})

	t.Run("update to a dropped scope fails", func(t *testing.T) {
		q := compose.NewQueueUpdater()
		exit := compose.NewRuntime(q).Enter()
		defer exit()

		s := compose.NewScopeState()
		s.Begin()
		m := compose.UseMut(s, func() int { return 0 })
		m.Set(1)
		s.Drop()

		err := q.Flush()
		require.Error(t, err)
		assert.True(t, errors.Is(err, compose.ErrScopeDropped))

		var ue *compose.UpdateError
		require.ErrorAs(t, err, &ue)
		assert.Equal(t, 0, ue.Slot)
	})
}

func TestUpdateApply(t *testing.T) {
	s := compose.NewScopeState()
	s.Begin()
	compose.UseRef(s, func() int { return 0 })

	err := compose.NewUpdate(s, 0, compose.UpdateChange, nil).Apply()
	assert.ErrorContains(t, err, "not a mutable value")

	err = compose.NewUpdate(s, 4, compose.UpdateChange, nil).Apply()
	assert.ErrorContains(t, err, "out of range")

	err = compose.NewUpdate(nil, 0, compose.UpdateSilent, nil).Apply()
	assert.ErrorIs(t, err, compose.ErrScopeDropped)

	assert.Equal(t, "change", compose.UpdateChange.String())
	assert.Equal(t, "silent", compose.UpdateSilent.String())
}

// updates are data: a recording updater can inspect them before applying
func TestRecordedUpdates(t *testing.T) {
	rec := &composetest.Recorder{}
	exit := compose.NewRuntime(rec).Enter()
	defer exit()

	s := compose.NewScopeState()
	s.Begin()
	m := compose.UseMut(s, func() int { return 0 })
	m.Update(func(n *int) { *n++ })
	m.With(func(n *int) { *n += 10 })

	require.Len(t, rec.Updates, 2)
	assert.Same(t, s, rec.Updates[0].Scope)
	assert.Equal(t, 0, rec.Updates[0].Slot)
	assert.Equal(t, compose.UpdateChange, rec.Updates[0].Kind)
	assert.Equal(t, compose.UpdateSilent, rec.Updates[1].Kind)
	assert.Equal(t, 0, m.Value())

	require.NoError(t, rec.Apply())
	assert.Equal(t, 11, m.Value())
	assert.EqualValues(t, 1, m.Generation())
	assert.Empty(t, rec.Updates)
}

func TestRuntime(t *testing.T) {
	assert.PanicsWithValue(t, compose.ErrNoRuntime, func() { compose.Current() })

	outer := compose.NewRuntime(nil)
	inner := compose.NewRuntime(nil)
	assert.IsType(t, &compose.QueueUpdater{}, outer.Updater())
	assert.NotEqual(t, outer.ID(), inner.ID())

	exitOuter := outer.Enter()
	assert.Same(t, outer, compose.Current())
	assert.True(t, outer.Active())

	exitInner := inner.Enter()
	assert.Same(t, inner, compose.Current())
	exitInner()
	assert.False(t, inner.Active())
	assert.Same(t, outer, compose.Current())

	exitOuter()
	assert.False(t, outer.Active())
	assert.Panics(t, func() { compose.Current() })
}
