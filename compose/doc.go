// Package compose is an incremental composition runtime: a tree of
// composables rebuilt on every pass while per-node state, memoized values and
// change flags survive from one pass to the next.
//
// # Composables and scopes
//
// A Composable returns the next level of the tree from Compose. Each
// instance owns a ScopeState that lives as long as the instance stays at its
// position in the tree with the same type:
//
//	type Counter struct{}
//
//	func (Counter) Compose(cx compose.Scope) compose.Composable {
//	    count := compose.UseMut(cx, func() int { return 0 })
//	    onClick := compose.UseCallback(cx, func(struct{}) struct{} {
//	        count.Update(func(n *int) { *n++ })
//	        return struct{}{}
//	    })
//	    return Button{Label: strconv.Itoa(count.Value()), OnClick: onClick}
//	}
//
// # Hooks
//
// UseRef, UseMut, UseMemo, UseCallback, UseProvider, UseContext and UseDrop
// each claim the next hook slot of the scope. Slots are matched to calls by
// position, so a composable must make the same hook calls in the same order
// on every pass.
//
// # Updates
//
// Mut.Update and Mut.With never mutate in the calling frame. They send an
// Update to the scope's Runtime, whose Updater decides when it applies: a
// QueueUpdater (the Composer default) applies after the pass, an
// ImmediateUpdater applies at once.
//
// # Memoization
//
// Memo and UseMemo compare memo keys. A dependency is its own key unless it
// implements Memoize; handles report their generation counter, which moves
// exactly when an Update commits.
package compose
