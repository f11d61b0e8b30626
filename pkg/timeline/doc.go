// Package timeline implements the logical model of an interactive
// Gantt-style timeline: a forest of task lines and collapsible groups,
// timed task items, cursors, time intervals, and annotated time points.
//
// The model is headless. It knows nothing about drawing surfaces or
// toolkits; it owns structure, row packing, collapse state, and the
// mutation/notification contract the renderer consumes. Rendering and
// hit-test routing live in pkg/render.
//
// # Ownership and linkage
//
// The tree is owned strictly top-down: a Timeline owns its top-level
// lines, groups own their children, task lines own their items. Parent
// and owning-timeline back-references are non-owning pointers maintained
// by the attach operations themselves; attaching a node that is already
// linked elsewhere fails fast with a STRUCTURE_VIOLATION error rather
// than silently corrupting the tree.
//
// # Change notification
//
// Every mutation classifies itself as structural (row counts may change)
// or paint-only and reports to subscribed listeners. Structural
// recomputation is synchronous with the mutation, never deferred to paint
// time, so a listener observing a change always sees fully consistent row
// counts. Listeners are expected to batch changes into dirty flags and
// act once per paint.
//
// The model is single-threaded by contract: all mutation and all
// rendering happen on one goroutine, and no internal locking is provided.
package timeline
