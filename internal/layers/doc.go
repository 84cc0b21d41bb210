// Package layers is the single source of truth for the editor's layer state.
//
// A Store owns one BaseLayerState per base category of the catalog and an
// ordered list of AccessoryInstances. All mutation goes through the Store's
// operations; queries work on a State snapshot, which is a deep copy and can
// be handed to pure functions such as the compositor.
//
// Key behaviors:
//   - Invalid category ids, instance ids and variant indexes are no-ops
//     reported through a false return, never errors.
//   - A new accessory is placed above every layer that exists at the time
//     it is added.
//   - Transform values are clamped to the ranges the editor exposes.
//   - State survives process restarts through State and Restore.
package layers
