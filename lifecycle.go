// File: lifecycle.go
// Package leakwatch lifecycle observer surface.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The core never assumes which runtime delivers component lifecycle
// events. The embedding application registers this observer with its
// own teardown hooks and reports each destroyed component; everything a
// component hands in should be collectable shortly after.

package leakwatch

import "github.com/momentics/leakwatch/api"

// OnDestroy reports that a component has been torn down and its ref
// should become unreachable. Call it from the teardown path of each
// component worth watching; the component name becomes the watch
// description.
func OnDestroy[T any](w *Watcher, component string, ref *T) api.WatchKey {
	return Watch(w, ref, component)
}
