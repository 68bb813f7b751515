// Package track
// Author: momentics <momentics@gmail.com>
//
// Reference tracker: the set of currently watched weak observations and
// the pending (retained) key set. Registration, lookup and removal are
// guarded by a single mutex scoped to map access only; the lock is
// never held across GC waits or dump I/O.
package track
