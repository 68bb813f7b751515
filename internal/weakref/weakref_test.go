package weakref

import (
	"runtime"
	"testing"
)

type payload struct {
	data [64]byte
}

func TestHandleDoesNotOutliveReferent(t *testing.T) {
	obj := &payload{}
	ref := Of(obj)

	if !ref.Alive() {
		t.Fatal("referent strongly held, handle must report alive")
	}

	runtime.KeepAlive(obj)
	obj = nil

	// The weak pointer must clear once the collector reclaims the
	// referent. A few cycles bound the wait.
	for i := 0; i < 10; i++ {
		runtime.GC()
		if !ref.Alive() {
			return
		}
	}
	t.Fatal("handle kept referent alive across collections")
}

func TestHandleAliveWhileStronglyHeld(t *testing.T) {
	obj := &payload{}
	ref := Of(obj)

	for i := 0; i < 3; i++ {
		runtime.GC()
		if !ref.Alive() {
			t.Fatal("handle reported dead referent while strongly held")
		}
	}
	runtime.KeepAlive(obj)
}
