// internal/input/keyboard.go
package input

import (
	"bufio"
	"io"
	"sync/atomic"
)

// KeyboardSource simulates the push-to-talk button on hosts without a
// wired one: each line read from the reader toggles the level, so hitting
// Enter once presses and a second time releases.
type KeyboardSource struct {
	pressed atomic.Bool
}

// NewKeyboardSource starts a goroutine reading lines from r (usually
// stdin). The goroutine exits when the reader does.
func NewKeyboardSource(r io.Reader) *KeyboardSource {
	k := &KeyboardSource{}
	go func() {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			k.pressed.Store(!k.pressed.Load())
		}
	}()
	return k
}

// Pressed reports the simulated button level.
func (k *KeyboardSource) Pressed() bool {
	return k.pressed.Load()
}
