//go:build !windows

package dispatch

import (
	"termcore/input"
	"termcore/proto"
)

// inputLoop is the single goroutine that ever reads the input device
// (spec.md §4.12). It parses one InputEvent at a time and hands it to
// routeInput, which delivers it to the lock owner when one is set and
// broadcasts it otherwise — original_source/src/dispatcher/mod.rs's
// listen().
func (d *Dispatcher) inputLoop() {
	defer d.wg.Done()

	src, ok := d.adapter.(input.ByteSource)
	if !ok {
		d.log.Error().Msg("adapter does not implement input.ByteSource; input thread exiting")
		return
	}
	parser := input.ANSIParser{}

	for d.isRunning.Load() {
		ev, err := parser.Next(src)
		if err != nil {
			d.log.Error().Err(err).Msg("input stream closed")
			return
		}
		d.routeInput(ev)
	}
}

// routeInput delivers every parsed event to whichever handle holds the
// lock, if any, and broadcasts otherwise — spec.md §4.12 step 2 applies
// the lock-owner check uniformly, not only to CursorPos replies.
func (d *Dispatcher) routeInput(ev proto.InputEvent) {
	msg := proto.ReceivedMsg(ev)
	if owner := d.lockOwner.Load(); owner != 0 {
		d.sendTo(owner, msg)
		return
	}
	d.sendTo(0, msg)
}
