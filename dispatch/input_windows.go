//go:build windows

package dispatch

import (
	"golang.org/x/sys/windows"

	"termcore/input"
	"termcore/proto"
)

type stdinHandleProvider interface {
	StdinHandle() windows.Handle
}

// inputLoop reads console INPUT_RECORDs directly instead of parsing a
// byte stream, the Windows divergence input.ConsoleParser exists for.
func (d *Dispatcher) inputLoop() {
	defer d.wg.Done()

	provider, ok := d.adapter.(stdinHandleProvider)
	if !ok {
		d.log.Error().Msg("adapter does not expose a console stdin handle; input thread exiting")
		return
	}
	parser := input.NewConsoleParser(provider.StdinHandle())

	for d.isRunning.Load() {
		ev, err := parser.Next()
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
