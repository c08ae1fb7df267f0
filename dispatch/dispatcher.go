// Package dispatch owns the single signal thread and single input thread
// spec.md §4.8/§4.12 describe: exactly one goroutine ever touches the
// terminal device and the Store, and exactly one goroutine ever reads the
// input device, grounded on original_source/src/dispatcher/mod.rs.
package dispatch

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"termcore/proto"
	"termcore/screen"
	"termcore/term"
)

// pollDelay is how often the signal loop wakes to re-check isRunning when
// no Cmd arrives, matching the dispatcher/mod.rs init() 3ms poll delay.
const pollDelay = 3 * time.Millisecond

type emitter struct {
	eventTx   chan proto.Msg
	isSuspend bool
	isRunning bool
}

// Dispatcher is the owner of Term + Store: Init starts its signal
// goroutine, Spawn hands out EventHandles (the first Spawn also starts the
// input goroutine), and Shutdown tears everything down (spec.md §4.13).
type Dispatcher struct {
	adapter term.Adapter
	store   *screen.Store
	log     zerolog.Logger

	signalCh chan proto.Cmd

	mu        sync.Mutex
	emitters  map[uint64]*emitter
	lockOwner atomic.Uint64

	isRunning    atomic.Bool
	inputStarted bool
	wg           sync.WaitGroup
}

// New builds a Dispatcher around an already-open Adapter and a Store
// sized to match it.
func New(adapter term.Adapter, store *screen.Store, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		adapter:  adapter,
		store:    store,
		log:      log,
		signalCh: make(chan proto.Cmd, 64),
		emitters: make(map[uint64]*emitter),
	}
}

// Init syncs the Store to the adapter's size, sets the initial tab-stop
// width through probeTabSize, and starts the signal thread. The input
// thread is started lazily, by the first Spawn.
func (d *Dispatcher) Init() error {
	w, h, err := d.adapter.Size()
	if err != nil {
		return err
	}
	d.store.SyncSize(w, h)
	probeTabSize(d.store)

	d.isRunning.Store(true)
	d.wg.Add(1)
	go d.signalLoop()
	return nil
}

// probeTabSize sets the initial tab width to 8. It does not query the
// terminal; it is the one place a real tab-stop probe would plug in.
func probeTabSize(store *screen.Store) {
	store.SyncTabSize(8)
}

// Spawn allocates a new EventHandle with a collision-checked random id,
// registers it in the emitter map, and lazily starts the input thread the
// first time any handle is spawned (dispatcher/mod.rs spawn/listen).
func (d *Dispatcher) Spawn() *EventHandle {
	d.mu.Lock()
	id := d.randomish()
	e := &emitter{eventTx: make(chan proto.Msg, 32), isRunning: true}
	d.emitters[id] = e
	needsInput := !d.inputStarted
	d.inputStarted = true
	d.mu.Unlock()

	if needsInput {
		d.wg.Add(1)
		go d.inputLoop()
	}

	return &EventHandle{id: id, eventRx: e.eventTx, signalTx: d.signalCh}
}

// randomish mints a nonzero id from the wall clock's nanoseconds,
// reading the clock again on a zero value or on a collision with a
// registered id, mirroring dispatcher/mod.rs's subsec-nanos generator.
// The caller must hold d.mu.
func (d *Dispatcher) randomish() uint64 {
	for {
		id := uint64(time.Now().UnixNano())
		if id == 0 {
			continue
		}
		if _, exists := d.emitters[id]; !exists {
			return id
		}
	}
}

// signalLoop is the sole goroutine permitted to mutate Term + Store. It
// applies each Cmd from signalCh as it arrives through handleCmd (the
// Action and Query handlers live in router.go); the pollDelay ticker only
// wakes it to re-check isRunning. Input events do not pass through this
// loop: the input goroutine delivers them itself through routeInput.
func (d *Dispatcher) signalLoop() {
	defer d.wg.Done()
	ticker := time.NewTicker(pollDelay)
	defer ticker.Stop()

	for d.isRunning.Load() {
		select {
		case cmd := <-d.signalCh:
			d.handleCmd(cmd)
		case <-ticker.C:
		}
	}
}

func (d *Dispatcher) handleCmd(cmd proto.Cmd) {
	switch cmd.Kind {
	case proto.CmdContinue:
		// no-op placeholder cmd, used to unblock a select.
	case proto.CmdSuspend:
		d.withEmitter(cmd.ID, func(e *emitter) { e.isSuspend = true })
	case proto.CmdTransmit:
		d.withEmitter(cmd.ID, func(e *emitter) { e.isSuspend = false })
	case proto.CmdStop:
		d.mu.Lock()
		delete(d.emitters, cmd.ID)
		d.mu.Unlock()
	case proto.CmdLock:
		d.lockOwner.CompareAndSwap(0, cmd.ID)
	case proto.CmdUnlock:
		d.lockOwner.Store(0)
	case proto.CmdSignal:
		if err := applyAction(d.adapter, d.store, cmd.Action); err != nil {
			d.log.Error().Err(err).Str("action", actionName(cmd.Action.Kind)).Msg("signal action failed")
		}
	case proto.CmdRequest:
		reply := resolveQuery(d.adapter, d.store, cmd.Query)
		d.sendTo(cmd.Query.ID, proto.ResponseMsg(reply))
	}
}

func (d *Dispatcher) withEmitter(id uint64, fn func(*emitter)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if e, ok := d.emitters[id]; ok {
		fn(e)
	}
}

// sendTo delivers a Msg to one emitter, or broadcasts it to every
// non-suspended emitter when id is the Broadcast sentinel (0). A send
// that would block is dropped rather than retried, the idiomatic Go
// equivalent of "retry once on poison, then skip": Go channels can't be
// poisoned, but one slow consumer must never stall the signal thread.
func (d *Dispatcher) sendTo(id uint64, msg proto.Msg) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if id != 0 {
		if e, ok := d.emitters[id]; ok && e.isRunning {
			d.trySend(e, msg)
		}
		return
	}
	for eid, e := range d.emitters {
		if !e.isRunning || e.isSuspend {
			continue
		}
		_ = eid
		d.trySend(e, msg)
	}
}

func (d *Dispatcher) trySend(e *emitter, msg proto.Msg) {
	select {
	case e.eventTx <- msg:
	default:
		d.log.Warn().Msg("dropping event for a backlogged handle")
	}
}

// Shutdown stops the signal thread and clears the emitter registry. The
// input thread is left to die with the process, same as
// dispatcher/mod.rs's shutdown/Drop: there is no clean way to interrupt a
// blocking read on the input device.
func (d *Dispatcher) Shutdown() error {
	d.isRunning.Store(false)
	d.mu.Lock()
	for id := range d.emitters {
		delete(d.emitters, id)
	}
	d.mu.Unlock()
	d.wg.Wait()
	return d.adapter.Close()
}

func actionName(k proto.ActionKind) string {
	names := map[proto.ActionKind]string{
		proto.ActionGoto: "goto", proto.ActionUp: "up", proto.ActionDown: "down",
		proto.ActionLeft: "left", proto.ActionRight: "right", proto.ActionClear: "clear",
		proto.ActionPrints: "prints", proto.ActionPrintf: "printf",
		proto.ActionSetContent: "set_content", proto.ActionFlush: "flush",
		proto.ActionRender: "render", proto.ActionRefresh: "refresh",
		proto.ActionResize: "resize", proto.ActionSetFx: "set_fx",
		proto.ActionSetFg: "set_fg", proto.ActionSetBg: "set_bg",
		proto.ActionSetStyles: "set_styles", proto.ActionResetStyles: "reset_styles",
		proto.ActionHideCursor: "hide_cursor", proto.ActionShowCursor: "show_cursor",
		proto.ActionEnableMouse: "enable_mouse", proto.ActionDisableMouse: "disable_mouse",
		proto.ActionRaw: "raw", proto.ActionCook: "cook",
		proto.ActionNewScreen: "new_screen", proto.ActionSwitchTo: "switch_to",
		proto.ActionResized: "resized", proto.ActionSyncMarker: "sync_marker",
		proto.ActionJump: "jump", proto.ActionSyncTabSize: "sync_tab_size",
	}
	if n, ok := names[k]; ok {
		return n
	}
	return "unknown"
}
