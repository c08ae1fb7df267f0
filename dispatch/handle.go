package dispatch

import (
	"termcore/proto"
	"termcore/termerr"
)

// EventHandle is a consumer's receiver plus a cloned sender into the
// dispatcher's single signal channel (spec.md §4.11,
// original_source/src/dispatcher/mod.rs EventHandle). Many EventHandles
// share one signalTx (many-to-one); each owns its own eventRx
// (one-to-one), matching the many-producer/one-consumer vs.
// one-producer/one-consumer split spec.md's concurrency model calls for.
type EventHandle struct {
	id      uint64
	eventRx chan proto.Msg
	signalTx chan<- proto.Cmd
}

func (h *EventHandle) ID() uint64 { return h.id }

// Signal enqueues an Action for the signal thread to apply.
func (h *EventHandle) Signal(a proto.Action) { h.signalTx <- proto.SignalCmd(a) }

// Suspend tells the dispatcher to stop broadcasting to this handle
// without destroying its registry entry.
func (h *EventHandle) Suspend() { h.signalTx <- proto.SuspendCmd(h.id) }

// Transmit reverses Suspend.
func (h *EventHandle) Transmit() { h.signalTx <- proto.TransmitCmd(h.id) }

// Stop removes this handle's registry entry permanently.
func (h *EventHandle) Stop() { h.signalTx <- proto.StopCmd(h.id) }

// Lock makes this handle the sole recipient of every input event until
// Unlock, the routing original_source calls the "lock owner" (spec.md
// §4.10); Pos uses it so the CursorPos reply reaches only this handle. A
// Lock sent while another handle holds the lock is ignored.
func (h *EventHandle) Lock() { h.signalTx <- proto.LockCmd(h.id) }

// Unlock clears the lock owner, returning input routing to broadcast.
func (h *EventHandle) Unlock() { h.signalTx <- proto.UnlockCmd() }

// PollSync blocks for the next Msg.
func (h *EventHandle) PollSync() (proto.Msg, bool) {
	msg, ok := <-h.eventRx
	return msg, ok
}

// PollAsync returns immediately with ok == false if no Msg is queued.
func (h *EventHandle) PollAsync() (proto.Msg, bool) {
	select {
	case msg, ok := <-h.eventRx:
		return msg, ok
	default:
		return proto.Msg{}, false
	}
}

// PollLatestAsync drains eventRx and returns only the newest queued Msg.
func (h *EventHandle) PollLatestAsync() (proto.Msg, bool) {
	msg, ok := proto.Msg{}, false
	for {
		next, has := h.PollAsync()
		if !has {
			return msg, ok
		}
		msg, ok = next, true
	}
}

// Request issues a synchronous Query and blocks for its Reply. eventRx
// also carries broadcast MsgReceived input events, so a keyboard/mouse
// event queued ahead of the dispatcher's answer is discarded rather than
// mistaken for the reply — spec.md §4.11 requires blocking until a
// Response specifically is observed.
func (h *EventHandle) Request(kind proto.QueryKind) (proto.Reply, error) {
	h.signalTx <- proto.RequestCmd(proto.Query{Kind: kind, ID: h.id})
	for {
		msg, ok := h.PollSync()
		if !ok {
			return proto.Reply{}, termerr.New(termerr.Channel, "event channel closed while awaiting reply")
		}
		if msg.Kind == proto.MsgResponse {
			return msg.Response, nil
		}
	}
}

// Pos implements the §4.10/§4.11 cursor-position protocol (scenario E3):
// lock so the CursorPos event this request provokes is routed to nobody
// else, enable raw mode first if it wasn't already on — the DSR reply
// bytes must reach the input thread unbuffered by the tty line
// discipline — issue the query, and on platforms where resolveQuery
// could not answer synchronously (the ANSI DSR round trip) wait for the
// CursorPos event the input thread delivers once the device replies.
// Cook mode is restored afterward only if this call is what enabled raw.
// A console adapter answers synchronously via GetConsoleScreenBufferInfo
// and the reply itself already carries Kind == ReplyPos, so no wait (and
// no raw-mode dependency) applies there, though the harmless raw/cook
// bracket still runs uniformly.
func (h *EventHandle) Pos() (int16, int16, error) {
	h.Lock()
	defer h.Unlock()

	wasRaw, err := h.Request(proto.QueryIsRaw)
	if err != nil {
		return 0, 0, err
	}
	enabledRaw := !wasRaw.IsRaw
	if enabledRaw {
		h.Signal(proto.Raw())
	}

	reply, err := h.Request(proto.QueryPos)
	if err != nil {
		return 0, 0, err
	}

	var col, row int16
	if reply.Kind == proto.ReplyPos {
		col, row = reply.Col, reply.Row
	} else {
		for {
			msg, ok := h.PollSync()
			if !ok {
				return 0, 0, termerr.New(termerr.Channel, "event channel closed while awaiting cursor position")
			}
			if msg.Kind == proto.MsgReceived && msg.Received.Kind == proto.EventCursorPos {
				col, row = msg.Received.Col, msg.Received.Row
				break
			}
		}
	}

	if enabledRaw {
		h.Signal(proto.Cook())
	}
	return col, row, nil
}
