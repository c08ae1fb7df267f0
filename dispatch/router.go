package dispatch

import (
	"termcore/cellbuf"
	"termcore/proto"
	"termcore/screen"
	"termcore/term"
	"termcore/termerr"
)

// applyAction is the Go counterpart of
// original_source/src/dispatcher/router.rs's handle_action (spec.md §4.9).
// Goto/Up/Down/Left/Right/Clear call the device first and update the
// Store only when that call succeeds, as router.rs's handle_action calls
// term.goto/up/down/left/right/clear before the matching store.sync_*
// call. Resize and the style and mode Actions update the Store first and
// then return the device call's error, so their Store change is kept
// even when the device call fails. SetContent never touches the device:
// router.rs's own SetContent handling only ever calls store.sync_goto +
// store.sync_content, which resolves spec.md's SetContent Open Question
// the same way.
func applyAction(adapter term.Adapter, store *screen.Store, a proto.Action) error {
	switch a.Kind {
	case proto.ActionGoto:
		if err := adapter.Goto(a.Col, a.Row); err != nil {
			return err
		}
		store.SyncGoto(a.Col, a.Row)
	case proto.ActionUp:
		if err := adapter.Up(a.N); err != nil {
			return err
		}
		store.SyncUp(a.N)
	case proto.ActionDown:
		if err := adapter.Down(a.N); err != nil {
			return err
		}
		store.SyncDown(a.N)
	case proto.ActionLeft:
		if err := adapter.Left(a.N); err != nil {
			return err
		}
		store.SyncLeft(a.N)
	case proto.ActionRight:
		if err := adapter.Right(a.N); err != nil {
			return err
		}
		store.SyncRight(a.N)
	case proto.ActionClear:
		if err := adapter.Clear(a.ClearKind); err != nil {
			return err
		}
		store.SyncClear(a.ClearKind)

	case proto.ActionPrints, proto.ActionPrintf:
		if err := adapter.Prints(a.Text); err != nil {
			return err
		}
		return adapter.Flush()

	case proto.ActionSetContent:
		store.SyncGoto(a.Col, a.Row)
		store.SyncContent(a.Text)

	case proto.ActionFlush:
		return adapter.Flush()
	case proto.ActionRender:
		return adapter.Render(currentBuffer(store))
	case proto.ActionRefresh:
		return adapter.Refresh(currentBuffer(store))

	case proto.ActionResize:
		store.SyncSize(a.W, a.H)
		return adapter.Resize(a.W, a.H)

	case proto.ActionSetFx:
		store.SyncStyle(proto.SetFx(a.Fx))
		return adapter.SetStyle(proto.SetFx(a.Fx))
	case proto.ActionSetFg:
		store.SyncStyle(proto.SetFg(a.Fg))
		return adapter.SetStyle(proto.SetFg(a.Fg))
	case proto.ActionSetBg:
		store.SyncStyle(proto.SetBg(a.Bg))
		return adapter.SetStyle(proto.SetBg(a.Bg))
	case proto.ActionSetStyles:
		store.SyncStyles(a.Fg, a.Bg, a.Fx)
		return adapter.SetStyles(a.Fg, a.Bg, a.Fx)
	case proto.ActionResetStyles:
		store.SyncStyles(proto.Reset, proto.Reset, proto.EffectReset)
		return adapter.ResetStyles()

	case proto.ActionHideCursor:
		store.SyncCursor(false)
		return adapter.HideCursor()
	case proto.ActionShowCursor:
		store.SyncCursor(true)
		return adapter.ShowCursor()
	case proto.ActionEnableMouse:
		store.SyncMouse(true)
		return adapter.EnableMouse()
	case proto.ActionDisableMouse:
		store.SyncMouse(false)
		return adapter.DisableMouse()
	case proto.ActionRaw:
		store.SyncRaw(true)
		return adapter.Raw()
	case proto.ActionCook:
		store.SyncRaw(false)
		return adapter.Cook()

	case proto.ActionNewScreen:
		return doNewScreen(adapter, store)
	case proto.ActionSwitchTo:
		return doSwitchTo(adapter, store, a.ScreenID)

	case proto.ActionResized:
		w, h, err := adapter.Size()
		if err != nil {
			return err
		}
		store.SyncSize(w, h)

	case proto.ActionSyncMarker:
		store.SyncMarker(a.Col, a.Row)
	case proto.ActionJump:
		store.Jump()
	case proto.ActionSyncTabSize:
		store.SyncTabSize(a.N)
	}
	return nil
}

func currentBuffer(store *screen.Store) *cellbuf.ScreenBuffer {
	return store.Current().Buffer
}

// doNewScreen pushes an alt Screen, entering the terminal's alternate
// screen buffer only when leaving the main screen (id 0); switching
// between two alt screens just clears, matching router.rs's NewScreen.
func doNewScreen(adapter term.Adapter, store *screen.Store) error {
	wasMain := store.ID() == 0
	id := store.NewScreen()
	if wasMain {
		if err := adapter.Prints("\x1b[?1049h"); err != nil {
			return err
		}
	}
	if err := store.Set(id); err != nil {
		return err
	}
	return adapter.Render(currentBuffer(store))
}

// doSwitchTo re-activates an existing screen, toggling the terminal's
// alternate-screen mode and re-applying the target's raw/mouse/cursor
// flags to the device before repainting it (router.rs SwitchTo).
func doSwitchTo(adapter term.Adapter, store *screen.Store, id int) error {
	if id == store.ID() {
		return nil
	}
	if !store.Exists(id) {
		return termerr.New(termerr.NotFound, "switch_to: unknown screen id")
	}
	leavingMain := store.ID() == 0 && id != 0
	enteringMain := store.ID() != 0 && id == 0
	if err := store.Set(id); err != nil {
		return err
	}

	switch {
	case leavingMain:
		if err := adapter.Prints("\x1b[?1049h"); err != nil {
			return err
		}
	case enteringMain:
		if err := adapter.Prints("\x1b[?1049l"); err != nil {
			return err
		}
	}

	target := store.Current()
	if target.IsRaw() {
		if err := adapter.Raw(); err != nil {
			return err
		}
	} else {
		if err := adapter.Cook(); err != nil {
			return err
		}
	}
	if target.IsMouse() {
		if err := adapter.EnableMouse(); err != nil {
			return err
		}
	} else {
		if err := adapter.DisableMouse(); err != nil {
			return err
		}
	}
	if target.IsCursor() {
		if err := adapter.ShowCursor(); err != nil {
			return err
		}
	} else {
		if err := adapter.HideCursor(); err != nil {
			return err
		}
	}
	return adapter.Render(currentBuffer(store))
}

// resolveQuery answers a synchronous Query against the current Store
// state. QueryPos is the one case with two shapes: a console adapter
// implementing term.SyncPosReader answers immediately with ReplyPos; an
// ANSI adapter has no synchronous read, so this only fires the DSR write
// and returns EmptyReply — the real answer arrives later as a CursorPos
// Msg routed to whichever handle holds the lock (spec.md §4.10), which
// EventHandle.Pos waits for.
func resolveQuery(adapter term.Adapter, store *screen.Store, q proto.Query) proto.Reply {
	switch q.Kind {
	case proto.QuerySize:
		w, h := store.Size()
		return proto.Reply{Kind: proto.ReplySize, W: w, H: h}
	case proto.QueryCoord:
		col, row := store.Coord()
		return proto.Reply{Kind: proto.ReplyCoord, Col: col, Row: row}
	case proto.QueryPos:
		if reader, ok := adapter.(term.SyncPosReader); ok {
			col, row, err := reader.Pos()
			if err != nil {
				return proto.EmptyReply
			}
			return proto.Reply{Kind: proto.ReplyPos, Col: col, Row: row}
		}
		_ = adapter.RequestPos()
		return proto.EmptyReply
	case proto.QueryGetCh:
		return proto.Reply{Kind: proto.ReplyGetCh, Text: store.GetCh()}
	case proto.QueryScreen:
		return proto.Reply{Kind: proto.ReplyScreen, ScreenID: store.ID()}
	case proto.QueryIsRaw:
		return proto.Reply{Kind: proto.ReplyIsRaw, IsRaw: store.IsRaw()}
	default:
		return proto.EmptyReply
	}
}
