package proto

// ActionKind tags which field of Action is populated.
type ActionKind uint8

const (
	ActionGoto ActionKind = iota
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionClear
	ActionPrints
	ActionPrintf
	ActionSetContent
	ActionFlush
	ActionRender
	ActionRefresh
	ActionResize
	ActionSetFx
	ActionSetFg
	ActionSetBg
	ActionSetStyles
	ActionResetStyles
	ActionHideCursor
	ActionShowCursor
	ActionEnableMouse
	ActionDisableMouse
	ActionRaw
	ActionCook
	ActionNewScreen
	ActionSwitchTo
	ActionResized
	ActionSyncMarker
	ActionJump
	ActionSyncTabSize
)

// Action is the full set of mutations the signal thread applies atomically
// to the terminal device and then mirrors into the Store. See §4.9.
type Action struct {
	Kind ActionKind

	// Cursor / Resize / SetContent / SwitchTo
	Col, Row int16
	N        int16
	W, H     int16
	ScreenID int

	// Output
	Text string

	// Style
	Fg, Bg Color
	Fx     Effect

	// Clear
	ClearKind Clear
}

func Goto(col, row int16) Action  { return Action{Kind: ActionGoto, Col: col, Row: row} }
func Up(n int16) Action            { return Action{Kind: ActionUp, N: n} }
func Down(n int16) Action          { return Action{Kind: ActionDown, N: n} }
func Left(n int16) Action          { return Action{Kind: ActionLeft, N: n} }
func Right(n int16) Action         { return Action{Kind: ActionRight, N: n} }
func ClearRegion(c Clear) Action   { return Action{Kind: ActionClear, ClearKind: c} }
func Prints(s string) Action       { return Action{Kind: ActionPrints, Text: s} }
func Printf(s string) Action       { return Action{Kind: ActionPrintf, Text: s} }
func SetContent(s string, col, row int16) Action {
	return Action{Kind: ActionSetContent, Text: s, Col: col, Row: row}
}
func Flush() Action   { return Action{Kind: ActionFlush} }
func Render() Action  { return Action{Kind: ActionRender} }
func Refresh() Action { return Action{Kind: ActionRefresh} }
func Resize(w, h int16) Action { return Action{Kind: ActionResize, W: w, H: h} }

func SetFxAction(fx Effect) Action { return Action{Kind: ActionSetFx, Fx: fx} }
func SetFgAction(c Color) Action   { return Action{Kind: ActionSetFg, Fg: c} }
func SetBgAction(c Color) Action   { return Action{Kind: ActionSetBg, Bg: c} }
func SetStyles(f, b Color, fx Effect) Action {
	return Action{Kind: ActionSetStyles, Fg: f, Bg: b, Fx: fx}
}
func ResetStyles() Action { return Action{Kind: ActionResetStyles} }

func HideCursor() Action    { return Action{Kind: ActionHideCursor} }
func ShowCursor() Action    { return Action{Kind: ActionShowCursor} }
func EnableMouse() Action   { return Action{Kind: ActionEnableMouse} }
func DisableMouse() Action  { return Action{Kind: ActionDisableMouse} }
func Raw() Action           { return Action{Kind: ActionRaw} }
func Cook() Action          { return Action{Kind: ActionCook} }

func NewScreen() Action          { return Action{Kind: ActionNewScreen} }
func SwitchTo(id int) Action     { return Action{Kind: ActionSwitchTo, ScreenID: id} }
func Resized() Action            { return Action{Kind: ActionResized} }
func SyncMarker(col, row int16) Action {
	return Action{Kind: ActionSyncMarker, Col: col, Row: row}
}
func Jump() Action               { return Action{Kind: ActionJump} }
func SyncTabSize(n int16) Action { return Action{Kind: ActionSyncTabSize, N: n} }

// QueryKind tags which query a Query carries.
type QueryKind uint8

const (
	QuerySize QueryKind = iota
	QueryCoord
	QueryPos
	QueryGetCh
	QueryScreen
	QueryIsRaw
)

// Query carries the requester's emitter id alongside the question.
type Query struct {
	Kind QueryKind
	ID   uint64
}

// CmdKind tags which field of Cmd is populated.
type CmdKind uint8

const (
	CmdContinue CmdKind = iota
	CmdSuspend
	CmdTransmit
	CmdStop
	CmdLock
	CmdUnlock
	CmdSignal
	CmdRequest
)

// Cmd is a single command sent into the dispatcher's signal channel.
type Cmd struct {
	Kind   CmdKind
	ID     uint64
	Action Action
	Query  Query
}

func ContinueCmd() Cmd           { return Cmd{Kind: CmdContinue} }
func SuspendCmd(id uint64) Cmd   { return Cmd{Kind: CmdSuspend, ID: id} }
func TransmitCmd(id uint64) Cmd  { return Cmd{Kind: CmdTransmit, ID: id} }
func StopCmd(id uint64) Cmd      { return Cmd{Kind: CmdStop, ID: id} }
func LockCmd(id uint64) Cmd      { return Cmd{Kind: CmdLock, ID: id} }
func UnlockCmd() Cmd             { return Cmd{Kind: CmdUnlock} }
func SignalCmd(a Action) Cmd     { return Cmd{Kind: CmdSignal, Action: a} }
func RequestCmd(q Query) Cmd     { return Cmd{Kind: CmdRequest, Query: q} }

// ReplyKind tags which field of Reply is populated.
type ReplyKind uint8

const (
	ReplySize ReplyKind = iota
	ReplyCoord
	ReplyPos
	ReplyGetCh
	ReplyScreen
	ReplyIsRaw
	ReplyEmpty
)

// Reply is the synchronous answer to a Query.
type Reply struct {
	Kind     ReplyKind
	W, H     int16
	Col, Row int16
	Text     string
	ScreenID int
	IsRaw    bool
}

var EmptyReply = Reply{Kind: ReplyEmpty}

// MsgKind tags which field of Msg is populated.
type MsgKind uint8

const (
	MsgReceived MsgKind = iota
	MsgResponse
)

// Msg is delivered on an EventHandle's event channel: either a broadcast
// InputEvent, or the Response to a Request this handle issued.
type Msg struct {
	Kind     MsgKind
	Received InputEvent
	Response Reply
}

func ReceivedMsg(ev InputEvent) Msg { return Msg{Kind: MsgReceived, Received: ev} }
func ResponseMsg(r Reply) Msg       { return Msg{Kind: MsgResponse, Response: r} }
