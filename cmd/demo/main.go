// Command demo is a minimal smoke test for the dispatcher: it opens the
// terminal device, spawns one EventHandle, renders a counter, and reacts
// to key input until 'q' or Ctrl+C, the way basementui's own cmd/demo
// drives tui.Screen (spec.md §6).
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"

	"termcore/dispatch"
	"termcore/proto"
	"termcore/screen"
	"termcore/term"
)

// opts mirrors peco-peco's go-flags layout: a flat struct of long/short
// options parsed straight off os.Args.
type opts struct {
	AltScreen bool   `long:"alt-screen" description:"start in a fresh alternate screen"`
	TabSize   int    `long:"tab-size" default:"8" description:"tab stop width"`
	LogLevel  string `long:"log-level" default:"info" description:"zerolog level: debug, info, warn, error"`
}

func main() {
	var o opts
	if _, err := flags.Parse(&o); err != nil {
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(o.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	adapter := term.NewANSITerminal()
	w, h, err := adapter.Size()
	if err != nil {
		log.Fatal().Err(err).Msg("get terminal size")
	}
	store := screen.NewStore(w, h)

	d := dispatch.New(adapter, store, log)
	if err := d.Init(); err != nil {
		log.Fatal().Err(err).Msg("init dispatcher")
	}
	defer d.Shutdown()

	handle := d.Spawn()
	handle.Signal(proto.SyncTabSize(int16(o.TabSize)))
	handle.Signal(proto.Raw())
	handle.Signal(proto.HideCursor())
	if o.AltScreen {
		handle.Signal(proto.NewScreen())
	}

	quit := make(chan struct{})
	go pollInput(handle, quit)

	count := 0
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			count++
			handle.Signal(proto.SetContent(fmt.Sprintf("count: %d (press q to quit)", count), 0, 0))
			handle.Signal(proto.Refresh())
		case <-quit:
			handle.Signal(proto.ShowCursor())
			handle.Signal(proto.Cook())
			return
		}
	}
}

// pollInput blocks on the handle's event channel and signals quit on 'q'
// or Ctrl+C, the same exit gesture basementui's cmd/demo listens for.
func pollInput(h *dispatch.EventHandle, quit chan<- struct{}) {
	for {
		msg, ok := h.PollSync()
		if !ok {
			close(quit)
			return
		}
		if msg.Kind != proto.MsgReceived || msg.Received.Kind != proto.EventKeyboard {
			continue
		}
		ev := msg.Received.Key
		if ev.Rune == 'q' {
			close(quit)
			return
		}
		if ev.Mod.Has(proto.ModCtrl) && ev.Rune == 'c' {
			close(quit)
			return
		}
	}
}
