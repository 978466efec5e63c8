// Package window captures keyboard input through a focused gio window.
package window

import (
	"log"
	"sync"

	"gioui.org/app"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"remotekb/internal/input"
)

// Window is an input.Capture backed by a desktop window. Key events are only
// delivered while the window has keyboard focus.
type Window struct {
	title  string
	status string
	win    *app.Window
	keys   input.WindowKeys
	events chan input.Transition
	done   chan struct{}
	once   sync.Once
}

var _ input.Capture = (*Window)(nil)

// New creates a window with the given title. status is drawn inside it.
func New(title, status string) *Window {
	return &Window{
		title:  title,
		status: status,
		win:    new(app.Window),
		events: make(chan input.Transition),
		done:   make(chan struct{}),
	}
}

// Start opens the window and begins delivering events. The caller must run
// app.Main on the main goroutine.
func (w *Window) Start() error {
	w.win.Option(app.Title(w.title))
	w.win.Option(app.Size(unit.Dp(480), unit.Dp(160)))
	go w.loop()
	return nil
}

// Stop closes the window. Events is closed once the window is gone.
func (w *Window) Stop() error {
	w.once.Do(func() {
		close(w.done)
		w.win.Perform(system.ActionClose)
	})
	return nil
}

// Events returns the transition channel.
func (w *Window) Events() <-chan input.Transition {
	return w.events
}

func (w *Window) loop() {
	defer close(w.events)

	th := material.NewTheme()
	var ops op.Ops
	for {
		switch e := w.win.Event().(type) {
		case app.DestroyEvent:
			if e.Err != nil {
				log.Printf("Window: closed with error: %v", e.Err)
			}
			return
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			if !w.drain(gtx) {
				// Stop was called; keep pumping until DestroyEvent
				e.Frame(gtx.Ops)
				continue
			}

			w.keys.Layout(gtx)
			layout.UniformInset(unit.Dp(16)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return material.Body1(th, w.status).Layout(gtx)
			})
			e.Frame(gtx.Ops)
		}
	}
}

// drain forwards every pending key event. It returns false once Stop has
// been called.
func (w *Window) drain(gtx layout.Context) bool {
	for {
		tr, ok := w.keys.Next(gtx)
		if !ok {
			return true
		}
		select {
		case w.events <- tr:
		case <-w.done:
			return false
		}
	}
}
