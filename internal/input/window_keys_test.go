package input

import (
	"testing"

	gioinput "gioui.org/io/input"
	"gioui.org/io/key"
	"gioui.org/layout"
	"gioui.org/op"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remotekb/internal/protocol"
)

// keyFrames runs WindowKeys through a gio router the way a window loop
// does: drain, layout, frame.
type keyFrames struct {
	router gioinput.Router
	ops    op.Ops
	keys   WindowKeys
}

func (f *keyFrames) frame() []Transition {
	f.ops.Reset()
	gtx := layout.Context{Ops: &f.ops, Source: f.router.Source()}
	var got []Transition
	for {
		tr, ok := f.keys.Next(gtx)
		if !ok {
			break
		}
		got = append(got, tr)
	}
	f.keys.Layout(gtx)
	f.router.Frame(&f.ops)
	return got
}

func TestWindowKeysReceiveChords(t *testing.T) {
	f := &keyFrames{}
	f.frame()
	f.frame()

	f.router.Queue(
		key.Event{Name: "A", State: key.Press},
		key.Event{Name: key.NameShift, State: key.Press, Modifiers: key.ModShift},
		key.Event{Name: "A", State: key.Press, Modifiers: key.ModShift},
		key.Event{Name: "C", State: key.Press, Modifiers: key.ModCtrl},
	)
	got := f.frame()
	assert.Equal(t, []Transition{
		press(protocol.Char('A')),
		press(protocol.KeyShift),
		press(protocol.Char('A')),
		press(protocol.Char('C')),
	}, got)
	assert.True(t, f.keys.Focused())
}

func TestWindowKeysStayFocused(t *testing.T) {
	f := &keyFrames{}
	f.frame()
	f.frame()

	f.router.Queue(key.Event{Name: key.NameCtrl, State: key.Press, Modifiers: key.ModCtrl})
	require.Equal(t, []Transition{press(protocol.KeyCtrl)}, f.frame())

	for i := 0; i < 3; i++ {
		f.frame()
	}
	f.router.Queue(
		key.Event{Name: key.NameCtrl, State: key.Release},
		key.Event{Name: key.NameReturn, State: key.Press},
	)
	assert.Equal(t, []Transition{release(protocol.KeyCtrl), press(protocol.KeyReturn)}, f.frame())
}
