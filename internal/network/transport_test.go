package network

import (
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remotekb/internal/input"
	"remotekb/internal/protocol"
)

func listenerPort(t *testing.T, ln Listener) int {
	t.Helper()
	addr, ok := ln.Addr().(*net.TCPAddr)
	require.True(t, ok)
	return addr.Port
}

func roundTrip(t *testing.T, transport Transport) {
	ln, err := Listen("127.0.0.1", 0, transport)
	require.NoError(t, err)
	port := listenerPort(t, ln)

	accepted := make(chan Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err != nil {
			close(accepted)
			return
		}
		accepted <- c
	}()

	client, err := Dial("127.0.0.1", port, transport)
	require.NoError(t, err)

	hostConn, ok := <-accepted
	require.True(t, ok, "accept failed")
	defer hostConn.Close()

	// The listener is gone once the first client is in
	_, err = Dial("127.0.0.1", port, transport)
	assert.Error(t, err)

	inj := &recordingInjector{}
	done := make(chan error, 1)
	go func() { done <- NewHostSession(hostConn, inj).Run() }()

	src := newFakeCapture(
		input.Transition{Key: protocol.Char('A'), Pressed: true},
		input.Transition{Key: protocol.KeyF7, Pressed: true},
		input.Transition{Key: protocol.KeyF7, Pressed: false},
		input.Transition{Key: protocol.Char('A'), Pressed: false},
	)
	require.NoError(t, NewClientSession(client).Run(src))
	require.NoError(t, client.Close())

	require.NoError(t, <-done)
	assert.Equal(t, []injected{
		{protocol.Char('A'), true},
		{protocol.KeyF7, true},
		{protocol.KeyF7, false},
		{protocol.Char('A'), false},
	}, inj.Calls())
}

func TestTCPRoundTrip(t *testing.T) {
	roundTrip(t, TransportTCP)
}

func TestWSRoundTrip(t *testing.T) {
	roundTrip(t, TransportWS)
}

func TestParseTransport(t *testing.T) {
	tr, err := ParseTransport("tcp")
	require.NoError(t, err)
	assert.Equal(t, TransportTCP, tr)

	tr, err = ParseTransport("ws")
	require.NoError(t, err)
	assert.Equal(t, TransportWS, tr)

	_, err = ParseTransport("udp")
	assert.Error(t, err)
}

func TestListenFailsOnBusyPort(t *testing.T) {
	ln, err := Listen("127.0.0.1", 0, TransportTCP)
	require.NoError(t, err)
	defer ln.Close()

	_, err = Listen("127.0.0.1", listenerPort(t, ln), TransportTCP)
	assert.Error(t, err)
}

func TestLocalIPsAreIPv4(t *testing.T) {
	ips, err := LocalIPs()
	require.NoError(t, err)
	for _, ip := range ips {
		parsed := net.ParseIP(ip)
		require.NotNil(t, parsed, ip)
		assert.NotNil(t, parsed.To4(), ip)
		assert.False(t, parsed.IsLoopback(), ip)
	}
}

func TestWSCloseSendsCloseFrame(t *testing.T) {
	ln, err := Listen("127.0.0.1", 0, TransportWS)
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err == nil {
			accepted <- c
		}
		close(accepted)
	}()

	client, err := Dial("127.0.0.1", listenerPort(t, ln), TransportWS)
	require.NoError(t, err)
	hostConn, ok := <-accepted
	require.True(t, ok)
	defer hostConn.Close()

	require.NoError(t, client.Close())

	n, err := hostConn.Read(make([]byte, 1))
	assert.Zero(t, n)
	assert.ErrorIs(t, err, io.EOF)
}
