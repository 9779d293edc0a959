package telemetry

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"io"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harveysanders/picospeaker/speaker/player"
)

const (
	packetConnect = 0x10
	packetPublish = 0x30
)

var connack = []byte{0x20, 0x02, 0x00, 0x00}

// readPacket reads one MQTT control packet: the fixed header byte, the
// variable length remaining length and the rest of the packet.
func readPacket(r io.Reader) (header byte, body []byte, err error) {
	var b [1]byte
	if _, err = io.ReadFull(r, b[:]); err != nil {
		return 0, nil, err
	}
	header = b[0]
	length, mult := 0, 1
	for {
		if _, err = io.ReadFull(r, b[:]); err != nil {
			return 0, nil, err
		}
		length += int(b[0]&0x7f) * mult
		if b[0]&0x80 == 0 {
			break
		}
		mult *= 128
	}
	body = make([]byte, length)
	_, err = io.ReadFull(r, body)
	return header, body, err
}

// decodePublish splits a QoS 0 PUBLISH body into topic and payload.
func decodePublish(t *testing.T, body []byte) (string, []byte) {
	t.Helper()
	require.GreaterOrEqual(t, len(body), 2)
	n := int(binary.BigEndian.Uint16(body))
	require.GreaterOrEqual(t, len(body), 2+n)
	return string(body[2 : 2+n]), body[2+n:]
}

type published struct {
	topic    string
	snapshot player.Snapshot
}

// broker accepts a single client on conn: it checks the CONNECT, replies
// with CONNACK and forwards every PUBLISH to out.
func broker(t *testing.T, conn net.Conn, clientID string, out chan<- published) {
	defer conn.Close()
	header, body, err := readPacket(conn)
	if err != nil {
		t.Errorf("broker: read connect: %v", err)
		return
	}
	if header&0xf0 != packetConnect {
		t.Errorf("broker: got packet %#x, want CONNECT", header)
		return
	}
	if !bytes.Contains(body, []byte(clientID)) {
		t.Errorf("broker: CONNECT does not carry client id %q", clientID)
	}
	if _, err := conn.Write(connack); err != nil {
		t.Errorf("broker: write connack: %v", err)
		return
	}
	for {
		header, body, err := readPacket(conn)
		if err != nil {
			return
		}
		if header&0xf0 != packetPublish {
			continue
		}
		topic, payload := decodePublish(t, body)
		var s player.Snapshot
		if err := json.Unmarshal(payload, &s); err != nil {
			t.Errorf("broker: payload %q: %v", payload, err)
			return
		}
		out <- published{topic: topic, snapshot: s}
	}
}

func pipeDialer(t *testing.T, clientID string, out chan<- published) (Dialer, *atomic.Int32) {
	var dials atomic.Int32
	return func(context.Context) (Conn, error) {
		dials.Add(1)
		client, server := net.Pipe()
		go broker(t, server, clientID, out)
		return client, nil
	}, &dials
}

func receive(t *testing.T, ch <-chan published) published {
	t.Helper()
	select {
	case p := <-ch:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for publish")
		return published{}
	}
}

func TestClientPublishesSnapshots(t *testing.T) {
	out := make(chan published, 4)
	dial, _ := pipeDialer(t, "kitchen", out)
	c := &Client{ID: "kitchen", Topic: "picospeaker/state", Timeout: time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	snapshots := make(chan player.Snapshot)
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, dial, snapshots) }()

	want := player.Snapshot{Radio: true, Volume: 60, Channel: 2}
	snapshots <- want
	got := receive(t, out)
	assert.Equal(t, "picospeaker/state", got.topic)
	assert.Equal(t, want, got.snapshot)

	want.Bluetooth = true
	snapshots <- want
	assert.Equal(t, want, receive(t, out).snapshot)

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestClientReturnsWhenSnapshotsClosed(t *testing.T) {
	out := make(chan published, 4)
	dial, _ := pipeDialer(t, "sim", out)
	c := &Client{ID: "sim", Topic: "t", Timeout: time.Second}

	snapshots := make(chan player.Snapshot, 1)
	snapshots <- player.Snapshot{Volume: 10}
	close(snapshots)

	err := c.Run(context.Background(), dial, snapshots)
	require.NoError(t, err)
	assert.Equal(t, 10, receive(t, out).snapshot.Volume)
}

func TestClientHeartbeatRepublishes(t *testing.T) {
	out := make(chan published, 8)
	dial, _ := pipeDialer(t, "hb", out)
	c := &Client{ID: "hb", Topic: "t", Timeout: time.Second, HeartbeatInterval: 20 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	snapshots := make(chan player.Snapshot)
	go c.Run(ctx, dial, snapshots)

	snapshots <- player.Snapshot{Volume: 70}
	assert.Equal(t, 70, receive(t, out).snapshot.Volume)
	assert.Equal(t, 70, receive(t, out).snapshot.Volume, "heartbeat should resend the last snapshot")
}

func TestClientRedialsAfterFailure(t *testing.T) {
	var dials atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dial := func(context.Context) (Conn, error) {
		n := dials.Add(1)
		if n == 1 {
			return nil, errors.New("connection refused")
		}
		// The broker hangs up without answering the CONNECT.
		client, server := net.Pipe()
		go func() {
			readPacket(server)
			server.Close()
			if n >= 3 {
				cancel()
			}
		}()
		return client, nil
	}
	c := &Client{Topic: "t", Timeout: time.Second, RetryDelay: time.Millisecond}

	err := c.Run(ctx, dial, make(chan player.Snapshot))
	require.ErrorIs(t, err, context.Canceled)
	assert.GreaterOrEqual(t, dials.Load(), int32(3))
	assert.Contains(t, c.ID, "picospeaker-")
}

func TestClientReturnsWhenClosedWhileDisconnected(t *testing.T) {
	var dials atomic.Int32
	dial := func(context.Context) (Conn, error) {
		dials.Add(1)
		return nil, errors.New("connection refused")
	}
	c := &Client{Topic: "t", RetryDelay: time.Millisecond}

	snapshots := make(chan player.Snapshot)
	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background(), dial, snapshots) }()

	require.Eventually(t, func() bool { return dials.Load() >= 2 }, time.Second, time.Millisecond)
	close(snapshots)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run kept redialing after snapshots was closed")
	}
}

func TestClientPublishesSnapshotHeldWhileDisconnected(t *testing.T) {
	out := make(chan published, 4)
	var dials atomic.Int32
	dial := func(context.Context) (Conn, error) {
		if dials.Add(1) == 1 {
			return nil, errors.New("connection refused")
		}
		client, server := net.Pipe()
		go broker(t, server, "late", out)
		return client, nil
	}
	c := &Client{ID: "late", Topic: "t", Timeout: time.Second, RetryDelay: 200 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	snapshots := make(chan player.Snapshot)
	go c.Run(ctx, dial, snapshots)

	// Both are taken while waiting to redial; only the newest is sent.
	snapshots <- player.Snapshot{Volume: 20}
	snapshots <- player.Snapshot{Volume: 30}
	assert.Equal(t, 30, receive(t, out).snapshot.Volume)
	assert.Equal(t, int32(2), dials.Load())
	select {
	case p := <-out:
		t.Fatalf("unexpected publish %+v", p)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestClientRequiresTopic(t *testing.T) {
	c := &Client{}
	err := c.Run(context.Background(), nil, nil)
	require.Error(t, err)
}

func TestLatestCoalesces(t *testing.T) {
	ch := make(chan player.Snapshot, 3)
	ch <- player.Snapshot{Volume: 1}
	ch <- player.Snapshot{Volume: 2}
	s, closed := latest(player.Snapshot{}, ch)
	assert.False(t, closed)
	assert.Equal(t, 2, s.Volume)

	close(ch)
	s, closed = latest(s, ch)
	assert.True(t, closed)
	assert.Equal(t, 2, s.Volume)
}
