// Package telemetry publishes the speaker's playback state to an MQTT
// broker.
package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	mqtt "github.com/soypat/natiu-mqtt"
	"golang.org/x/time/rate"

	"github.com/harveysanders/picospeaker/speaker/player"
)

var pubFlags, _ = mqtt.NewPublishFlags(mqtt.QoS0, false, false)

// Conn is a broker connection. *net.TCPConn and net.Pipe ends satisfy it.
type Conn interface {
	io.ReadWriteCloser
	SetDeadline(t time.Time) error
}

// Dialer opens a new connection to the broker.
type Dialer func(ctx context.Context) (Conn, error)

// Client publishes player snapshots as JSON. The zero value is usable once
// Topic is set.
type Client struct {
	ID                string        // MQTT client ID. A random one is generated if empty.
	Topic             string        // Topic snapshots are published to.
	Timeout           time.Duration // Deadline for each connect and publish.
	HeartbeatInterval time.Duration // Republish the last snapshot this often.
	RetryDelay        time.Duration // Wait between failed connection attempts.
	Logger            *slog.Logger
	// Limiter, if set, bounds the publish rate. Snapshots arriving while
	// waiting are coalesced into the newest one.
	Limiter  *rate.Limiter
	Username string // MQTT broker username (optional)
	Password string // MQTT broker password (optional, requires Username)

	packetID uint16
}

// Run connects with dial and publishes every snapshot received on
// snapshots, reconnecting whenever the connection fails. After each
// (re)connect the newest snapshot seen so far is published first. Run
// returns nil once snapshots is closed, whether or not it is connected,
// and ctx.Err() once ctx is done.
func (c *Client) Run(ctx context.Context, dial Dialer, snapshots <-chan player.Snapshot) error {
	c.setDefaults()
	if c.Topic == "" {
		return errors.New("telemetry: topic not set")
	}
	var last *player.Snapshot
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.Logger.Info("mqtt:dialing", slog.String("id", c.ID))
		conn, err := dial(ctx)
		if err != nil {
			c.Logger.Error("mqtt:dial-failed", slog.String("err", err.Error()))
		} else {
			err = c.session(ctx, conn, snapshots, &last)
			conn.Close()
			if err == nil {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.Logger.Error("mqtt:disconnected", slog.String("reason", err.Error()))
		}

		closed, err := c.wait(ctx, snapshots, &last)
		if closed || err != nil {
			return err
		}
	}
}

// wait sleeps RetryDelay between connection attempts. Snapshots arriving
// meanwhile replace last and are published once connected. closed reports
// that snapshots was closed.
func (c *Client) wait(ctx context.Context, snapshots <-chan player.Snapshot, last **player.Snapshot) (closed bool, err error) {
	timer := time.NewTimer(c.RetryDelay)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case s, ok := <-snapshots:
			if !ok {
				return true, nil
			}
			*last = &s
		case <-timer.C:
			return false, nil
		}
	}
}

func (c *Client) setDefaults() {
	if c.ID == "" {
		c.ID = "picospeaker-" + uuid.NewString()[:8]
	}
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = 30 * time.Second
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 2 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(127)}))
	}
}

// session runs one connection. A nil return means snapshots was closed.
func (c *Client) session(ctx context.Context, conn Conn, snapshots <-chan player.Snapshot, last **player.Snapshot) error {
	// Closing the connection unblocks any pending read or write.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	client := mqtt.NewClient(mqtt.ClientConfig{
		Decoder: mqtt.DecoderNoAlloc{UserBuffer: make([]byte, 1024)},
		OnPub: func(_ mqtt.Header, varPub mqtt.VariablesPublish, _ io.Reader) error {
			c.Logger.Debug("mqtt:received", slog.String("topic", string(varPub.TopicName)))
			return nil
		},
	})
	var varconn mqtt.VariablesConnect
	varconn.SetDefaultMQTT([]byte(c.ID))
	if c.Username != "" {
		varconn.Username = []byte(c.Username)
		if c.Password != "" {
			varconn.Password = []byte(c.Password)
		}
	}

	deadline := time.Now().Add(c.Timeout)
	conn.SetDeadline(deadline)
	if err := client.StartConnect(conn, &varconn); err != nil {
		return errors.New("mqtt connect: " + err.Error())
	}
	for !client.IsConnected() && time.Now().Before(deadline) {
		if err := client.HandleNext(); err != nil {
			return errors.New("mqtt connect: " + err.Error())
		}
	}
	if !client.IsConnected() {
		return errors.New("mqtt connect: timed out")
	}
	c.Logger.Info("mqtt:connected", slog.String("topic", c.Topic))
	if *last != nil {
		if err := c.publish(client, conn, **last); err != nil {
			return err
		}
	}

	heartbeat := time.NewTicker(c.HeartbeatInterval)
	defer heartbeat.Stop()
	for client.IsConnected() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s, ok := <-snapshots:
			if !ok {
				return nil
			}
			closed := false
			if c.Limiter != nil {
				if err := c.Limiter.Wait(ctx); err != nil {
					return err
				}
				s, closed = latest(s, snapshots)
			}
			*last = &s
			if err := c.publish(client, conn, s); err != nil {
				return err
			}
			if closed {
				return nil
			}
		case <-heartbeat.C:
			if *last == nil {
				continue
			}
			if err := c.publish(client, conn, **last); err != nil {
				return err
			}
		}
	}
	if err := client.Err(); err != nil {
		return err
	}
	return errors.New("mqtt: connection lost")
}

func (c *Client) publish(client *mqtt.Client, conn Conn, s player.Snapshot) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	c.packetID++
	vars := mqtt.VariablesPublish{
		TopicName:        []byte(c.Topic),
		PacketIdentifier: c.packetID,
	}
	conn.SetDeadline(time.Now().Add(c.Timeout))
	if err := client.PublishPayload(pubFlags, vars, payload); err != nil {
		return errors.New("mqtt publish: " + err.Error())
	}
	c.Logger.Debug("mqtt:published",
		slog.Uint64("packetID", uint64(vars.PacketIdentifier)),
		slog.String("stream", s.Stream()),
		slog.Int("volume", s.Volume),
	)
	return nil
}

// latest drains any snapshots already waiting on ch and returns the newest,
// reporting whether ch was closed.
func latest(s player.Snapshot, ch <-chan player.Snapshot) (newest player.Snapshot, closed bool) {
	for {
		select {
		case next, ok := <-ch:
			if !ok {
				return s, true
			}
			s = next
		default:
			return s, false
		}
	}
}
