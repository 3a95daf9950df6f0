package client

import (
	"fmt"
	"net"
	"time"

	"github.com/skypro1111/websdr-client/internal/protocol"
)

// applySetup sends the session bring-up sequence after a successful
// handshake. A short delay precedes each command except the final two,
// which the receiver expects back-to-back; the tuning command replays
// whatever state accumulated while disconnected.
func (c *Client) applySetup(conn net.Conn) {
	commands := []string{
		"SET auth t=kiwi p=",
		fmt.Sprintf("SET AR OK in=%d out=%d", c.opts.SourceRate, c.opts.OutputRate),
		"SET squelch=0 max=0",
		"SET genattn=0",
		c.tuning.command(),
		"SET keepalive",
	}
	for _, cmd := range commands {
		time.Sleep(c.opts.SetupDelay)
		c.sendCommand(conn, cmd)
	}
	c.sendCommand(conn, "SET AUDIO_COMP=0")
	c.sendCommand(conn, "SET AUDIO_START=1")
}

// sendCommand frames and writes one text command. Send errors are
// logged and counted but never tear the connection down here; the
// receive loop notices a dead socket on its next read.
func (c *Client) sendCommand(conn net.Conn, cmd string) {
	frame, err := protocol.Encode(protocol.OpcodeText, []byte(cmd))
	if err != nil {
		if c.metrics != nil {
			c.metrics.RecordSendError()
		}
		c.logger.Warn("command dropped", "command", cmd, "error", err)
		return
	}

	c.sendMu.Lock()
	_, err = conn.Write(frame)
	c.sendMu.Unlock()
	if err != nil {
		if c.metrics != nil {
			c.metrics.RecordSendError()
		}
		c.logger.Warn("command write failed", "command", cmd, "error", err)
		return
	}
	if c.metrics != nil {
		c.metrics.RecordCommandSent()
	}
	c.logger.Debug("command sent", "command", cmd)
}
