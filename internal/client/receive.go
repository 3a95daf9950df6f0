package client

import (
	"net"
	"time"

	"github.com/skypro1111/websdr-client/internal/audio"
	"github.com/skypro1111/websdr-client/internal/protocol"
)

// receiveBufferSize fits the largest frame the receiver sends plus its
// header.
const receiveBufferSize = 8192

// receiveLoop reads frames from the connection until it is closed. Each
// iteration polls with a bounded read deadline so Disconnect never
// waits behind a silent socket.
func (c *Client) receiveLoop(conn net.Conn, stop chan struct{}) {
	defer c.recvWG.Done()

	buf := make([]byte, receiveBufferSize)
	for {
		select {
		case <-stop:
			return
		default:
		}

		conn.SetReadDeadline(time.Now().Add(c.opts.PollTimeout))
		n, err := conn.Read(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			select {
			case <-stop:
			default:
				c.logger.Warn("read failed", "error", err)
				c.connectionLost(stop)
			}
			return
		}
		if n == 0 {
			c.connectionLost(stop)
			return
		}

		frame, err := protocol.Decode(buf[:n])
		if err != nil {
			if c.metrics != nil {
				c.metrics.RecordDecodeError()
			}
			c.logger.Warn("frame decode failed", "error", err, "bytes", n)
			continue
		}
		if c.metrics != nil {
			c.metrics.RecordFrame(frame.Opcode.String())
		}

		if done := c.dispatch(conn, frame, stop); done {
			return
		}
	}
}

// dispatch handles one decoded frame. It reports true when the loop
// should exit.
func (c *Client) dispatch(conn net.Conn, frame *protocol.Frame, stop chan struct{}) bool {
	switch frame.Opcode {
	case protocol.OpcodeBinary:
		c.handleBinary(frame.Payload)
	case protocol.OpcodeText:
		c.logger.Debug("text frame", "payload", string(frame.Payload))
		c.notifyStatus(string(frame.Payload))
	case protocol.OpcodePing:
		pong, err := protocol.Encode(protocol.OpcodePong, frame.Payload)
		if err != nil {
			c.logger.Warn("pong encode failed", "error", err)
			return false
		}
		c.sendMu.Lock()
		_, err = conn.Write(pong)
		c.sendMu.Unlock()
		if err != nil {
			c.logger.Warn("pong write failed", "error", err)
			c.connectionLost(stop)
			return true
		}
		if c.metrics != nil {
			c.metrics.RecordPingAnswered()
		}
	case protocol.OpcodeClose:
		c.logger.Info("close frame from server")
		c.connectionLost(stop)
		return true
	default:
		c.logger.Warn("unhandled frame", "opcode", frame.Opcode.String())
	}
	return false
}

// handleBinary routes a binary payload. Status payloads carry a 4-byte
// "MSG " tag and are skipped; everything else is little-endian signed
// 16-bit audio.
func (c *Client) handleBinary(payload []byte) {
	if len(payload) >= 4 && string(payload[:4]) == "MSG " {
		c.logger.Debug("status message", "payload", string(payload[4:]))
		c.notifyStatus(string(payload[4:]))
		return
	}
	samples := audio.DecodePCM16(payload)
	for _, s := range samples {
		c.ring.Push(s)
	}
	if c.metrics != nil {
		c.metrics.RecordSamples(len(samples), c.ring.Len())
	}
}
