package client

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// handshakeKey is the fixed upgrade nonce. The receiver never verifies
// the derived accept value, and a constant key keeps the request
// byte-identical across connects.
const handshakeKey = "dGhlIHNhbXBsZSBub25jZQ=="

// ErrNoHosts is returned by Connect when every candidate host fails.
var ErrNoHosts = errors.New("no reachable host")

// Connect tries each host in order and streams from the first one that
// completes the upgrade handshake. The host list is remembered for
// reconnects.
func (c *Client) Connect(hosts []string) error {
	if len(hosts) == 0 {
		return ErrNoHosts
	}
	c.mu.Lock()
	if c.state != StateDisconnected {
		c.mu.Unlock()
		return fmt.Errorf("connect: client is %s", c.state)
	}
	c.hosts = append([]string(nil), hosts...)
	c.mu.Unlock()

	err := c.connectAny()
	if err != nil && c.opts.AutoReconnect {
		c.armReconnect()
	}
	return err
}

// armReconnect starts the background reconnect loop unless one is
// already running or the client is no longer disconnected.
func (c *Client) armReconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateDisconnected || c.reconStop != nil {
		return
	}
	stop := make(chan struct{})
	c.reconStop = stop
	c.reconWG.Add(1)
	go c.reconnectLoop(stop)
}

// connectAny sweeps the stored host list once.
func (c *Client) connectAny() error {
	c.mu.Lock()
	hosts := c.hosts
	c.mu.Unlock()

	var lastErr error
	for _, host := range hosts {
		if err := c.connectHost(host); err != nil {
			c.logger.Warn("connect failed", "host", host, "error", err)
			lastErr = err
			continue
		}
		return nil
	}
	if lastErr == nil {
		lastErr = ErrNoHosts
	}
	return fmt.Errorf("connect: %w", lastErr)
}

// connectHost dials one host, performs the upgrade handshake, runs the
// session setup and starts the receive loop.
func (c *Client) connectHost(host string) error {
	if c.metrics != nil {
		c.metrics.RecordConnectAttempt()
	}
	c.setState(StateConnecting)

	conn, err := net.DialTimeout("tcp", host, c.opts.DialTimeout)
	if err != nil {
		c.setState(StateDisconnected)
		if c.metrics != nil {
			c.metrics.RecordConnectFailure()
		}
		return fmt.Errorf("dial %s: %w", host, err)
	}

	c.setState(StateHandshaking)
	start := time.Now()
	if err := c.upgrade(conn, host); err != nil {
		conn.Close()
		c.setState(StateDisconnected)
		if c.metrics != nil {
			c.metrics.RecordHandshakeFailure()
		}
		return fmt.Errorf("handshake %s: %w", host, err)
	}
	if c.metrics != nil {
		c.metrics.RecordHandshake(time.Since(start).Seconds())
	}

	stop := make(chan struct{})
	c.mu.Lock()
	if c.state == StateClosing {
		c.mu.Unlock()
		conn.Close()
		return fmt.Errorf("connect %s: client closing", host)
	}
	c.conn = conn
	c.host = host
	c.stop = stop
	c.state = StateStreaming
	c.mu.Unlock()

	c.ring.Reset()
	c.resampler.Reset()

	c.applySetup(conn)

	c.recvWG.Add(1)
	go c.receiveLoop(conn, stop)

	c.logger.Info("connected", "host", host)
	return nil
}

// upgrade writes the HTTP upgrade request and reads the first response
// chunk. The receiver answers with a 101 status when the stream
// endpoint exists; anything else is a refusal.
func (c *Client) upgrade(conn net.Conn, host string) error {
	port := "8073"
	if _, p, err := net.SplitHostPort(host); err == nil {
		port = p
	}
	req := fmt.Sprintf("GET /kiwi/%s/SND HTTP/1.1\r\n"+
		"Host: %s\r\n"+
		"Upgrade: websocket\r\n"+
		"Connection: Upgrade\r\n"+
		"Sec-WebSocket-Key: %s\r\n"+
		"Sec-WebSocket-Version: 13\r\n\r\n", port, host, handshakeKey)

	conn.SetWriteDeadline(time.Now().Add(c.opts.DialTimeout))
	if _, err := conn.Write([]byte(req)); err != nil {
		return fmt.Errorf("write upgrade request: %w", err)
	}

	buf := make([]byte, 1024)
	conn.SetReadDeadline(time.Now().Add(c.opts.DialTimeout))
	n, err := conn.Read(buf)
	if err != nil {
		return fmt.Errorf("read upgrade response: %w", err)
	}
	conn.SetReadDeadline(time.Time{})
	conn.SetWriteDeadline(time.Time{})

	if !strings.Contains(string(buf[:n]), "101") {
		return fmt.Errorf("upgrade refused: %q", firstLine(buf[:n]))
	}
	return nil
}

func firstLine(b []byte) string {
	if i := strings.IndexByte(string(b), '\r'); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}

// Disconnect stops the stream and releases the connection. It is
// idempotent and also cancels any pending reconnect.
func (c *Client) Disconnect() {
	c.mu.Lock()
	if c.state == StateDisconnected && c.stop == nil && c.reconStop == nil {
		c.mu.Unlock()
		return
	}
	c.state = StateClosing
	stop := c.stop
	conn := c.conn
	reconStop := c.reconStop
	c.stop = nil
	c.conn = nil
	c.reconStop = nil
	c.mu.Unlock()

	if stop != nil {
		close(stop)
	}
	if reconStop != nil {
		close(reconStop)
	}
	if conn != nil {
		conn.Close()
	}
	c.recvWG.Wait()
	c.reconWG.Wait()

	c.mu.Lock()
	c.state = StateDisconnected
	c.host = ""
	c.mu.Unlock()

	c.ring.Reset()
	c.logger.Info("disconnected")
}

// connectionLost transitions to disconnected after the receive loop
// exits on error. The stop channel identifies the connection the loop
// belonged to; a newer connection is left untouched.
func (c *Client) connectionLost(stop chan struct{}) {
	c.mu.Lock()
	if c.stop != stop {
		c.mu.Unlock()
		return
	}
	conn := c.conn
	c.stop = nil
	c.conn = nil
	c.state = StateDisconnected
	c.host = ""
	// The reconnect loop is registered in the same critical section that
	// publishes the disconnected state, so a racing Disconnect always
	// sees it and cancels it.
	var reconStop chan struct{}
	if c.opts.AutoReconnect {
		reconStop = make(chan struct{})
		c.reconStop = reconStop
		c.reconWG.Add(1)
	}
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	c.logger.Warn("connection lost")

	if reconStop != nil {
		go c.reconnectLoop(reconStop)
	}
}

// reconnectLoop retries the host sweep until a connection succeeds or
// Disconnect closes the stop channel.
func (c *Client) reconnectLoop(stop chan struct{}) {
	defer c.reconWG.Done()
	defer func() {
		c.mu.Lock()
		if c.reconStop == stop {
			c.reconStop = nil
		}
		c.mu.Unlock()
	}()
	for {
		select {
		case <-stop:
			return
		case <-time.After(c.opts.ReconnectInterval):
		}

		c.mu.Lock()
		state := c.state
		c.mu.Unlock()
		if state != StateDisconnected {
			return
		}

		if c.metrics != nil {
			c.metrics.RecordReconnect()
		}
		c.logger.Info("reconnecting")
		if err := c.connectAny(); err != nil {
			c.logger.Warn("reconnect failed", "error", err)
			continue
		}
		return
	}
}

// setState applies a connection-attempt transition. A closing client
// keeps its state so Disconnect stays the single cancellation point.
func (c *Client) setState(s State) {
	c.mu.Lock()
	if c.state != StateClosing {
		c.state = s
	}
	c.mu.Unlock()
}
