package tcp

import (
	"bufio"
	"errors"
	"io"
	"net"
	"strings"
	"time"

	"atm-server/pkg/apperror"
)

const maxLineLength = 1024

// reply is one message to the peer.
type reply struct {
	text    string
	info    bool // followed by the info delay
	closing bool // last line before the connection closes
}

func prompt(text string) reply   { return reply{text: text} }
func line(text string) reply     { return reply{text: text} }
func info(text string) reply     { return reply{text: text + "\n", info: true} }
func farewell(text string) reply { return reply{text: text, closing: true} }

// lineConn reads newline-terminated input and writes raw text.
type lineConn struct {
	conn      net.Conn
	r         *bufio.Reader
	infoDelay time.Duration
	closed    bool // a closing reply was written
}

func newLineConn(conn net.Conn, infoDelay time.Duration) *lineConn {
	return &lineConn{
		conn:      conn,
		r:         bufio.NewReaderSize(conn, maxLineLength),
		infoDelay: infoDelay,
	}
}

// readLine returns the next line with surrounding whitespace removed.
// A line longer than maxLineLength is discarded whole and reads as an empty
// line, which no prompt accepts. EOF and network errors come back as
// PROTO_001.
func (c *lineConn) readLine() (string, error) {
	raw, err := c.r.ReadSlice('\n')
	text := string(raw)
	overflow := false
	for errors.Is(err, bufio.ErrBufferFull) {
		overflow = true
		_, err = c.r.ReadSlice('\n')
	}
	if overflow {
		text = ""
	}
	if err != nil {
		if errors.Is(err, io.EOF) && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text), nil
		}
		return "", apperror.ErrPeerGone(err)
	}
	return strings.TrimSpace(text), nil
}

func (c *lineConn) send(r reply) error {
	if _, err := io.WriteString(c.conn, r.text); err != nil {
		return apperror.ErrPeerGone(err)
	}
	if r.closing {
		c.closed = true
	}
	if r.info && c.infoDelay > 0 {
		time.Sleep(c.infoDelay)
	}
	return nil
}

func isExit(s string) bool {
	return strings.EqualFold(s, "exit")
}
