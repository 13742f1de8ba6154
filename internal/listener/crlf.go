package listener

import (
	"bytes"
	"io"
)

// crlfReadWriter translates line endings between the network and the game.
// Outbound "\n" becomes "\r\n". Inbound "\r\n" and a bare "\r" both become
// "\n", including a "\r\n" pair split across two reads.
type crlfReadWriter struct {
	rw      io.ReadWriter
	afterCR bool
}

func newCRLFReadWriter(rw io.ReadWriter) io.ReadWriter {
	return &crlfReadWriter{rw: rw}
}

func (c *crlfReadWriter) Read(p []byte) (int, error) {
	for {
		n, err := c.rw.Read(p)
		out := p[:0]
		for _, b := range p[:n] {
			switch {
			case b == '\n' && c.afterCR:
				c.afterCR = false
			case b == '\r':
				c.afterCR = true
				out = append(out, '\n')
			case b == 0:
				// Telnet pads a bare CR with NUL.
				c.afterCR = false
			default:
				c.afterCR = false
				out = append(out, b)
			}
		}
		if len(out) > 0 || err != nil || n == 0 {
			return len(out), err
		}
	}
}

func (c *crlfReadWriter) Write(p []byte) (int, error) {
	if _, err := c.rw.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
