/*
NAME
  lex.go

DESCRIPTION
  lex.go provides a streaming lexer that splits an incrementally-read
  Annex-B byte stream into access units, for callers that receive the
  hardware encoder's output over an io.Reader rather than as a single
  in-memory buffer.

AUTHORS
  Dan Kortschak <dan@ausocean.org>
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package nal

import (
	"io"
	"time"

	"github.com/framehash/h264fp/codec/codecutil"
)

var noDelay = make(chan time.Time)

func init() {
	close(noDelay)
}

// LexAccessUnits splits NAL units read from src into separate writes
// to dst, one access unit at a time, with successive writes performed
// not earlier than the given delay (zero for no pacing). An access
// unit boundary is declared before a SPS, PPS, IDR or non-IDR slice
// NAL, mirroring how Scanner classifies unit types.
//
// This is Scanner's streaming counterpart: Scanner requires the whole
// encoded stream up front, which is what the core's extract(bytes)
// entry point expects, but a caller reading the hardware encoder's
// output incrementally (a pipe, a socket) needs to accumulate bytes
// into discrete units first. LexAccessUnits produces those units, each
// written with its own start code so that Scanner can parse it.
func LexAccessUnits(dst io.Writer, src io.Reader, delay time.Duration) error {
	var tick <-chan time.Time
	if delay == 0 {
		tick = noDelay
	} else {
		ticker := time.NewTicker(delay)
		defer ticker.Stop()
		tick = ticker.C
	}

	const bufSize = 8 << 10

	c := codecutil.NewByteScanner(src, make([]byte, 4<<10))

	buf := make([]byte, 0, bufSize)
	writeOut := false

	for {
		var b byte
		var err error
		buf, b, err = c.ScanUntil(buf, 0x00)
		if err != nil {
			if err != io.EOF {
				return err
			}
			if len(buf) != 0 {
				return io.ErrUnexpectedEOF
			}
			return io.EOF
		}

		for n := 1; b == 0x00 && n < 4; n++ {
			b, err = c.ReadByte()
			if err != nil {
				if err != io.EOF {
					return err
				}
				return io.ErrUnexpectedEOF
			}
			buf = append(buf, b)

			if b != 0x01 || (n != 2 && n != 3) {
				continue
			}

			if writeOut {
				<-tick
				if _, err := dst.Write(buf[:len(buf)-(n+1)]); err != nil {
					return err
				}
				buf = make([]byte, n, bufSize)
				buf = append(buf, 1)
				writeOut = false
			}

			b, err = c.ReadByte()
			if err != nil {
				if err != io.EOF {
					return err
				}
				return io.ErrUnexpectedEOF
			}
			buf = append(buf, b)

			switch nalType := b & 0x1f; nalType {
			case TypeNonIDR, TypeIDR, TypeSPS, TypePPS:
				writeOut = true
			}
		}
	}
}
