/*
NAME
  trim.go

DESCRIPTION
  trim.go trims a byte stream so that it begins at its first SPS,
  discarding any leading garbage a capture pipeline may have produced
  before the encoder's first parameter set.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package nal

import "errors"

var errNotEnoughBytes = errors.New("nal: not enough bytes to find an SPS")

// TrimToSPS returns the suffix of stream starting at the start code of
// its first SPS NAL unit. Extract requires a SPS before any slice
// (ErrMissingSPS); a capture pipeline that hands this package a
// stream with leading non-conformant bytes, or a keyframe-seek
// buffer that starts mid-GOP, can use TrimToSPS to recover the
// expected starting point before calling Extract.
func TrimToSPS(stream []byte) ([]byte, error) {
	off := 0
	for {
		marker := nextStartCodeIn(stream, off)
		if marker < 0 {
			return nil, errNotEnoughBytes
		}
		bodyStart := marker + 3
		if bodyStart >= len(stream) {
			return nil, errNotEnoughBytes
		}
		scStart := marker
		if marker >= 1 && stream[marker-1] == 0 {
			scStart = marker - 1
		}
		if stream[bodyStart]&0x1f == TypeSPS {
			return stream[scStart:], nil
		}
		off = bodyStart
	}
}

// nextStartCodeIn returns the offset of the next 00 00 01 start code
// in buf at or after from, or -1 if none remains.
func nextStartCodeIn(buf []byte, from int) int {
	for i := from; i+2 < len(buf); i++ {
		if buf[i] == 0 && buf[i+1] == 0 && buf[i+2] == 1 {
			return i
		}
	}
	return -1
}
