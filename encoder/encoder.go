/*
NAME
  encoder.go

DESCRIPTION
  encoder.go wraps an external, callback-driven hardware H.264 encoder
  behind a synchronous, deadline-bound Go interface. The encoder itself
  is an opaque collaborator: it is never implemented here, only its
  Go-facing contract (encode(raster, config) -> bytes | EncoderError).

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package encoder wraps the opaque hardware H.264 encoder collaborator
// described by the fingerprinting core's contract: a single blocking
// call that takes a raster and a configuration and returns an Annex-B
// byte stream, or one of a small set of named errors.
//
// The encoder is not implemented by this package. What is implemented
// is the adaptation from the encoder's native callback-plus-completion-
// signal idiom (common to hardware video encoder SDKs) to the blocking
// call with a deadline that the rest of this module expects.
package encoder

import (
	"time"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/ausocean/utils/logging"
)

// Profile selects the H.264 profile the encoder should target.
type Profile int

const (
	ProfileBaseline Profile = iota
	ProfileMain
	ProfileHigh
)

// EntropyMode selects the entropy coding scheme. This system's core
// only understands CAVLC-coded slices; requesting CABAC will produce
// a stream the features package cannot walk.
type EntropyMode int

const (
	EntropyCAVLC EntropyMode = iota
	EntropyCABAC
)

// Config describes the encode request, matching the collaborator
// contract: width, height, bitrate, profile, i_frame_only, quality,
// entropy_mode.
type Config struct {
	Width       int
	Height      int
	BitrateBps  int
	Profile     Profile
	IFrameOnly  bool
	Quality     int
	EntropyMode EntropyMode

	// Deadline bounds how long Encode blocks before returning Timeout.
	// Zero selects DefaultDeadline.
	Deadline time.Duration
}

// DefaultDeadline is applied when Config.Deadline is zero.
const DefaultDeadline = 5 * time.Second

// Option configures a Config via a functional option, in the style the
// teacher's revid/config package uses for its own narrower setters.
type Option func(*Config)

func WithIFrameOnly(v bool) Option { return func(c *Config) { c.IFrameOnly = v } }

func WithQuality(q int) Option { return func(c *Config) { c.Quality = q } }

func WithEntropyMode(m EntropyMode) Option { return func(c *Config) { c.EntropyMode = m } }

func WithDeadline(d time.Duration) Option { return func(c *Config) { c.Deadline = d } }

// NewConfig builds a Config for the given raster dimensions and
// bitrate, applying opts over the documented defaults
// (i_frame_only=true, entropy_mode=CAVLC).
func NewConfig(width, height, bitrateBps int, opts ...Option) Config {
	c := Config{
		Width:       width,
		Height:      height,
		BitrateBps:  bitrateBps,
		Profile:     ProfileBaseline,
		IFrameOnly:  true,
		EntropyMode: EntropyCAVLC,
		Deadline:    DefaultDeadline,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Sentinel errors surfaced from the collaborator, propagated unchanged
// by Encode.
var (
	ErrEncoderFailure = errors.New("encoder: collaborator reported failure")
	ErrTimeout        = errors.New("encoder: deadline exceeded waiting for output")
	ErrNoOutput       = errors.New("encoder: collaborator returned no output")
)

// result carries the outcome of one asynchronous encode callback.
type result struct {
	data []byte
	err  error
}

// Callback is the shape the hardware encoder SDK actually exposes:
// start an encode and later invoke fn, exactly once, with the
// resulting bytes or an error, from whatever thread the SDK chooses.
type Callback func(raster gocv.Mat, cfg Config, fn func(data []byte, err error))

// Encoder adapts a Callback-shaped hardware encoder into a blocking
// call with a deadline. The core never talks to the hardware encoder
// directly; this is the only place that idiom is translated.
type Encoder struct {
	start Callback
	log   logging.Logger
}

// New wraps start, the encoder SDK's native asynchronous entry point.
// log may be nil, in which case Encoder logs nothing.
func New(start Callback, log logging.Logger) *Encoder {
	return &Encoder{start: start, log: log}
}

func (e *Encoder) logf(level string, msg string, args ...interface{}) {
	if e.log == nil {
		return
	}
	switch level {
	case "debug":
		e.log.Debug(msg, args...)
	case "warning":
		e.log.Warning(msg, args...)
	case "error":
		e.log.Error(msg, args...)
	}
}

// Encode blocks until the wrapped encoder delivers output, the
// caller-supplied deadline (cfg.Deadline, default DefaultDeadline)
// elapses, or the collaborator reports a failure. No partial output is
// ever returned: a successful return always carries the full
// collaborator response.
func (e *Encoder) Encode(raster gocv.Mat, cfg Config) ([]byte, error) {
	deadline := cfg.Deadline
	if deadline <= 0 {
		deadline = DefaultDeadline
	}

	done := make(chan result, 1)
	e.logf("debug", "encode requested", "width", cfg.Width, "height", cfg.Height)
	e.start(raster, cfg, func(data []byte, err error) {
		done <- result{data: data, err: err}
	})

	select {
	case r := <-done:
		if r.err != nil {
			e.logf("error", "encoder reported failure", "err", r.err)
			return nil, errors.Wrap(ErrEncoderFailure, r.err.Error())
		}
		if len(r.data) == 0 {
			e.logf("warning", "encoder returned no output")
			return nil, ErrNoOutput
		}
		return r.data, nil
	case <-time.After(deadline):
		e.logf("warning", "encode timed out", "deadline", deadline)
		return nil, ErrTimeout
	}
}
