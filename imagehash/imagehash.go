/*
NAME
  imagehash.go

DESCRIPTION
  imagehash.go is the top-level, in-process surface tying the encoder
  collaborator, NAL/syntax parsing, feature extraction and fingerprint
  comparison together: given a raster frame, it drives the external
  encoder, extracts a Fingerprint, and exposes the distance metrics.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package imagehash is the façade over the fingerprinting core: it
// wires together the encoder collaborator, the H.264 Annex-B parser
// and the feature/fingerprint packages behind a handful of entry
// points suitable for embedding in a larger process (e.g. a pipeline
// stage that wants to fingerprint a sequence of rasters as they are
// captured). The underlying parsing and comparison code is pure and
// silent; this package and package encoder are the only places in the
// module that log.
package imagehash

import (
	"sync"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/ausocean/utils/logging"

	"github.com/framehash/h264fp/encoder"
	"github.com/framehash/h264fp/features"
	"github.com/framehash/h264fp/fingerprint"
)

// Hasher drives a raster through the encoder collaborator and the
// fingerprinting core, logging encode and extraction progress along
// the way. Slices that the core skips or stops walking are not
// reported to it, so they are not logged.
type Hasher struct {
	enc      *encoder.Encoder
	log      logging.Logger
	strategy features.DCStrategy
}

// Option configures a Hasher.
type Option func(*Hasher)

// WithDCStrategy selects the DC-coefficient strategy
// (features.DCCanonical by default, features.DCFallback for
// the byte-stride approximation spec.md documents as a MAY).
func WithDCStrategy(s features.DCStrategy) Option {
	return func(h *Hasher) { h.strategy = s }
}

// New builds a Hasher around enc. log may be nil.
func New(enc *encoder.Encoder, log logging.Logger, opts ...Option) *Hasher {
	h := &Hasher{enc: enc, log: log, strategy: features.DCCanonical}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hasher) logf(level, msg string, args ...interface{}) {
	if h.log == nil {
		return
	}
	switch level {
	case "debug":
		h.log.Debug(msg, args...)
	case "warning":
		h.log.Warning(msg, args...)
	}
}

// Hash drives raster through the wrapped encoder and extracts a
// Fingerprint from the resulting Annex-B stream. Encoder errors
// (EncoderFailure, Timeout, NoOutput) are propagated unchanged, per
// spec.md section 7's policy that parse errors are terminal for the
// current extraction call.
func (h *Hasher) Hash(raster gocv.Mat, cfg encoder.Config) (*fingerprint.Fingerprint, error) {
	h.logf("debug", "requesting encode", "width", cfg.Width, "height", cfg.Height)
	stream, err := h.enc.Encode(raster, cfg)
	if err != nil {
		return nil, err
	}

	h.logf("debug", "extracting fingerprint", "bytes", len(stream))
	fp, err := features.ExtractWithStrategy(stream, h.strategy)
	if err != nil {
		return nil, errors.Wrap(err, "imagehash: extract")
	}
	return fp, nil
}

// Distance metrics and serialization are re-exported so that callers
// only need to import this package for the common case; callers that
// don't drive an encoder can still use the fingerprint package
// directly.
var (
	DistanceFast     = fingerprint.DistanceFast
	DistancePyramid  = fingerprint.DistancePyramid
	DistanceFull     = fingerprint.DistanceFull
	CosineSimilarity = fingerprint.CosineSimilarity
	HammingDistance  = fingerprint.HammingDistance
	Similarity       = fingerprint.Similarity
	IsSimilar        = fingerprint.IsSimilar
	Serialize        = fingerprint.Serialize
	Deserialize      = fingerprint.Deserialize
)

var (
	shared   *Hasher
	sharedMu sync.Mutex
)

// Shared returns a process-wide Hasher, constructing it on first use
// via newFn. Subsequent calls ignore newFn and return the cached
// instance. This mirrors the source system's global singleton
// convenience (spec.md section 9): the fingerprinting core itself
// stays stateless, and this is a thin cache of the encoder handle so
// callers that don't need per-call configuration don't have to thread
// a Hasher through their own call graph.
func Shared(newFn func() *Hasher) *Hasher {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if shared == nil {
		shared = newFn()
	}
	return shared
}

// ResetShared clears the cached singleton, releasing it for garbage
// collection. Intended for tests and for orderly shutdown; production
// call sites normally never need it since the process owns the
// singleton for its whole lifetime.
func ResetShared() {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	shared = nil
}
