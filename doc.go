// Copyright 2018 The ZikiChomgo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package sfx builds and executes trees of audio feature-extraction
// transforms over fixed-size frames of raw samples.
//
// A Tree starts from one raw input Format (sample rate and frame length)
// and grows by AddFeature calls, each naming a chain of catalog transforms
// (windowing, spectral analysis, filter banks, ...) to apply in sequence.
// Two features that begin with the same transforms, in the same order,
// with the same parameters, share every node along that common prefix: the
// tree deduplicates by Fingerprint, not by name, so a dozen MFCC-derived
// features sharing a window and an FFT only compute that window and FFT
// once per frame.
//
// Buffer lifetime
//
// Once every feature has been added, PrepareForExecution fixes the tree's
// structure, computes how long each node's output buffer must stay alive
// (from the frame it is produced to the frame its last reader consumes
// it), and hands those lifetimes to package alloc's sliding-blocks solver
// to pack every node into one reusable byte arena. Features can no longer
// be added after this point.
//
// Execution
//
// Execute copies one frame of raw samples into the tree's root buffer and
// runs every transform once, in the topological order PrepareForExecution
// computed, returning the terminal buffer of every named feature. The
// arena is reused frame to frame; results are only valid until the next
// Execute call.
package sfx /* import "zikichombo.org/sfx" */
