package ember

import "errors"

// ErrDeviceStalled reports that a sync point wait exceeded the stall
// timeout. Buffers gated on that sync point are never freed in this
// case, the loop terminates instead.
var ErrDeviceStalled = errors.New("gpu device stalled")

// ErrDeviceLost reports that the gpu became unusable mid run. This is
// not recoverable at this layer.
var ErrDeviceLost = errors.New("gpu device lost")
