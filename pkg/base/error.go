// Copyright 2021, Chef.  All rights reserved.
// https://github.com/q191201771/tsreader
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

import (
	"errors"
	"fmt"
)

// ----- 通用的 ---------------------------------------------------------------------------------------------------------

var (
	ErrShortBuffer  = errors.New("tsreader: buffer too short")
	ErrFileNotOpen  = errors.New("tsreader: file not open")
	ErrFileNotExist = errors.New("tsreader: file not exist")
)

func NewErrShortBuffer(need, actual int) error {
	return fmt.Errorf("%w. need=%d, actual=%d", ErrShortBuffer, need, actual)
}

// ----- pkg/mpegts ----------------------------------------------------------------------------------------------------

var (
	ErrMpegtsBadSync                        = errors.New("tsreader.mpegts: bad sync byte")
	ErrMpegtsInvalidAdaptationFieldLength   = errors.New("tsreader.mpegts: invalid adaptation field length")
	ErrMpegtsReservedAdaptationFieldControl = errors.New("tsreader.mpegts: reserved adaptation field control")
	ErrMpegtsStreamTerminated               = errors.New("tsreader.mpegts: stream terminated")
)

func NewErrMpegtsBadSync(b uint8) error {
	return fmt.Errorf("%w. b=0x%02x", ErrMpegtsBadSync, b)
}

func NewErrMpegtsInvalidAdaptationFieldLength(length uint8, hasPayload bool) error {
	return fmt.Errorf("%w. length=%d, has payload=%t", ErrMpegtsInvalidAdaptationFieldLength, length, hasPayload)
}

// ----- pkg/tscmp -----------------------------------------------------------------------------------------------------

var ErrTscmp = errors.New("tsreader.tscmp: packet count mismatch")

// ---------------------------------------------------------------------------------------------------------------------
