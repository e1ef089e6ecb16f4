// Copyright 2021, Chef.  All rights reserved.
// https://github.com/q191201771/tsreader
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/q191201771/naza/pkg/assert"
	"github.com/q191201771/tsreader/pkg/base"
)

func TestNewErr(t *testing.T) {
	err := base.NewErrShortBuffer(188, 187)
	assert.Equal(t, true, errors.Is(err, base.ErrShortBuffer))
	assert.Equal(t, "tsreader: buffer too short. need=188, actual=187", err.Error())

	err = base.NewErrMpegtsBadSync(0x48)
	assert.Equal(t, true, errors.Is(err, base.ErrMpegtsBadSync))
	assert.Equal(t, true, strings.HasSuffix(err.Error(), "b=0x48"))

	err = base.NewErrMpegtsInvalidAdaptationFieldLength(183, true)
	assert.Equal(t, true, errors.Is(err, base.ErrMpegtsInvalidAdaptationFieldLength))
	assert.Equal(t, false, errors.Is(err, base.ErrShortBuffer))
}
