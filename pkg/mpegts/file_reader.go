// Copyright 2020, Chef.  All rights reserved.
// https://github.com/q191201771/tsreader
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

import (
	"os"

	"github.com/q191201771/tsreader/pkg/base"
)

type TsFileReader struct {
	fp *os.File
	sr *StreamReader
}

func (tfr *TsFileReader) Open(filename string, modOptions ...ModStreamReaderOption) (err error) {
	tfr.fp, err = os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return base.ErrFileNotExist
		}
		return err
	}
	tfr.sr = NewStreamReader(tfr.fp, modOptions...)
	return nil
}

func (tfr *TsFileReader) ReadPacket() (TsPacket, error) {
	if tfr.sr == nil {
		return TsPacket{}, base.ErrFileNotOpen
	}
	return tfr.sr.ReadPacket()
}

func (tfr *TsFileReader) Raw() []byte {
	if tfr.sr == nil {
		return nil
	}
	return tfr.sr.Raw()
}

func (tfr *TsFileReader) Stat() StreamReaderStat {
	if tfr.sr == nil {
		return StreamReaderStat{}
	}
	return tfr.sr.Stat()
}

func (tfr *TsFileReader) Dispose() {
	if tfr.fp != nil {
		_ = tfr.fp.Close()
	}
}
