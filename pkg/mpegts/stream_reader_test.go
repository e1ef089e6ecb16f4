// Copyright 2020, Chef.  All rights reserved.
// https://github.com/q191201771/tsreader
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts_test

import (
	"bytes"
	"errors"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/q191201771/naza/pkg/assert"
	"github.com/q191201771/tsreader/pkg/base"
	"github.com/q191201771/tsreader/pkg/mpegts"
)

func concat(bs ...[]byte) []byte {
	var out []byte
	for _, b := range bs {
		out = append(out, b...)
	}
	return out
}

func makePayloadPacket(t *testing.T, pid uint16, cc uint8) []byte {
	return makePacket(t, mpegts.TsPacketHeader{Pid: pid, Adaptation: mpegts.AdaptationFieldControlNo, Cc: cc}, nil)
}

func TestStreamReader_EndToEnd(t *testing.T) {
	first := makePayloadPacket(t, mpegts.PidPat, 5)
	second := makePayloadPacket(t, 0x1000, 6)
	content := concat([]byte{0x01, 0x02}, first, second)

	sr := mpegts.NewStreamReader(bytes.NewReader(content))

	pkt, err := sr.ReadPacket()
	assert.Equal(t, nil, err)
	assert.Equal(t, true, pkt.IsPat())
	assert.Equal(t, uint8(5), pkt.Header.Cc)
	assert.Equal(t, int64(2), pkt.Offset)
	assert.Equal(t, first, sr.Raw())

	pkt, err = sr.ReadPacket()
	assert.Equal(t, nil, err)
	assert.Equal(t, false, pkt.IsPat())
	assert.Equal(t, uint16(0x1000), pkt.Header.Pid)
	assert.Equal(t, uint8(6), pkt.Header.Cc)
	assert.Equal(t, int64(2+188), pkt.Offset)
	assert.Equal(t, second, sr.Raw())

	_, err = sr.ReadPacket()
	assert.Equal(t, io.EOF, err)
	_, err = sr.ReadPacket()
	assert.Equal(t, io.EOF, err)

	stat := sr.Stat()
	assert.Equal(t, uint64(2), stat.ReadPacketCount)
	assert.Equal(t, uint64(0), stat.DecodeErrorCount)
	assert.Equal(t, uint64(2), stat.SkippedByteCount)
}

func TestStreamReader_Empty(t *testing.T) {
	sr := mpegts.NewStreamReader(bytes.NewReader([]byte{0x00, 0x01, 0x02}))
	_, err := sr.ReadPacket()
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, uint64(3), sr.Stat().SkippedByteCount)
}

func makeCorruptStream(t *testing.T) []byte {
	corrupt := makeAdaptationPacket(t, mpegts.AdaptationFieldControlFollowed, 183)
	return concat(makePayloadPacket(t, 0x100, 0), corrupt, makePayloadPacket(t, 0x100, 1))
}

func TestStreamReader_Resync(t *testing.T) {
	sr := mpegts.NewStreamReader(bytes.NewReader(makeCorruptStream(t)))

	pkt, err := sr.ReadPacket()
	assert.Equal(t, nil, err)
	assert.Equal(t, uint8(0), pkt.Header.Cc)

	_, err = sr.ReadPacket()
	assert.Equal(t, true, errors.Is(err, base.ErrMpegtsInvalidAdaptationFieldLength))
	var de *mpegts.DecodeError
	assert.Equal(t, true, errors.As(err, &de))
	assert.Equal(t, int64(188), de.Offset)
	assert.Equal(t, mpegts.PacketSize, len(sr.Raw()))

	pkt, err = sr.ReadPacket()
	assert.Equal(t, nil, err)
	assert.Equal(t, uint8(1), pkt.Header.Cc)
	assert.Equal(t, int64(376), pkt.Offset)

	_, err = sr.ReadPacket()
	assert.Equal(t, io.EOF, err)

	stat := sr.Stat()
	assert.Equal(t, uint64(2), stat.ReadPacketCount)
	assert.Equal(t, uint64(1), stat.DecodeErrorCount)
}

func TestStreamReader_Abort(t *testing.T) {
	sr := mpegts.NewStreamReader(bytes.NewReader(makeCorruptStream(t)), func(option *mpegts.StreamReaderOption) {
		option.DecodeErrorPolicy = mpegts.DecodeErrorPolicyAbort
	})

	_, err := sr.ReadPacket()
	assert.Equal(t, nil, err)

	_, err = sr.ReadPacket()
	assert.Equal(t, true, errors.Is(err, base.ErrMpegtsInvalidAdaptationFieldLength))

	_, err = sr.ReadPacket()
	assert.Equal(t, base.ErrMpegtsStreamTerminated, err)
	_, err = sr.ReadPacket()
	assert.Equal(t, base.ErrMpegtsStreamTerminated, err)
}

func TestStreamReader_ReservedAdaptationFieldControl(t *testing.T) {
	reserved := makePacket(t, mpegts.TsPacketHeader{Pid: 0x30, Adaptation: mpegts.AdaptationFieldControlReserved}, nil)
	content := concat(reserved, makePayloadPacket(t, 0x30, 1))

	sr := mpegts.NewStreamReader(bytes.NewReader(content))
	_, err := sr.ReadPacket()
	assert.Equal(t, true, errors.Is(err, base.ErrMpegtsReservedAdaptationFieldControl))
	_, err = sr.ReadPacket()
	assert.Equal(t, nil, err)

	sr = mpegts.NewStreamReader(bytes.NewReader(content), func(option *mpegts.StreamReaderOption) {
		option.RejectReservedAdaptationFieldControl = false
	})
	pkt, err := sr.ReadPacket()
	assert.Equal(t, nil, err)
	assert.Equal(t, false, pkt.HasPayload())
	assert.Equal(t, false, pkt.HasAdaptationField())
}

func TestStreamReader_ShortRead(t *testing.T) {
	content := concat(makePayloadPacket(t, 0x100, 0), makePayloadPacket(t, 0x100, 1)[:100])
	sr := mpegts.NewStreamReader(bytes.NewReader(content))

	_, err := sr.ReadPacket()
	assert.Equal(t, nil, err)

	_, err = sr.ReadPacket()
	assert.Equal(t, true, errors.Is(err, base.ErrShortBuffer))
	var de *mpegts.DecodeError
	assert.Equal(t, true, errors.As(err, &de))
	assert.Equal(t, int64(188), de.Offset)
	assert.Equal(t, 100, len(sr.Raw()))

	_, err = sr.ReadPacket()
	assert.Equal(t, base.ErrMpegtsStreamTerminated, err)
}

func TestStreamReader_IoError(t *testing.T) {
	errRead := errors.New("disk on fire")
	sr := mpegts.NewStreamReader(errReadSeeker{err: errRead})
	_, err := sr.ReadPacket()
	assert.Equal(t, errRead, err)
	_, err = sr.ReadPacket()
	assert.Equal(t, base.ErrMpegtsStreamTerminated, err)
}

func TestFileReaderWriter(t *testing.T) {
	dir, err := ioutil.TempDir("", "tsreader")
	assert.Equal(t, nil, err)
	defer os.RemoveAll(dir)

	inFilename := filepath.Join(dir, "in.ts")
	outFilename := filepath.Join(dir, "pat.ts")

	pat := makePayloadPacket(t, mpegts.PidPat, 3)
	content := concat([]byte{0xFF}, makePayloadPacket(t, 0x100, 0), pat, makePayloadPacket(t, 0x100, 1))
	assert.Equal(t, nil, ioutil.WriteFile(inFilename, content, 0666))

	var fw mpegts.FileWriter
	assert.Equal(t, base.ErrFileNotOpen, fw.Write(pat))
	assert.Equal(t, nil, fw.Create(outFilename))
	assert.Equal(t, outFilename, fw.Name())

	var r mpegts.TsFileReader
	_, err = r.ReadPacket()
	assert.Equal(t, base.ErrFileNotOpen, err)
	assert.Equal(t, nil, r.Open(inFilename))

	count := 0
	for {
		pkt, err := r.ReadPacket()
		if err == io.EOF {
			break
		}
		assert.Equal(t, nil, err)
		count++
		if pkt.IsPat() {
			assert.Equal(t, nil, fw.Write(r.Raw()))
		}
	}
	r.Dispose()
	assert.Equal(t, 3, count)
	assert.Equal(t, uint64(1), r.Stat().SkippedByteCount)

	err = fw.Write(pat[:10])
	assert.Equal(t, true, errors.Is(err, base.ErrShortBuffer))
	assert.Equal(t, nil, fw.Dispose())

	out, err := ioutil.ReadFile(outFilename)
	assert.Equal(t, nil, err)
	assert.Equal(t, pat, out)

	var notExist mpegts.TsFileReader
	assert.Equal(t, base.ErrFileNotExist, notExist.Open(filepath.Join(dir, "not_exist.ts")))
}

func TestStreamReader_ResyncSkipsWholeWindow(t *testing.T) {
	// 垃圾数据中的0x47被当作packet起点，解析失败后跳过整个188字节窗口，
	// 紧随其后的真实packet落在窗口内，因此被跳过
	first := makePayloadPacket(t, 0x100, 0)
	second := makePayloadPacket(t, 0x100, 1)
	content := concat([]byte{0x47, 0x00}, first, second)

	sr := mpegts.NewStreamReader(bytes.NewReader(content))

	_, err := sr.ReadPacket()
	var de *mpegts.DecodeError
	assert.Equal(t, true, errors.As(err, &de))
	assert.Equal(t, int64(0), de.Offset)

	pkt, err := sr.ReadPacket()
	assert.Equal(t, nil, err)
	assert.Equal(t, int64(190), pkt.Offset)
	assert.Equal(t, uint8(1), pkt.Header.Cc)

	_, err = sr.ReadPacket()
	assert.Equal(t, io.EOF, err)
}
