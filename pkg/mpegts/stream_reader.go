// Copyright 2020, Chef.  All rights reserved.
// https://github.com/q191201771/tsreader
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

import (
	"io"

	"github.com/q191201771/tsreader/pkg/base"
)

type DecodeErrorPolicy int

const (
	// DecodeErrorPolicyResync 单个packet解析失败时返回错误，下次读取从该packet的188字节之后继续查找sync byte
	//
	// 注意，如果失败的packet其实是垃圾数据中的一个0x47，紧随其后、落在这188字节内的真实packet也会被跳过
	DecodeErrorPolicyResync DecodeErrorPolicy = iota

	// DecodeErrorPolicyAbort 第一次解析失败即终止整个流
	DecodeErrorPolicyAbort
)

type StreamReaderOption struct {
	DecodeErrorPolicy DecodeErrorPolicy

	// 见 DecodeOption
	RejectReservedAdaptationFieldControl bool
}

var defaultStreamReaderOption = StreamReaderOption{
	DecodeErrorPolicy:                    DecodeErrorPolicyResync,
	RejectReservedAdaptationFieldControl: true,
}

type ModStreamReaderOption func(option *StreamReaderOption)

type StreamReaderStat struct {
	ReadPacketCount  uint64 // 成功解析的packet数量
	DecodeErrorCount uint64
	SkippedByteCount uint64 // 查找sync byte时跳过的字节数
}

type streamReaderState int

const (
	stateSeeking streamReaderState = iota
	stateTerminated
	stateFatal
)

// StreamReader 从字节流中不断查找sync byte并解析TS packet
//
// 非协程安全，由调用方单协程拉取
type StreamReader struct {
	src    io.ReadSeeker
	option StreamReaderOption

	state  streamReaderState
	buf    [PacketSize]byte
	rawLen int
	stat   StreamReaderStat
}

func NewStreamReader(src io.ReadSeeker, modOptions ...ModStreamReaderOption) *StreamReader {
	option := defaultStreamReaderOption
	for _, fn := range modOptions {
		fn(&option)
	}
	return &StreamReader{
		src:    src,
		option: option,
		state:  stateSeeking,
	}
}

// ReadPacket 读取下一个packet
//
// @return err:
//   - io.EOF: 流正常结束，之后的调用都返回 io.EOF
//   - *DecodeError: packet解析失败；包裹 base.ErrShortBuffer 时为致命错误，
//     其余情况是否致命由 DecodeErrorPolicy 决定
//   - 其他: 底层读取或seek失败，致命
//
// 发生致命错误之后，再调用返回 base.ErrMpegtsStreamTerminated
func (r *StreamReader) ReadPacket() (pkt TsPacket, err error) {
	switch r.state {
	case stateTerminated:
		return pkt, io.EOF
	case stateFatal:
		return pkt, base.ErrMpegtsStreamTerminated
	}

	r.rawLen = 0

	offset, skipped, err := findSync(r.src)
	r.stat.SkippedByteCount += uint64(skipped)
	if err != nil {
		if err == io.EOF {
			r.state = stateTerminated
			return pkt, io.EOF
		}
		r.state = stateFatal
		return pkt, err
	}

	n, err := io.ReadFull(r.src, r.buf[:])
	r.rawLen = n
	if err != nil {
		r.state = stateFatal
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			r.stat.DecodeErrorCount++
			return decodeTsPacket(r.buf[:n], offset, r.decodeOption())
		}
		return pkt, err
	}

	pkt, err = decodeTsPacket(r.buf[:], offset, r.decodeOption())
	if err != nil {
		r.stat.DecodeErrorCount++
		if r.option.DecodeErrorPolicy == DecodeErrorPolicyAbort {
			r.state = stateFatal
		}
		return pkt, err
	}
	r.stat.ReadPacketCount++
	return pkt, nil
}

// Raw 最近一次 ReadPacket 读取到的原始数据，包括解析失败的packet
//
// 返回的内存块在下次调用 ReadPacket 前有效
func (r *StreamReader) Raw() []byte {
	return r.buf[:r.rawLen]
}

func (r *StreamReader) Stat() StreamReaderStat {
	return r.stat
}

func (r *StreamReader) decodeOption() DecodeOption {
	return DecodeOption{
		RejectReservedAdaptationFieldControl: r.option.RejectReservedAdaptationFieldControl,
	}
}
