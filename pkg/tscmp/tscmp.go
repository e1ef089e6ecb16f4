// Copyright 2020, Chef.  All rights reserved.
// https://github.com/q191201771/tsreader
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

// Package tscmp 使用go-astits作为参照，校验mpegts包解析出的header以及adaptation flag
package tscmp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/asticode/go-astits"
	"github.com/q191201771/tsreader/pkg/base"
	"github.com/q191201771/tsreader/pkg/mpegts"
)

type Mismatch struct {
	Index  int   // 第几个成功解析的packet
	Offset int64 // 该packet在原始流中的位置
	Field  string
	Ours   string
	Theirs string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("index=%d, offset=%d, field=%s, ours=%s, theirs=%s", m.Index, m.Offset, m.Field, m.Ours, m.Theirs)
}

type Result struct {
	PacketCount      int
	DecodeErrorCount int
	Truncated        bool // 流末尾有不足188字节的残包，不计入DecodeErrorCount
	Mismatches       []Mismatch
}

// Compare
//
// 先用 mpegts.StreamReader 解析整个流，把解析成功的packet原样拼接起来，再交给astits解析，逐个packet对比。
// 解析失败的packet不参与对比，astits遇到非0x47开头的packet会直接报错。
// 流末尾不足188字节的残包只设置 Result.Truncated，不当作失败。
//
// @param modOptions: 透传给 mpegts.NewStreamReader，致命错误（包括Abort策略下的坏包）直接返回
func Compare(ctx context.Context, src io.ReadSeeker, modOptions ...mpegts.ModStreamReaderOption) (res Result, err error) {
	var (
		pkts    []mpegts.TsPacket
		aligned bytes.Buffer
	)

	var lastDecodeErr error
	sr := mpegts.NewStreamReader(src, modOptions...)
	for {
		if err = ctx.Err(); err != nil {
			return
		}

		pkt, rerr := sr.ReadPacket()
		if rerr == io.EOF {
			break
		}
		if rerr == base.ErrMpegtsStreamTerminated && lastDecodeErr != nil {
			return res, lastDecodeErr
		}
		if errors.Is(rerr, base.ErrShortBuffer) {
			// 末尾残包，之前解析成功的packet照常对比
			res.Truncated = true
			break
		}
		var de *mpegts.DecodeError
		if errors.As(rerr, &de) {
			res.DecodeErrorCount++
			lastDecodeErr = rerr
			continue
		}
		if rerr != nil {
			return res, rerr
		}

		pkts = append(pkts, pkt)
		_, _ = aligned.Write(sr.Raw())
	}
	res.PacketCount = len(pkts)

	dmx := astits.NewDemuxer(ctx, bytes.NewReader(aligned.Bytes()), astits.DemuxerOptPacketSize(mpegts.PacketSize))
	for i := range pkts {
		p, derr := dmx.NextPacket()
		if derr != nil {
			return res, fmt.Errorf("%w. ours=%d, theirs=%d, err=%s", base.ErrTscmp, len(pkts), i, derr.Error())
		}
		res.Mismatches = append(res.Mismatches, comparePacket(i, &pkts[i], p)...)
	}
	return res, nil
}

func comparePacket(index int, ours *mpegts.TsPacket, theirs *astits.Packet) (ret []Mismatch) {
	check := func(field string, o, t interface{}) {
		so, st := fmt.Sprint(o), fmt.Sprint(t)
		if so != st {
			ret = append(ret, Mismatch{
				Index:  index,
				Offset: ours.Offset,
				Field:  field,
				Ours:   so,
				Theirs: st,
			})
		}
	}

	h := &ours.Header
	check("transport_error_indicator", h.Err, theirs.Header.TransportErrorIndicator)
	check("payload_unit_start_indicator", h.PayloadUnitStart, theirs.Header.PayloadUnitStartIndicator)
	check("transport_priority", h.Prio, theirs.Header.TransportPriority)
	check("pid", h.Pid, theirs.Header.PID)
	check("transport_scrambling_control", h.Scra, theirs.Header.TransportScramblingControl)
	check("has_adaptation_field", ours.HasAdaptationField(), theirs.Header.HasAdaptationField)
	check("has_payload", ours.HasPayload(), theirs.Header.HasPayload)
	check("continuity_counter", h.Cc, theirs.Header.ContinuityCounter)

	if ours.Adaptation == nil || theirs.AdaptationField == nil {
		check("adaptation_field", ours.Adaptation != nil, theirs.AdaptationField != nil)
		return
	}

	af := theirs.AdaptationField
	check("adaptation_field_length", int(ours.Adaptation.Length), af.Length)
	ah := ours.Adaptation.Header
	if ah == nil {
		return
	}
	check("discontinuity_indicator", ah.Discontinuity, af.DiscontinuityIndicator)
	check("random_access_indicator", ah.RandomAccess, af.RandomAccessIndicator)
	check("elementary_stream_priority_indicator", ah.EsPriority, af.ElementaryStreamPriorityIndicator)
	check("pcr_flag", ah.PcrFlag, af.HasPCR)
	check("opcr_flag", ah.OpcrFlag, af.HasOPCR)
	check("splicing_point_flag", ah.SplicingPoint, af.HasSplicingCountdown)
	check("transport_private_data_flag", ah.TransportPrivateData, af.HasTransportPrivateData)
	check("adaptation_field_extension_flag", ah.Extension, af.HasAdaptationExtensionField)
	return
}
