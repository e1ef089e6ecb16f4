// Copyright 2020, Chef.  All rights reserved.
// https://github.com/q191201771/tsreader
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

import (
	"github.com/q191201771/naza/pkg/nazabits"
	"github.com/q191201771/tsreader/pkg/base"
)

// PackTsPacketHeader 将header打包成4字节，是 ParseTsPacketHeader 的逆操作
//
// 注意，sync byte固定写0x47，忽略 h.Sync 和 h.LastByte
func PackTsPacketHeader(out []byte, h *TsPacketHeader) error {
	if len(out) < PacketHeaderSize {
		return base.NewErrShortBuffer(PacketHeaderSize, len(out))
	}
	for i := 0; i < PacketHeaderSize; i++ {
		out[i] = 0
	}
	bw := nazabits.NewBitWriter(out)
	bw.WriteBits8(8, SyncByte)
	bw.WriteBits8(1, bool2bit(h.Err))
	bw.WriteBits8(1, bool2bit(h.PayloadUnitStart))
	bw.WriteBits8(1, bool2bit(h.Prio))
	bw.WriteBits16(13, h.Pid&PidMax)
	bw.WriteBits8(2, h.Scra&0x3)
	bw.WriteBits8(2, h.Adaptation&0x3)
	bw.WriteBits8(4, h.Cc&0xF)
	return nil
}

// PackTsPacketAdaptation 写入adaptation_field_length以及flag字节，剩余的adaptation空间填充0xFF
//
// @param out: 从adaptation_field_length开始
func PackTsPacketAdaptation(out []byte, a *TsPacketAdaptation) error {
	need := 1 + int(a.Length)
	if len(out) < need {
		return base.NewErrShortBuffer(need, len(out))
	}
	out[0] = a.Length
	if a.Length == 0 {
		return nil
	}

	var h TsPacketAdaptationHeader
	if a.Header != nil {
		h = *a.Header
	}
	out[1] = 0
	bw := nazabits.NewBitWriter(out[1:2])
	bw.WriteBits8(1, bool2bit(h.Discontinuity))
	bw.WriteBits8(1, bool2bit(h.RandomAccess))
	bw.WriteBits8(1, bool2bit(h.EsPriority))
	bw.WriteBits8(1, bool2bit(h.PcrFlag))
	bw.WriteBits8(1, bool2bit(h.OpcrFlag))
	bw.WriteBits8(1, bool2bit(h.SplicingPoint))
	bw.WriteBits8(1, bool2bit(h.TransportPrivateData))
	bw.WriteBits8(1, bool2bit(h.Extension))

	for i := 2; i < need; i++ {
		out[i] = 0xFF
	}
	return nil
}

func bool2bit(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
