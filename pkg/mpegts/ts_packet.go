// Copyright 2020, Chef.  All rights reserved.
// https://github.com/q191201771/tsreader
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

import (
	"fmt"
	"strings"

	"github.com/q191201771/tsreader/pkg/base"
)

// TsPacket 一个188字节TS packet解析后的结构
//
// 不持有payload，payload仍在原始数据中，可通过 PayloadOffset 定位
type TsPacket struct {
	Header     TsPacketHeader
	Adaptation *TsPacketAdaptation // 没有adaptation field时为nil

	// sync byte在流中的位置，直接解析内存块时为-1
	Offset int64
}

type DecodeOption struct {
	// adaptation_field_control为0b00时，true则返回错误，false则当作既无adaptation field也无payload的packet
	RejectReservedAdaptationFieldControl bool
}

var defaultDecodeOption = DecodeOption{
	RejectReservedAdaptationFieldControl: true,
}

// DecodeError 解析失败时携带流中的位置以及观察到的原始字节
type DecodeError struct {
	Offset   int64
	Observed []byte
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode ts packet failed. offset=%d, observed=% x, err=%s", e.Offset, e.Observed, e.Err.Error())
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// DecodeTsPacket 解析一个TS packet
//
// @param b: 至少188字节，只使用前188字节
//
// @return err: 非nil时类型为 *DecodeError
func DecodeTsPacket(b []byte) (TsPacket, error) {
	return DecodeTsPacketWithOption(b, defaultDecodeOption)
}

func DecodeTsPacketWithOption(b []byte, option DecodeOption) (TsPacket, error) {
	return decodeTsPacket(b, -1, option)
}

func decodeTsPacket(b []byte, offset int64, option DecodeOption) (pkt TsPacket, err error) {
	pkt.Offset = offset

	if len(b) < PacketSize {
		return pkt, newDecodeError(offset, b, base.NewErrShortBuffer(PacketSize, len(b)))
	}
	if b[0] != SyncByte {
		return pkt, newDecodeError(offset, b, base.NewErrMpegtsBadSync(b[0]))
	}

	pkt.Header, err = ParseTsPacketHeader(b)
	if err != nil {
		return pkt, newDecodeError(offset, b, err)
	}

	if pkt.Header.Adaptation == AdaptationFieldControlReserved && option.RejectReservedAdaptationFieldControl {
		return pkt, newDecodeError(offset, b, base.ErrMpegtsReservedAdaptationFieldControl)
	}

	if pkt.Header.HasAdaptationField() {
		adaptation, err := ParseTsPacketAdaptation(b[PacketHeaderSize:PacketSize], pkt.Header.HasPayload())
		if err != nil {
			return pkt, newDecodeError(offset, b, err)
		}
		pkt.Adaptation = &adaptation
	}
	return pkt, nil
}

// 只保留header以及adaptation的前两个字节，足够定位问题
func newDecodeError(offset int64, b []byte, err error) *DecodeError {
	n := len(b)
	if n > PacketHeaderSize+2 {
		n = PacketHeaderSize + 2
	}
	observed := make([]byte, n)
	copy(observed, b)
	return &DecodeError{
		Offset:   offset,
		Observed: observed,
		Err:      err,
	}
}

func (pkt *TsPacket) IsPat() bool {
	return pkt.Header.Pid == PidPat
}

func (pkt *TsPacket) HasAdaptationField() bool {
	return pkt.Header.HasAdaptationField()
}

func (pkt *TsPacket) HasPayload() bool {
	return pkt.Header.HasPayload()
}

// PayloadOffset payload第一个字节在188字节中的位置，没有payload时返回-1
func (pkt *TsPacket) PayloadOffset() int {
	if !pkt.HasPayload() {
		return -1
	}
	index := PacketHeaderSize
	if pkt.Adaptation != nil {
		index += 1 + int(pkt.Adaptation.Length)
	}
	return index
}

func (pkt TsPacket) String() string {
	var sb strings.Builder
	h := &pkt.Header
	_, _ = fmt.Fprintf(&sb, "transport packet: offset=%d\n", pkt.Offset)
	_, _ = fmt.Fprintf(&sb, "\ttransport_error_indicator: %t\n", h.Err)
	_, _ = fmt.Fprintf(&sb, "\tpayload_unit_start_indicator: %t\n", h.PayloadUnitStart)
	_, _ = fmt.Fprintf(&sb, "\ttransport_priority: %t\n", h.Prio)
	_, _ = fmt.Fprintf(&sb, "\tpid: %#x\n", h.Pid)
	_, _ = fmt.Fprintf(&sb, "\ttransport_scrambling_control: 0b%02b\n", h.Scra)
	_, _ = fmt.Fprintf(&sb, "\tadaptation_field_control: 0b%02b\n", h.Adaptation)
	_, _ = fmt.Fprintf(&sb, "\tcontinuity_counter: %d\n", h.Cc)
	_, _ = fmt.Fprintf(&sb, "\tlast_byte: %08b", h.LastByte)

	if pkt.Adaptation != nil {
		_, _ = fmt.Fprintf(&sb, "\n\tadaptation_field_length: %d", pkt.Adaptation.Length)
		if ah := pkt.Adaptation.Header; ah != nil {
			_, _ = fmt.Fprintf(&sb, "\n\tadaptation_field_flags: discontinuity=%t random_access=%t es_priority=%t pcr=%t opcr=%t splicing_point=%t private_data=%t extension=%t",
				ah.Discontinuity, ah.RandomAccess, ah.EsPriority, ah.PcrFlag, ah.OpcrFlag, ah.SplicingPoint, ah.TransportPrivateData, ah.Extension)
		}
	}
	return sb.String()
}
