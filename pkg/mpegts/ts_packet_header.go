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

const (
	SyncByte = uint8(0x47)

	PacketSize       = 188
	PacketHeaderSize = 4

	PidPat = uint16(0)
	PidMax = uint16(0x1FFF)
)

// adaptation_field_control
const (
	AdaptationFieldControlReserved = uint8(0) // 0b00
	AdaptationFieldControlNo       = uint8(1) // 0b01 只有payload
	AdaptationFieldControlOnly     = uint8(2) // 0b10 只有adaptation field
	AdaptationFieldControlFollowed = uint8(3) // 0b11 adaptation field后跟payload

	adaptationFieldFlag = uint8(2)
	payloadFlag         = uint8(1)
)

const (
	// 有payload时，adaptation field之后至少留1字节给payload
	AdaptationFieldMaxLengthWithPayload = uint8(PacketSize - PacketHeaderSize - 1 - 1)

	// 没有payload时，adaptation field占满header之后的全部空间
	AdaptationFieldLengthWithoutPayload = uint8(PacketSize - PacketHeaderSize - 1)
)

// ------------------------------------------------
// <iso13818-1.pdf> <2.4.3.2> <page 36/174>
// sync_byte                    [8b]  * always 0x47
// transport_error_indicator    [1b]
// payload_unit_start_indicator [1b]
// transport_priority           [1b]
// PID                          [13b] **
// transport_scrambling_control [2b]
// adaptation_field_control     [2b]
// continuity_counter           [4b]  *
// ------------------------------------------------
type TsPacketHeader struct {
	Sync             uint8
	Err              bool
	PayloadUnitStart bool
	Prio             bool
	Pid              uint16
	Scra             uint8
	Adaptation       uint8
	Cc               uint8

	LastByte uint8 // header的第4个字节原始值，即 scra | adaptation | cc
}

// ----------------------------------------------------------
// <iso13818-1.pdf> <Table 2-6> <page 40/174>
// adaptation_field_length              [8b] * 不包括自己这1字节
// discontinuity_indicator              [1b]
// random_access_indicator              [1b]
// elementary_stream_priority_indicator [1b]
// PCR_flag                             [1b]
// OPCR_flag                            [1b]
// splicing_point_flag                  [1b]
// transport_private_data_flag          [1b]
// adaptation_field_extension_flag      [1b] *
// -----if PCR_flag == 1-----
// program_clock_reference_base         [33b]
// reserved                             [6b]
// program_clock_reference_extension    [9b] ******
// ----------------------------------------------------------
//
// 只解析到flag字节为止，flag控制的PCR、OPCR等字段原样留在packet中
type TsPacketAdaptation struct {
	Length uint8
	Header *TsPacketAdaptationHeader // Length为0时为nil
}

type TsPacketAdaptationHeader struct {
	Discontinuity        bool
	RandomAccess         bool
	EsPriority           bool
	PcrFlag              bool
	OpcrFlag             bool
	SplicingPoint        bool
	TransportPrivateData bool
	Extension            bool
}

func (h *TsPacketHeader) HasAdaptationField() bool {
	return h.Adaptation&adaptationFieldFlag != 0
}

func (h *TsPacketHeader) HasPayload() bool {
	return h.Adaptation&payloadFlag != 0
}

// ParseTsPacketHeader 解析4字节TS Packet header
//
// 不校验sync byte，由调用方决定
func ParseTsPacketHeader(b []byte) (h TsPacketHeader, err error) {
	if len(b) < PacketHeaderSize {
		return h, base.NewErrShortBuffer(PacketHeaderSize, len(b))
	}

	br := nazabits.NewBitReader(b)
	h.Sync, _ = br.ReadBits8(8)
	h.Err = readFlag(&br)
	h.PayloadUnitStart = readFlag(&br)
	h.Prio = readFlag(&br)
	h.Pid, _ = br.ReadBits16(13)
	h.Scra, _ = br.ReadBits8(2)
	h.Adaptation, _ = br.ReadBits8(2)
	h.Cc, _ = br.ReadBits8(4)
	h.LastByte = b[3]
	return
}

// ParseTsPacketAdaptation
//
// @param b: 从adaptation_field_length开始
// @param hasPayload: 该packet是否还携带payload，决定length的合法范围
func ParseTsPacketAdaptation(b []byte, hasPayload bool) (f TsPacketAdaptation, err error) {
	if len(b) < 1 {
		return f, base.NewErrShortBuffer(1, len(b))
	}
	f.Length = b[0]

	if hasPayload {
		if f.Length > AdaptationFieldMaxLengthWithPayload {
			return f, base.NewErrMpegtsInvalidAdaptationFieldLength(f.Length, hasPayload)
		}
	} else {
		if f.Length != AdaptationFieldLengthWithoutPayload {
			return f, base.NewErrMpegtsInvalidAdaptationFieldLength(f.Length, hasPayload)
		}
	}

	if f.Length == 0 {
		return
	}
	if len(b) < 2 {
		return f, base.NewErrShortBuffer(2, len(b))
	}

	br := nazabits.NewBitReader(b[1:2])
	var h TsPacketAdaptationHeader
	h.Discontinuity = readFlag(&br)
	h.RandomAccess = readFlag(&br)
	h.EsPriority = readFlag(&br)
	h.PcrFlag = readFlag(&br)
	h.OpcrFlag = readFlag(&br)
	h.SplicingPoint = readFlag(&br)
	h.TransportPrivateData = readFlag(&br)
	h.Extension = readFlag(&br)
	f.Header = &h
	return
}

// 调用方保证长度足够
func readFlag(br *nazabits.BitReader) bool {
	v, _ := br.ReadBits8(1)
	return v == 1
}
