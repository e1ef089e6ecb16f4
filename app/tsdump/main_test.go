// Copyright 2020, Chef.  All rights reserved.
// https://github.com/q191201771/tsreader
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/q191201771/naza/pkg/assert"
	"github.com/q191201771/tsreader/pkg/mpegts"
)

func packPacket(t *testing.T, pid uint16, afc uint8, cc uint8) []byte {
	b := make([]byte, mpegts.PacketSize)
	h := mpegts.TsPacketHeader{Pid: pid, Adaptation: afc, Cc: cc}
	assert.Equal(t, nil, mpegts.PackTsPacketHeader(b, &h))
	return b
}

func writeTsFile(t *testing.T, dir string, name string, packets ...[]byte) string {
	var content []byte
	for _, p := range packets {
		content = append(content, p...)
	}
	filename := filepath.Join(dir, name)
	assert.Equal(t, nil, ioutil.WriteFile(filename, content, 0666))
	return filename
}

func newTestConfig(t *testing.T, tsFile string) *Config {
	config, err := ParseConf([]byte(`{"print_packet": false}`))
	assert.Equal(t, nil, err)
	config.TsFile = tsFile
	return config
}

func TestRun(t *testing.T) {
	dir, err := ioutil.TempDir("", "tsdump")
	assert.Equal(t, nil, err)
	defer os.RemoveAll(dir)

	good1 := packPacket(t, 0x100, mpegts.AdaptationFieldControlNo, 0)
	corrupt := packPacket(t, 0x100, mpegts.AdaptationFieldControlFollowed, 1)
	corrupt[mpegts.PacketHeaderSize] = 183
	good2 := packPacket(t, 0x100, mpegts.AdaptationFieldControlNo, 2)
	corruptFile := writeTsFile(t, dir, "corrupt.ts", good1, corrupt, good2)

	// 非strict模式下跳过坏包继续解析
	config := newTestConfig(t, corruptFile)
	assert.Equal(t, 0, run(config))

	config.Strict = true
	assert.Equal(t, 1, run(config))

	// 末尾残包总是失败
	truncatedFile := writeTsFile(t, dir, "truncated.ts", good1, good2[:100])
	config = newTestConfig(t, truncatedFile)
	assert.Equal(t, 1, run(config))

	config = newTestConfig(t, filepath.Join(dir, "not_exist.ts"))
	assert.Equal(t, 1, run(config))
}

func TestRun_PatOnly(t *testing.T) {
	dir, err := ioutil.TempDir("", "tsdump")
	assert.Equal(t, nil, err)
	defer os.RemoveAll(dir)

	pat1 := packPacket(t, mpegts.PidPat, mpegts.AdaptationFieldControlNo, 0)
	other := packPacket(t, 0x100, mpegts.AdaptationFieldControlNo, 0)
	pat2 := packPacket(t, mpegts.PidPat, mpegts.AdaptationFieldControlNo, 1)
	inFile := writeTsFile(t, dir, "in.ts", []byte{0x00, 0x01}, pat1, other, pat2)

	config := newTestConfig(t, inFile)
	config.PatOnly = true
	config.OutFile = filepath.Join(dir, "pat.ts")
	assert.Equal(t, 0, run(config))

	out, err := ioutil.ReadFile(config.OutFile)
	assert.Equal(t, nil, err)
	assert.Equal(t, append(append([]byte{}, pat1...), pat2...), out)
}

func TestVerify(t *testing.T) {
	dir, err := ioutil.TempDir("", "tsdump")
	assert.Equal(t, nil, err)
	defer os.RemoveAll(dir)

	inFile := writeTsFile(t, dir, "in.ts",
		packPacket(t, mpegts.PidPat, mpegts.AdaptationFieldControlNo, 0),
		packPacket(t, 0x100, mpegts.AdaptationFieldControlNo, 0))

	config := newTestConfig(t, inFile)
	config.Verify = true
	assert.Equal(t, 0, verify(config))

	config = newTestConfig(t, filepath.Join(dir, "not_exist.ts"))
	assert.Equal(t, 1, verify(config))
}
