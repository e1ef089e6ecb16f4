// Copyright 2019, Chef.  All rights reserved.
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

// FileWriter 将筛选后的packet原样写入文件
type FileWriter struct {
	fp *os.File
}

func (fw *FileWriter) Create(filename string) (err error) {
	fw.fp, err = os.Create(filename)
	return
}

// Write
//
// @param packet: 至少188字节，只写入前188字节
func (fw *FileWriter) Write(packet []byte) (err error) {
	if fw.fp == nil {
		return base.ErrFileNotOpen
	}
	if len(packet) < PacketSize {
		return base.NewErrShortBuffer(PacketSize, len(packet))
	}
	_, err = fw.fp.Write(packet[:PacketSize])
	return
}

func (fw *FileWriter) Dispose() error {
	if fw.fp == nil {
		return base.ErrFileNotOpen
	}
	return fw.fp.Close()
}

func (fw *FileWriter) Name() string {
	if fw.fp == nil {
		return ""
	}
	return fw.fp.Name()
}
