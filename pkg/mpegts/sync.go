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
)

// FindSync 逐字节查找sync byte
//
// 找到后回退1字节，使sync byte成为下一个被读取的字节
//
// @return offset: sync byte在流中的位置
// @return err:    数据读完仍未找到时返回 io.EOF，其他读取或seek错误原样返回
func FindSync(src io.ReadSeeker) (offset int64, err error) {
	offset, _, err = findSync(src)
	return
}

func findSync(src io.ReadSeeker) (offset int64, skipped int64, err error) {
	var b [1]byte
	for {
		if _, err = io.ReadFull(src, b[:]); err != nil {
			return -1, skipped, err
		}
		if b[0] == SyncByte {
			break
		}
		skipped++
	}

	offset, err = src.Seek(-1, io.SeekCurrent)
	if err != nil {
		return -1, skipped, err
	}
	return offset, skipped, nil
}
