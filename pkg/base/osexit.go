// Copyright 2021, Chef.  All rights reserved.
// https://github.com/q191201771/tsreader
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

import (
	"bufio"
	"fmt"
	"os"
	"runtime"

	"github.com/q191201771/naza/pkg/nazalog"
)

// OsExitAndWaitPressIfWindows 退出前先把日志刷盘
//
// windows下双击运行时，等待用户按回车再退出，避免窗口一闪而过看不到错误信息
func OsExitAndWaitPressIfWindows(code int) {
	nazalog.Sync()
	if runtime.GOOS == "windows" {
		_, _ = fmt.Fprintf(os.Stderr, "Press Enter to exit...")
		r := bufio.NewReader(os.Stdin)
		_, _ = r.ReadByte()
	}
	os.Exit(code)
}
