// Copyright 2020, Chef.  All rights reserved.
// https://github.com/q191201771/tsreader
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

// 版本信息相关
// 编译信息使用了naza.bininfo，本文件只提供库自身的版本

// 版本，该变量由外部脚本修改维护
const TsreaderVersion = "v0.1.0"

var (
	TsreaderLibraryName = "tsreader"
	TsreaderGithubRepo  = "github.com/q191201771/tsreader"

	// e.g. tsreader v0.1.0 (github.com/q191201771/tsreader)
	TsreaderFullInfo = TsreaderLibraryName + " " + TsreaderVersion + " (" + TsreaderGithubRepo + ")"
)
