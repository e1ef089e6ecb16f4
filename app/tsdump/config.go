// Copyright 2020, Chef.  All rights reserved.
// https://github.com/q191201771/tsreader
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package main

import (
	"encoding/json"
	"io/ioutil"

	"github.com/q191201771/naza/pkg/nazaerrors"
	"github.com/q191201771/naza/pkg/nazajson"
	"github.com/q191201771/naza/pkg/nazalog"
)

type Config struct {
	TsFile string `json:"ts_file"`

	// true时第一次解析失败即退出，进程返回非0
	Strict bool `json:"strict"`

	RejectReservedAfc bool   `json:"reject_reserved_afc"`
	PatOnly           bool   `json:"pat_only"`
	PrintPacket       bool   `json:"print_packet"`
	OutFile           string `json:"out_file"`
	Verify            bool   `json:"verify"`
	DumpMaxNum        int    `json:"dump_max_num"`

	Log nazalog.Option `json:"log"`
}

func LoadConf(confFile string) (*Config, error) {
	rawContent, err := ioutil.ReadFile(confFile)
	if err != nil {
		return nil, nazaerrors.Wrap(err)
	}
	return ParseConf(rawContent)
}

func ParseConf(rawContent []byte) (*Config, error) {
	var config Config
	if err := json.Unmarshal(rawContent, &config); err != nil {
		return nil, nazaerrors.Wrap(err)
	}

	j, err := nazajson.New(rawContent)
	if err != nil {
		return nil, nazaerrors.Wrap(err)
	}

	// 配置不存在时，设置默认值
	if !j.Exist("reject_reserved_afc") {
		config.RejectReservedAfc = true
	}
	if !j.Exist("print_packet") {
		config.PrintPacket = true
	}
	if !j.Exist("dump_max_num") {
		config.DumpMaxNum = 8
	}
	if !j.Exist("log.level") {
		config.Log.Level = nazalog.LevelDebug
	}
	if !j.Exist("log.is_to_stdout") {
		config.Log.IsToStdout = true
	}
	if !j.Exist("log.short_file_flag") {
		config.Log.ShortFileFlag = true
	}
	if !j.Exist("log.assert_behavior") {
		config.Log.AssertBehavior = nazalog.AssertError
	}

	return &config, nil
}
