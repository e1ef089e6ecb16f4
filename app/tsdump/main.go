// Copyright 2020, Chef.  All rights reserved.
// https://github.com/q191201771/tsreader
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/q191201771/naza/pkg/bininfo"
	"github.com/q191201771/naza/pkg/nazalog"
	"github.com/q191201771/tsreader/pkg/base"
	"github.com/q191201771/tsreader/pkg/mpegts"
	"github.com/q191201771/tsreader/pkg/tscmp"
)

// 逐个解析TS文件中的packet并打印，可选地把筛选后的packet写入新文件，以及使用go-astits交叉校验

const dumpMaxLen = 32

func main() {
	confFile, tsFile := parseFlag()
	config := loadConf(confFile, tsFile)
	initLog(config.Log)
	nazalog.Infof("bininfo: %s", bininfo.StringifySingleLine())
	nazalog.Infof("%s", base.TsreaderFullInfo)

	code := run(config)
	if code == 0 && config.Verify {
		code = verify(config)
	}
	base.OsExitAndWaitPressIfWindows(code)
}

func run(config *Config) int {
	var r mpegts.TsFileReader
	if err := r.Open(config.TsFile, streamReaderOption(config)); err != nil {
		nazalog.Errorf("open ts file failed. file=%s, err=%+v", config.TsFile, err)
		return 1
	}
	defer r.Dispose()
	nazalog.Infof("starting to read %s", config.TsFile)

	var fw *mpegts.FileWriter
	if config.OutFile != "" {
		fw = &mpegts.FileWriter{}
		if err := fw.Create(config.OutFile); err != nil {
			nazalog.Errorf("create out file failed. file=%s, err=%+v", config.OutFile, err)
			return 1
		}
		defer func() {
			_ = fw.Dispose()
		}()
	}

	ld := base.NewLogDump(nazalog.GetGlobalLogger(), config.DumpMaxNum)

	code := 0
	for {
		pkt, err := r.ReadPacket()
		if err == io.EOF {
			break
		}
		if err != nil {
			var de *mpegts.DecodeError
			if !errors.As(err, &de) {
				nazalog.Errorf("read ts packet failed. err=%+v", err)
				code = 1
				break
			}

			nazalog.Errorf("decode ts packet failed. offset=%d, err=%+v", de.Offset, de.Err)
			ld.DumpPacket(de.Offset, r.Raw(), dumpMaxLen)
			if config.Strict || errors.Is(err, base.ErrShortBuffer) {
				code = 1
				break
			}
			continue
		}

		if config.PatOnly && !pkt.IsPat() {
			continue
		}
		if config.PrintPacket {
			nazalog.Debugf("packet parsed:\n%s", pkt.String())
		}
		if fw != nil {
			if err := fw.Write(r.Raw()); err != nil {
				nazalog.Errorf("write packet failed. file=%s, err=%+v", fw.Name(), err)
				return 1
			}
		}
	}

	stat := r.Stat()
	nazalog.Infof("read done. packets=%d, decode errors=%d, skipped bytes=%d",
		stat.ReadPacketCount, stat.DecodeErrorCount, stat.SkippedByteCount)
	return code
}

func verify(config *Config) int {
	fp, err := os.Open(config.TsFile)
	if err != nil {
		nazalog.Errorf("open ts file failed. file=%s, err=%+v", config.TsFile, err)
		return 1
	}
	defer fp.Close()

	res, err := tscmp.Compare(context.Background(), fp, streamReaderOption(config))
	if err != nil {
		nazalog.Errorf("verify failed. err=%+v", err)
		return 1
	}
	for _, m := range res.Mismatches {
		nazalog.Warnf("mismatch. %s", m.String())
	}
	nazalog.Infof("verify done. packets=%d, decode errors=%d, mismatches=%d",
		res.PacketCount, res.DecodeErrorCount, len(res.Mismatches))
	if len(res.Mismatches) != 0 {
		return 1
	}
	return 0
}

func streamReaderOption(config *Config) mpegts.ModStreamReaderOption {
	return func(option *mpegts.StreamReaderOption) {
		option.RejectReservedAdaptationFieldControl = config.RejectReservedAfc
		if config.Strict {
			option.DecodeErrorPolicy = mpegts.DecodeErrorPolicyAbort
		} else {
			option.DecodeErrorPolicy = mpegts.DecodeErrorPolicyResync
		}
	}
}

func parseFlag() (confFile string, tsFile string) {
	binInfoFlag := flag.Bool("v", false, "show bin info")
	cf := flag.String("c", "", "specify conf file")
	i := flag.String("i", "", "specify ts file, override ts_file in conf file")
	flag.Parse()
	if *binInfoFlag {
		_, _ = fmt.Fprint(os.Stderr, bininfo.StringifyMultiLine())
		_, _ = fmt.Fprintln(os.Stderr, base.TsreaderFullInfo)
		os.Exit(0)
	}
	if *cf == "" && *i == "" {
		flag.Usage()
		_, _ = fmt.Fprintf(os.Stderr, `
Example:
  ./bin/tsdump -c ./conf/tsdump.conf.json
  ./bin/tsdump -i ./testdata/test.ts
`)
		base.OsExitAndWaitPressIfWindows(1)
	}
	return *cf, *i
}

func loadConf(confFile string, tsFile string) *Config {
	var (
		config *Config
		err    error
	)
	if confFile != "" {
		config, err = LoadConf(confFile)
	} else {
		config, err = ParseConf([]byte("{}"))
	}
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "load conf failed. file=%s err=%+v\n", confFile, err)
		base.OsExitAndWaitPressIfWindows(1)
	}
	if tsFile != "" {
		config.TsFile = tsFile
	}
	if config.TsFile == "" {
		_, _ = fmt.Fprintf(os.Stderr, "ts file not specified. file=%s\n", confFile)
		base.OsExitAndWaitPressIfWindows(1)
	}
	return config
}

func initLog(opt nazalog.Option) {
	if err := nazalog.Init(func(option *nazalog.Option) {
		*option = opt
	}); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "initial log failed. err=%+v\n", err)
		base.OsExitAndWaitPressIfWindows(1)
	}
	nazalog.Info("initial log succ.")
}
