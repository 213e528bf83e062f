// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package log configures the log15 root handler for ganitgen.
//
// Console records go to stderr so they never interleave with the phase
// progress bars, which pgbar draws on stdout. Colours are only used when
// stderr is a terminal; redirected output and tests get plain logfmt.
package log

import (
	"io"
	"os"

	"github.com/33cn/ganitgen/types"
	"github.com/inconshreveable/log15"
	colorable "github.com/mattn/go-colorable"
	isatty "github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultLogFile 未配置 [log] 时的日志文件
const DefaultLogFile = "logs/ganitgen.log"

var (
	consoleWriter   io.Writer = colorable.NewColorableStderr()
	consoleTerminal           = isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
)

// SetLogLevel routes everything at logLevel or above to the console only.
func SetLogLevel(logLevel string) {
	log15.Root().SetHandler(consoleHandler(logLevel))
}

// Configure installs the console handler and, when cfg names a file, a
// rotating file handler next to it. Empty levels are filled in on cfg.
func Configure(cfg *types.Log) {
	if cfg == nil {
		cfg = &types.Log{LogFile: DefaultLogFile}
	}
	if cfg.Loglevel == "" {
		cfg.Loglevel = log15.LvlInfo.String()
	}
	// 阶段开始/结束日志默认在控制台可见
	if cfg.LogConsoleLevel == "" {
		cfg.LogConsoleLevel = log15.LvlInfo.String()
	}

	handlers := []log15.Handler{consoleHandler(cfg.LogConsoleLevel)}
	if cfg.LogFile != "" {
		handlers = append(handlers, fileHandler(cfg))
	}
	log15.Root().SetHandler(log15.MultiHandler(handlers...))
}

func consoleFormat() log15.Format {
	if consoleTerminal {
		return log15.TerminalFormat()
	}
	return log15.LogfmtFormat()
}

func consoleHandler(level string) log15.Handler {
	return log15.LvlFilterHandler(parseLevel(level), log15.StreamHandler(consoleWriter, consoleFormat()))
}

func fileHandler(cfg *types.Log) log15.Handler {
	out := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    int(cfg.MaxFileSize),
		MaxBackups: int(cfg.MaxBackups),
		MaxAge:     int(cfg.MaxAge),
		LocalTime:  cfg.LocalTime,
		Compress:   cfg.Compress,
	}
	h := log15.StreamHandler(out, log15.LogfmtFormat())
	if cfg.CallerFunction {
		h = log15.CallerFuncHandler(h)
	}
	if cfg.CallerFile {
		h = log15.CallerFileHandler(h)
	}
	return log15.LvlFilterHandler(parseLevel(cfg.Loglevel), h)
}

// parseLevel 无法识别的级别按 info 处理
func parseLevel(s string) log15.Lvl {
	if lvl, err := log15.LvlFromString(s); err == nil {
		return lvl
	}
	return log15.LvlInfo
}

// New module logger, e.g. New("module", "txgen")
func New(ctx ...interface{}) log15.Logger {
	return log15.Root().New(ctx...)
}
