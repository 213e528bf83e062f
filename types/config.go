// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"sort"
	"strings"

	tml "github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// 默认参数
const (
	DefaultGameCount      = 1000
	DefaultAnswersPerGame = 20
	DefaultOutDir         = "benchmark/ganit/txs"
	DefaultGasLimit       = 500000
	DefaultDeployGasLimit = 5000000
	DefaultGasPrice       = "1"
	DefaultDeployTimeout  = 120
	DefaultConfigFile     = "ganitgen.toml"
)

// Config 生成工具的完整配置, 加载之后只读
type Config struct {
	Title          string              `toml:"title"`
	DefaultNetwork string              `toml:"defaultNetwork"`
	Log            *Log                `toml:"log"`
	Bench          *Bench              `toml:"bench"`
	Metrics        *Metrics            `toml:"metrics"`
	Networks       map[string]*Network `toml:"networks"`
}

// Log 日志配置
type Log struct {
	// 日志级别，支持debug(dbug)/info/warn/error(eror)/crit
	Loglevel        string `toml:"loglevel"`
	LogConsoleLevel string `toml:"logConsoleLevel"`
	// 日志文件名，可带目录，所有生成的日志文件都放到此目录下
	LogFile string `toml:"logFile"`
	// 单个日志文件的最大值（单位：兆）
	MaxFileSize uint32 `toml:"maxFileSize"`
	// 最多保存的历史日志文件个数
	MaxBackups uint32 `toml:"maxBackups"`
	// 最多保存的历史日志消息（单位：天）
	MaxAge uint32 `toml:"maxAge"`
	// 日志文件名是否使用本地时间（否则使用UTC时间）
	LocalTime bool `toml:"localTime"`
	// 历史日志文件是否压缩（压缩格式为gz）
	Compress bool `toml:"compress"`
	// 是否打印调用源文件和行号
	CallerFile bool `toml:"callerFile"`
	// 是否打印调用方法
	CallerFunction bool `toml:"callerFunction"`
}

// Metrics 生成过程指标上报
type Metrics struct {
	EnableMetrics bool `toml:"enableMetrics"`
	// 目前只支持 influxdb
	DataEmitMode string `toml:"dataEmitMode"`
	// 上报间隔, 单位毫秒
	Duration  int64  `toml:"duration"`
	URL       string `toml:"url"`
	Database  string `toml:"database"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	Namespace string `toml:"namespace"`
}

// Bench 交易生成规模
type Bench struct {
	GameCount      int    `toml:"gameCount"`
	AnswersPerGame int    `toml:"answersPerGame"`
	OutDir         string `toml:"outDir"`
}

// Network one network profile, the equivalent of a network.json entry.
//
// Keys signs every generated transaction. Accounts are the addresses used as
// game participants and opponents; when empty they are derived from Keys.
// The two lists rotate independently.
type Network struct {
	URL             string   `toml:"url"`
	ChainID         int64    `toml:"chainID"`
	Keys            []string `toml:"keys"`
	Accounts        []string `toml:"accounts"`
	GasLimit        uint64   `toml:"gasLimit"`
	DeployGasLimit  uint64   `toml:"deployGasLimit"`
	GasPrice        string   `toml:"gasPrice"`
	ContractAddress string   `toml:"contractAddress"`
	ContractBin     string   `toml:"contractBin"`
	DeployTimeout   int64    `toml:"deployTimeout"`
	Offline         bool     `toml:"offline"`
	StartNonce      uint64   `toml:"startNonce"`
}

// LoadConfig 从文件加载配置
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := tml.DecodeFile(path, cfg); err != nil {
		return nil, errors.Wrapf(ErrConfiguration, "decode %s: %v", path, err)
	}
	cfg.fillDefault()
	return cfg, nil
}

// ReadConfig 从字符串加载配置
func ReadConfig(content string) (*Config, error) {
	cfg := &Config{}
	if _, err := tml.Decode(content, cfg); err != nil {
		return nil, errors.Wrapf(ErrConfiguration, "decode config: %v", err)
	}
	cfg.fillDefault()
	return cfg, nil
}

func (c *Config) fillDefault() {
	if c.Log == nil {
		c.Log = &Log{}
	}
	if c.Bench == nil {
		c.Bench = &Bench{}
	}
	if c.Metrics == nil {
		c.Metrics = &Metrics{}
	}
	if c.Bench.GameCount == 0 {
		c.Bench.GameCount = DefaultGameCount
	}
	if c.Bench.AnswersPerGame == 0 {
		c.Bench.AnswersPerGame = DefaultAnswersPerGame
	}
	if c.Bench.OutDir == "" {
		c.Bench.OutDir = DefaultOutDir
	}
	for _, n := range c.Networks {
		if n.GasLimit == 0 {
			n.GasLimit = DefaultGasLimit
		}
		if n.DeployGasLimit == 0 {
			n.DeployGasLimit = DefaultDeployGasLimit
		}
		if n.DeployTimeout == 0 {
			n.DeployTimeout = DefaultDeployTimeout
		}
	}
}

// GetNetwork 按名称获取网络配置, 名称为空时使用 defaultNetwork
func (c *Config) GetNetwork(name string) (*Network, error) {
	if name == "" {
		name = c.DefaultNetwork
	}
	n, ok := c.Networks[name]
	if !ok || n == nil {
		return nil, errors.Wrapf(ErrNetworkNotFound, "name=%q known=[%s]", name, strings.Join(c.NetworkNames(), ","))
	}
	if len(n.Keys) == 0 {
		return nil, errors.Wrapf(ErrEmptyKeyPool, "network %s", name)
	}
	return n, nil
}

// NetworkNames returns the configured profile names in sorted order.
func (c *Config) NetworkNames() []string {
	names := make([]string, 0, len(c.Networks))
	for name := range c.Networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CheckBench validates generation sizes.
func (b *Bench) CheckBench() error {
	if b.GameCount <= 0 {
		return errors.Wrapf(ErrConfiguration, "gameCount=%d", b.GameCount)
	}
	if b.AnswersPerGame <= 0 {
		return errors.Wrapf(ErrConfiguration, "answersPerGame=%d", b.AnswersPerGame)
	}
	if b.OutDir == "" {
		return errors.Wrap(ErrConfiguration, "empty outDir")
	}
	return nil
}
