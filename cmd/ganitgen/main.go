// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// ganitgen 生成 Ganit 合约压测用的预签名交易
package main

import (
	"fmt"
	"os"

	"github.com/33cn/ganitgen/cmd/ganitgen/commands"
	"github.com/33cn/ganitgen/common/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ganitgen",
	Short: "ganit benchmark transaction generator",
}

func init() {
	rootCmd.AddCommand(
		commands.GenerateCmd(),
		commands.AnswerCmd(),
		commands.VersionCmd(),
	)
}

func main() {
	log.SetLogLevel("info")
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
