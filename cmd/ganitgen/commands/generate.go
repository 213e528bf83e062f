// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package commands ganitgen 子命令
package commands

import (
	"context"

	"github.com/33cn/ganitgen/common/log"
	"github.com/33cn/ganitgen/ganit"
	"github.com/33cn/ganitgen/metrics"
	"github.com/33cn/ganitgen/provision"
	"github.com/33cn/ganitgen/txgen"
	"github.com/33cn/ganitgen/types"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
)

var clog = log.New("module", "cmd")

// GenerateParams 命令行参数, 零值表示使用配置文件
type GenerateParams struct {
	ConfFile       string
	Network        string
	GameCount      int
	AnswersPerGame int
	OutDir         string
	Offline        bool

	// 测试用
	NewBar txgen.BarFactory
	Oracle *ganit.Oracle
}

// GenerateCmd generate command
func GenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate pre-signed create, submit and end transactions",
		RunE:  generate,
	}
	addGenerateFlags(cmd)
	return cmd
}

func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("conf", "f", types.DefaultConfigFile, "config file")
	cmd.Flags().StringP("network", "n", "", "network profile, defaultNetwork if empty")
	cmd.Flags().Int("games", 0, "number of games, overrides bench.gameCount")
	cmd.Flags().Int("answers", 0, "answers per game, overrides bench.answersPerGame")
	cmd.Flags().StringP("out", "o", "", "output dir, overrides bench.outDir")
	cmd.Flags().Bool("offline", false, "sign without any rpc, needs contractAddress and chainID")
}

func generate(cmd *cobra.Command, args []string) error {
	p := &GenerateParams{}
	p.ConfFile, _ = cmd.Flags().GetString("conf")
	p.Network, _ = cmd.Flags().GetString("network")
	p.GameCount, _ = cmd.Flags().GetInt("games")
	p.AnswersPerGame, _ = cmd.Flags().GetInt("answers")
	p.OutDir, _ = cmd.Flags().GetString("out")
	p.Offline, _ = cmd.Flags().GetBool("offline")

	cmd.SilenceUsage = true
	_, err := Generate(cmd.Context(), p)
	if err != nil {
		clog.Error("generate failed", "category", types.Category(err), "err", err)
	}
	return err
}

// Generate loads the config, provisions the network and writes the three
// transaction files plus the manifest.
func Generate(ctx context.Context, p *GenerateParams) (*txgen.Manifest, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := types.LoadConfig(p.ConfFile)
	if err != nil {
		return nil, err
	}
	bench := cfg.Bench
	if p.GameCount > 0 {
		bench.GameCount = p.GameCount
	}
	if p.AnswersPerGame > 0 {
		bench.AnswersPerGame = p.AnswersPerGame
	}
	if p.OutDir != "" {
		bench.OutDir = p.OutDir
	}
	if err := bench.CheckBench(); err != nil {
		return nil, err
	}
	log.Configure(cfg.Log)

	name := p.Network
	if name == "" {
		name = cfg.DefaultNetwork
	}
	network, err := cfg.GetNetwork(name)
	if err != nil {
		return nil, err
	}

	prov, err := provisionNetwork(ctx, network, p.Offline || network.Offline)
	if err != nil {
		return nil, err
	}

	assigner, err := ganit.NewAssigner(prov.Accounts, prov.Keys)
	if err != nil {
		return nil, err
	}
	sink, err := txgen.NewFileSink(bench.OutDir)
	if err != nil {
		return nil, err
	}
	registry := gometrics.NewRegistry()
	reporter, err := metrics.StartMetrics(cfg.Metrics, registry)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := reporter.Stop(); err != nil {
			clog.Warn("final metrics report failed", "err", err)
		}
	}()
	gen, err := txgen.NewGenerator(&txgen.Options{
		GameCount:      bench.GameCount,
		AnswersPerGame: bench.AnswersPerGame,
		Assigner:       assigner,
		Contract:       ganit.NewContract(prov.Contract, prov.GasLimit, prov.GasPrice),
		Signer:         txgen.NewEthSigner(prov.ChainID, txgen.NewNonceTracker(prov.StartNonce, prov.Nonces)),
		Sink:           sink,
		Oracle:         p.Oracle,
		NewBar:         p.NewBar,
		Registry:       registry,
	})
	if err != nil {
		return nil, err
	}
	summary, err := gen.Run()
	if err != nil {
		return nil, err
	}

	m := txgen.NewManifest(name, prov.ChainID.Int64(), prov.Contract.Hex(), summary)
	if err := txgen.WriteManifest(sink.BaseDir(), m); err != nil {
		return nil, err
	}
	clog.Info("generate done", "out", sink.BaseDir(), "runID", m.RunID, "create", m.Counts[txgen.PhaseCreate],
		"submit", m.Counts[txgen.PhaseSubmit], "end", m.Counts[txgen.PhaseEnd], "elapsedMs", m.ElapsedMs)
	return m, nil
}

func provisionNetwork(ctx context.Context, n *types.Network, offline bool) (*provision.Provision, error) {
	if offline {
		return provision.Offline(n)
	}
	client, err := provision.Dial(ctx, n)
	if err != nil {
		return nil, err
	}
	defer client.Close()
	return provision.Online(ctx, n, client)
}
