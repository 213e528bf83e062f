// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package txgen builds the three ordered batches of pre-signed Ganit
// transactions: game creation, answer submission and forced game end.
package txgen

import (
	"time"

	"github.com/33cn/ganitgen/common/log"
	"github.com/33cn/ganitgen/ganit"
	"github.com/33cn/ganitgen/types"
	"github.com/pkg/errors"
	gometrics "github.com/rcrowley/go-metrics"
)

var tlog = log.New("module", "txgen")

// Options 生成器依赖
type Options struct {
	GameCount      int
	AnswersPerGame int

	Assigner *ganit.Assigner
	Contract *ganit.Contract
	Signer   Signer
	Sink     Sink

	// 以下可选
	Oracle   *ganit.Oracle
	Clock    ganit.Clock
	NewBar   BarFactory
	Registry gometrics.Registry
}

// Generator runs the create, submit and end phases strictly in order on a
// single goroutine.
type Generator struct {
	gameCount      int
	answersPerGame int

	assigner *ganit.Assigner
	contract *ganit.Contract
	oracle   *ganit.Oracle
	clock    ganit.Clock
	signer   Signer
	sink     Sink
	newBar   BarFactory
	registry gometrics.Registry

	games *ganit.GameTable
}

// Summary 一次生成的结果
type Summary struct {
	GameCount      int
	AnswersPerGame int
	Phases         []PhaseStat
	Elapsed        time.Duration
}

// Count 返回阶段写出的交易数
func (s *Summary) Count(phase string) int64 {
	for _, p := range s.Phases {
		if p.Name == phase {
			return p.Written
		}
	}
	return 0
}

// ExpectedCounts returns the record count each phase file must hold.
func ExpectedCounts(gameCount, answersPerGame int) map[string]int64 {
	return map[string]int64{
		PhaseCreate: int64(gameCount),
		PhaseSubmit: int64(gameCount) * int64(answersPerGame) * 2,
		PhaseEnd:    int64(gameCount),
	}
}

// NewGenerator 创建生成器
func NewGenerator(opts *Options) (*Generator, error) {
	if opts.GameCount <= 0 || opts.AnswersPerGame <= 0 {
		return nil, errors.Wrapf(types.ErrConfiguration, "gameCount=%d answersPerGame=%d", opts.GameCount, opts.AnswersPerGame)
	}
	if opts.Assigner == nil {
		return nil, types.ErrEmptyAccountPool
	}
	if opts.Contract == nil || opts.Signer == nil || opts.Sink == nil {
		return nil, errors.Wrap(types.ErrConfiguration, "contract, signer and sink are required")
	}
	g := &Generator{
		gameCount:      opts.GameCount,
		answersPerGame: opts.AnswersPerGame,
		assigner:       opts.Assigner,
		contract:       opts.Contract,
		oracle:         opts.Oracle,
		clock:          opts.Clock,
		signer:         opts.Signer,
		sink:           opts.Sink,
		newBar:         opts.NewBar,
		registry:       opts.Registry,
	}
	if g.oracle == nil {
		g.oracle = ganit.NewOracle(nil)
	}
	if g.clock == nil {
		g.clock = ganit.SystemClock{}
	}
	if g.newBar == nil {
		g.newBar = NewPgBar
	}
	if g.registry == nil {
		g.registry = gometrics.NewRegistry()
	}
	return g, nil
}

// Games 本次生成的游戏表, Run 之前为 nil
func (g *Generator) Games() *ganit.GameTable {
	return g.games
}

// Run derives the game table and executes every phase. The first error
// aborts the run.
func (g *Generator) Run() (*Summary, error) {
	start := time.Now()
	tlog.Info("Begin generate ganit txs", "games", g.gameCount, "answersPerGame", g.answersPerGame,
		"contract", g.contract.Address().Hex())

	games, err := ganit.NewGameTable(g.gameCount, g.assigner, g.clock)
	if err != nil {
		return nil, err
	}
	g.games = games

	first, phases := g.buildPhases()
	var stats []PhaseStat
	for task := first; task != nil; task = task.Next() {
		tlog.Info("======start generating txs======", "phase", task.GetName())
		if err := task.Execute(); err != nil {
			tlog.Error("Execute phase failed.", "phase", task.GetName(), "error", err)
			return nil, errors.WithMessagef(err, "phase %s", task.GetName())
		}
	}
	for _, p := range phases {
		st := p.metrics.stat(p.name)
		stats = append(stats, st)
		tlog.Info("tx generation completed", "phase", st.Name, "count", st.Written, "elapsed", st.Elapsed)
	}
	return &Summary{
		GameCount:      g.gameCount,
		AnswersPerGame: g.answersPerGame,
		Phases:         stats,
		Elapsed:        time.Since(start),
	}, nil
}

func (g *Generator) buildPhases() (Phase, []*phaseBase) {
	create := &createPhase{phaseBase{gen: g, name: PhaseCreate, file: CreateFile, label: "Generating Game Creation Tx data"}}
	submit := &submitPhase{phaseBase{gen: g, name: PhaseSubmit, file: SubmitFile, label: "Generating Answer Submission Tx data"}}
	end := &endPhase{phaseBase{gen: g, name: PhaseEnd, file: EndFile, label: "Generating Game Ending Tx data"}}

	bases := []*phaseBase{&create.phaseBase, &submit.phaseBase, &end.phaseBase}
	for _, b := range bases {
		b.metrics = newPhaseMetrics(g.registry, b.name)
	}
	create.SetNext(submit)
	submit.SetNext(end)
	return create, bases
}
