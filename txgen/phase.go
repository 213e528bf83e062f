// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package txgen

import (
	"github.com/33cn/ganitgen/ganit"
	"github.com/pkg/errors"
)

// 阶段名称
const (
	PhaseCreate = "create"
	PhaseSubmit = "submit"
	PhaseEnd    = "end"
)

// Phase 一个生成阶段, 多个阶段串成链依次执行
type Phase interface {
	GetName() string
	Next() Phase
	SetNext(p Phase)

	Execute() error
}

// phaseBase 基础对象
type phaseBase struct {
	gen      *Generator
	name     string
	file     string
	label    string
	nextTask Phase
	metrics  *phaseMetrics
}

func (p *phaseBase) GetName() string {
	return p.name
}

//SetNext 设置下一个阶段
func (p *phaseBase) SetNext(t Phase) {
	p.nextTask = t
}

//Next 获取下一个阶段
func (p *phaseBase) Next() Phase {
	return p.nextTask
}

// run opens the phase stream, hands it to body and closes it. The stream is
// closed on error too; partial files are left for the operator to discard.
func (p *phaseBase) run(items int, body func(out *emitter) error) (err error) {
	stream, err := p.gen.sink.Open(p.file)
	if err != nil {
		return err
	}
	out := &emitter{
		signer:   p.gen.signer,
		stream:   stream,
		metrics:  p.metrics,
		progress: newPhaseProgress(p.gen.newBar, p.label, items),
	}
	p.metrics.begin()
	defer func() {
		p.metrics.end()
		if cerr := stream.Close(); err == nil {
			err = cerr
		}
	}()
	if err = body(out); err != nil {
		return err
	}
	out.progress.finish()
	return nil
}

// emitter strips, signs and appends one transaction at a time.
type emitter struct {
	signer   Signer
	stream   Stream
	metrics  *phaseMetrics
	progress *phaseProgress
}

func (e *emitter) emit(tx *ganit.UnsignedTx, signer ganit.Account) error {
	tx.StripSender()
	signed, err := e.signer.Sign(tx, signer.Key)
	if err != nil {
		return err
	}
	if err := e.stream.Append(signed); err != nil {
		return err
	}
	e.metrics.mark()
	e.progress.item()
	return nil
}

// createPhase createGame(player2) signed by player1
type createPhase struct {
	phaseBase
}

func (p *createPhase) Execute() error {
	g := p.gen
	return p.run(g.games.Len(), func(out *emitter) error {
		for i := 0; i < g.games.Len(); i++ {
			game := g.games.Game(i)
			tx, err := g.contract.CreateGame(game.Player1.Address, game.Player2.Address)
			if err != nil {
				return errors.WithMessagef(err, "game %d", i)
			}
			if err := out.emit(tx, game.Player1); err != nil {
				return errors.WithMessagef(err, "game %d", i)
			}
		}
		return nil
	})
}

// submitPhase submitAnswer for every (game, question, slot)
type submitPhase struct {
	phaseBase
}

func (p *submitPhase) Execute() error {
	g := p.gen
	total := g.games.Len() * g.answersPerGame * 2
	return p.run(total, func(out *emitter) error {
		for i := 0; i < g.games.Len(); i++ {
			game := g.games.Game(i)
			for q := 0; q < g.answersPerGame; q++ {
				for slot := 0; slot < 2; slot++ {
					player := game.Player(slot)
					answer, err := g.oracle.SimulatedAnswer(game.ID, uint64(q))
					if err != nil {
						return errors.WithMessagef(err, "game %d question %d", i, q)
					}
					tx, err := g.contract.SubmitAnswer(player.Address, game.ID, uint64(q), answer)
					if err != nil {
						return errors.WithMessagef(err, "game %d question %d", i, q)
					}
					if err := out.emit(tx, player); err != nil {
						return errors.WithMessagef(err, "game %d question %d slot %d", i, q, slot)
					}
				}
			}
		}
		return nil
	})
}

// endPhase forceEndGame signed by the end signer rotation
type endPhase struct {
	phaseBase
}

func (p *endPhase) Execute() error {
	g := p.gen
	return p.run(g.games.Len(), func(out *emitter) error {
		for i := 0; i < g.games.Len(); i++ {
			game := g.games.Game(i)
			signer := g.assigner.EndSigner(i)
			tx, err := g.contract.ForceEndGame(signer.Address, game.ID)
			if err != nil {
				return errors.WithMessagef(err, "game %d", i)
			}
			if err := out.emit(tx, signer); err != nil {
				return errors.WithMessagef(err, "game %d", i)
			}
		}
		return nil
	})
}
