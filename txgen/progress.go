// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package txgen

import "github.com/qianlnk/pgbar"

// BarTotal 进度条总格数
const BarTotal = 100

// Progress is a cosmetic per-phase indicator. Tick never fails.
type Progress interface {
	Tick()
}

// BarFactory 创建进度条
type BarFactory func(label string, total int) Progress

// NewPgBar renders a terminal bar. Ticks beyond total are dropped.
// rate 100% (100/100) [================================================] 1.31  ps 00:01:15 in: 00:00:00
func NewPgBar(label string, total int) Progress {
	// 各阶段顺序执行, 同一时刻只有一个进度条
	pgbar.Println("\n" + label)
	return &cappedBar{bar: pgbar.NewBar(0, "rate", total), total: total}
}

type cappedBar struct {
	bar   *pgbar.Bar
	total int
	done  int
}

func (b *cappedBar) Tick() {
	if b.done >= b.total {
		return
	}
	b.done++
	b.bar.Add(1)
}

// NopBar 不显示进度
func NopBar(string, int) Progress {
	return nopProgress{}
}

type nopProgress struct{}

func (nopProgress) Tick() {}

// tickInterval = max(1, items/100)
func tickInterval(items int) int {
	n := items / BarTotal
	if n < 1 {
		n = 1
	}
	return n
}

// phaseProgress ticks bar once every interval items plus a final tick.
type phaseProgress struct {
	bar      Progress
	interval int
	count    int
}

func newPhaseProgress(factory BarFactory, label string, items int) *phaseProgress {
	if factory == nil {
		factory = NopBar
	}
	return &phaseProgress{bar: factory(label, BarTotal), interval: tickInterval(items)}
}

func (p *phaseProgress) item() {
	p.count++
	if p.count%p.interval == 0 {
		p.bar.Tick()
	}
}

func (p *phaseProgress) finish() {
	p.bar.Tick()
}
