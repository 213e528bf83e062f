// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package txgen

import (
	"time"

	gometrics "github.com/rcrowley/go-metrics"
)

// phaseMetrics 单个阶段的统计
type phaseMetrics struct {
	written gometrics.Counter
	elapsed gometrics.Timer
	start   time.Time
}

func newPhaseMetrics(r gometrics.Registry, phase string) *phaseMetrics {
	return &phaseMetrics{
		written: gometrics.GetOrRegisterCounter("ganitgen/"+phase+"/written", r),
		elapsed: gometrics.GetOrRegisterTimer("ganitgen/"+phase+"/elapsed", r),
	}
}

func (m *phaseMetrics) begin() {
	m.start = time.Now()
}

func (m *phaseMetrics) mark() {
	m.written.Inc(1)
}

func (m *phaseMetrics) end() {
	m.elapsed.UpdateSince(m.start)
}

// PhaseStat 阶段结果
type PhaseStat struct {
	Name    string
	Written int64
	Elapsed time.Duration
}

func (m *phaseMetrics) stat(name string) PhaseStat {
	return PhaseStat{Name: name, Written: m.written.Count(), Elapsed: time.Duration(m.elapsed.Sum())}
}
