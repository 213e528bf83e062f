// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metrics 把生成过程中的 go-metrics 指标上报到 influxdb
package metrics

import (
	"strings"
	"time"

	"github.com/33cn/ganitgen/common/log"
	"github.com/33cn/ganitgen/types"
	client "github.com/influxdata/influxdb/client/v2"
	"github.com/pkg/errors"
	gometrics "github.com/rcrowley/go-metrics"
)

var mlog = log.New("module", "metrics")

// DefaultNamespace measurement 前缀
const DefaultNamespace = "ganitgen"

const defaultDuration = 5000

// Reporter pushes every counter and timer of a registry as one point each.
type Reporter struct {
	reg       gometrics.Registry
	cli       client.Client
	database  string
	namespace string
	interval  time.Duration
	stop      chan struct{}
	done      chan struct{}
}

// StartMetrics 根据配置启动上报, 未开启时返回 nil
func StartMetrics(cfg *types.Metrics, reg gometrics.Registry) (*Reporter, error) {
	if cfg == nil || !cfg.EnableMetrics {
		mlog.Debug("Metrics data is not enabled to emit")
		return nil, nil
	}
	switch cfg.DataEmitMode {
	case "influxdb":
	default:
		return nil, errors.Wrapf(types.ErrConfiguration, "dataEmitMode %q not supported", cfg.DataEmitMode)
	}
	r, err := NewReporter(cfg, reg)
	if err != nil {
		return nil, err
	}
	mlog.Info("StartMetrics with influxdb", "url", cfg.URL, "database", cfg.Database,
		"namespace", r.namespace, "interval", r.interval)
	go r.run()
	return r, nil
}

// NewReporter creates a reporter without starting the flush loop.
func NewReporter(cfg *types.Metrics, reg gometrics.Registry) (*Reporter, error) {
	if cfg.URL == "" || cfg.Database == "" {
		return nil, errors.Wrap(types.ErrConfiguration, "influxdb url and database are required")
	}
	cli, err := client.NewHTTPClient(client.HTTPConfig{
		Addr:     cfg.URL,
		Username: cfg.Username,
		Password: cfg.Password,
		Timeout:  5 * time.Second,
	})
	if err != nil {
		return nil, errors.Wrapf(types.ErrConfiguration, "influxdb client: %v", err)
	}
	ns := cfg.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	d := cfg.Duration
	if d <= 0 {
		d = defaultDuration
	}
	return &Reporter{
		reg:       reg,
		cli:       cli,
		database:  cfg.Database,
		namespace: ns,
		interval:  time.Duration(d) * time.Millisecond,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}, nil
}

func (r *Reporter) run() {
	defer close(r.done)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := r.Report(); err != nil {
				mlog.Warn("unable to send metrics to InfluxDB", "err", err)
			}
		case <-r.stop:
			return
		}
	}
}

// Stop 停止定时上报, 并做最后一次上报
func (r *Reporter) Stop() error {
	if r == nil {
		return nil
	}
	close(r.stop)
	<-r.done
	err := r.Report()
	r.cli.Close()
	return err
}

// Report 立即上报一次
func (r *Reporter) Report() error {
	bp, err := client.NewBatchPoints(client.BatchPointsConfig{Database: r.database, Precision: "ms"})
	if err != nil {
		return err
	}
	now := time.Now()
	var perr error
	r.reg.Each(func(name string, i interface{}) {
		fields := metricFields(i)
		if fields == nil || perr != nil {
			return
		}
		pt, err := client.NewPoint(r.measurement(name), nil, fields, now)
		if err != nil {
			perr = err
			return
		}
		bp.AddPoint(pt)
	})
	if perr != nil {
		return perr
	}
	if len(bp.Points()) == 0 {
		return nil
	}
	return r.cli.Write(bp)
}

// ganitgen/create/written -> ganitgen.create.written
func (r *Reporter) measurement(name string) string {
	return r.namespace + "." + strings.ReplaceAll(strings.TrimPrefix(name, DefaultNamespace+"/"), "/", ".")
}

func metricFields(i interface{}) map[string]interface{} {
	switch m := i.(type) {
	case gometrics.Counter:
		return map[string]interface{}{"count": m.Count()}
	case gometrics.Timer:
		s := m.Snapshot()
		ps := s.Percentiles([]float64{0.5, 0.99})
		return map[string]interface{}{
			"count": s.Count(),
			"max":   s.Max(),
			"mean":  s.Mean(),
			"min":   s.Min(),
			"p50":   ps[0],
			"p99":   ps[1],
		}
	case gometrics.Gauge:
		return map[string]interface{}{"value": m.Value()}
	}
	return nil
}
