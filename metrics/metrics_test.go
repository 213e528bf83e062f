// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/33cn/ganitgen/types"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type influxStub struct {
	mu     sync.Mutex
	bodies []string
	dbs    []string
}

func (s *influxStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	s.bodies = append(s.bodies, string(body))
	s.dbs = append(s.dbs, r.URL.Query().Get("db"))
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *influxStub) writes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.bodies...)
}

func TestStartMetricsDisabled(t *testing.T) {
	r, err := StartMetrics(&types.Metrics{}, gometrics.NewRegistry())
	assert.NoError(t, err)
	assert.Nil(t, r)
	assert.NoError(t, r.Stop())

	_, err = StartMetrics(&types.Metrics{EnableMetrics: true, DataEmitMode: "prometheus"}, gometrics.NewRegistry())
	assert.Equal(t, types.ErrConfiguration, types.Category(err))

	_, err = StartMetrics(&types.Metrics{EnableMetrics: true, DataEmitMode: "influxdb"}, gometrics.NewRegistry())
	assert.Equal(t, types.ErrConfiguration, types.Category(err))
}

func TestReport(t *testing.T) {
	stub := &influxStub{}
	srv := httptest.NewServer(stub)
	defer srv.Close()

	reg := gometrics.NewRegistry()
	gometrics.GetOrRegisterCounter("ganitgen/create/written", reg).Inc(42)
	gometrics.GetOrRegisterTimer("ganitgen/create/elapsed", reg).Update(time.Second)

	r, err := NewReporter(&types.Metrics{URL: srv.URL, Database: "bench"}, reg)
	require.NoError(t, err)
	require.NoError(t, r.Report())

	w := stub.writes()
	require.Len(t, w, 1)
	assert.Contains(t, w[0], "ganitgen.create.written count=42i")
	assert.Contains(t, w[0], "ganitgen.create.elapsed count=1i")
	assert.Equal(t, "bench", stub.dbs[0])
}

func TestReporterLoop(t *testing.T) {
	stub := &influxStub{}
	srv := httptest.NewServer(stub)
	defer srv.Close()

	reg := gometrics.NewRegistry()
	gometrics.GetOrRegisterCounter("ganitgen/end/written", reg).Inc(3)
	r, err := StartMetrics(&types.Metrics{
		EnableMetrics: true,
		DataEmitMode:  "influxdb",
		URL:           srv.URL,
		Database:      "bench",
		Namespace:     "ci",
		Duration:      10,
	}, reg)
	require.NoError(t, err)
	require.NotNil(t, r)
	require.NoError(t, r.Stop())

	w := stub.writes()
	require.NotEmpty(t, w)
	assert.Contains(t, w[len(w)-1], "ci.end.written count=3i")
}

func TestReportEmptyRegistry(t *testing.T) {
	stub := &influxStub{}
	srv := httptest.NewServer(stub)
	defer srv.Close()

	r, err := NewReporter(&types.Metrics{URL: srv.URL, Database: "bench"}, gometrics.NewRegistry())
	require.NoError(t, err)
	assert.NoError(t, r.Report())
	assert.Empty(t, stub.writes())
}
