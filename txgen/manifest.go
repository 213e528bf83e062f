// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package txgen

import (
	"os"
	"path/filepath"
	"time"

	"github.com/33cn/ganitgen/types"
	tml "github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ManifestFile 生成成功后写入输出根目录
const ManifestFile = "manifest.toml"

// Manifest describes a completed run. It is written after the last phase,
// so a directory without one holds a failed or interrupted run.
type Manifest struct {
	RunID          string            `toml:"runID"`
	Network        string            `toml:"network"`
	ChainID        int64             `toml:"chainID"`
	Contract       string            `toml:"contract"`
	GameCount      int               `toml:"gameCount"`
	AnswersPerGame int               `toml:"answersPerGame"`
	Files          map[string]string `toml:"files"`
	Counts         map[string]int64  `toml:"counts"`
	GeneratedAt    time.Time         `toml:"generatedAt"`
	ElapsedMs      int64             `toml:"elapsedMs"`
}

// NewManifest 根据生成结果构造 Manifest
func NewManifest(network string, chainID int64, contract string, s *Summary) *Manifest {
	m := &Manifest{
		RunID:          uuid.New().String(),
		Network:        network,
		ChainID:        chainID,
		Contract:       contract,
		GameCount:      s.GameCount,
		AnswersPerGame: s.AnswersPerGame,
		Files: map[string]string{
			PhaseCreate: CreateFile,
			PhaseSubmit: SubmitFile,
			PhaseEnd:    EndFile,
		},
		Counts:      make(map[string]int64),
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
		ElapsedMs:   s.Elapsed.Milliseconds(),
	}
	for _, p := range s.Phases {
		m.Counts[p.Name] = p.Written
	}
	return m
}

// WriteManifest writes m to dir/manifest.toml.
func WriteManifest(dir string, m *Manifest) error {
	path := filepath.Join(dir, ManifestFile)
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(types.ErrIO, "create %s: %v", path, err)
	}
	if err := tml.NewEncoder(f).Encode(m); err != nil {
		f.Close()
		return errors.Wrapf(types.ErrIO, "encode %s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(types.ErrIO, "close %s: %v", path, err)
	}
	return nil
}

// ReadManifest 读取 manifest
func ReadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFile)
	m := &Manifest{}
	if _, err := tml.DecodeFile(path, m); err != nil {
		return nil, errors.Wrapf(types.ErrIO, "decode %s: %v", path, err)
	}
	return m, nil
}
