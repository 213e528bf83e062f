// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package txgen

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/33cn/ganitgen/types"
	"github.com/pkg/errors"
)

// 输出文件相对路径
const (
	CreateFile = "create-games/create.out"
	SubmitFile = "submit-answers/answers.out"
	EndFile    = "end-games/end.out"
)

// Stream append-only output of one phase
type Stream interface {
	Append(tx *SignedTx) error
	Close() error
}

// Sink opens phase streams by relative path.
type Sink interface {
	Open(name string) (Stream, error)
}

// FileSink writes streams below a base directory.
type FileSink struct {
	baseDir string
}

// NewFileSink 创建输出目录及三个阶段的子目录
func NewFileSink(baseDir string) (*FileSink, error) {
	for _, name := range []string{CreateFile, SubmitFile, EndFile} {
		dir := filepath.Join(baseDir, filepath.Dir(name))
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrapf(types.ErrIO, "mkdir %s: %v", dir, err)
		}
	}
	return &FileSink{baseDir: baseDir}, nil
}

// BaseDir 输出根目录
func (f *FileSink) BaseDir() string {
	return f.baseDir
}

// Open truncates and opens name for writing.
func (f *FileSink) Open(name string) (Stream, error) {
	path := filepath.Join(f.baseDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrapf(types.ErrIO, "mkdir %s: %v", path, err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.Wrapf(types.ErrIO, "open %s: %v", path, err)
	}
	return &fileStream{path: path, file: file, w: bufio.NewWriter(file)}, nil
}

type fileStream struct {
	path string
	file *os.File
	w    *bufio.Writer
}

func (s *fileStream) Append(tx *SignedTx) error {
	if _, err := s.w.WriteString(tx.Line()); err != nil {
		return errors.Wrapf(types.ErrIO, "write %s: %v", s.path, err)
	}
	return nil
}

func (s *fileStream) Close() error {
	if err := s.w.Flush(); err != nil {
		s.file.Close()
		return errors.Wrapf(types.ErrIO, "flush %s: %v", s.path, err)
	}
	if err := s.file.Close(); err != nil {
		return errors.Wrapf(types.ErrIO, "close %s: %v", s.path, err)
	}
	return nil
}
