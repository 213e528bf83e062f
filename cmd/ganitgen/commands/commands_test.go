// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/33cn/ganitgen/ganit"
	"github.com/33cn/ganitgen/txgen"
	"github.com/33cn/ganitgen/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConf = `
title = "ganit-test"
defaultNetwork = "local"

[log]
loglevel = "error"
logConsoleLevel = "error"
logFile = ""

[bench]
gameCount = 3
answersPerGame = 2
outDir = "%s"

[networks.local]
chainID = 31337
keys = [
  "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318",
  "ae6ae8e5ccbfb04590405997ee2d52d2b330726137b875053c36d94e974d162f",
]
gasLimit = 300000
gasPrice = "1.5"
contractAddress = "0x00000000000000000000000000000000000000c1"
offline = true
startNonce = 7

[networks.remote]
url = "http://127.0.0.1:1"
keys = ["0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"]
`

func writeConf(t *testing.T, outDir string) string {
	path := filepath.Join(t.TempDir(), "ganitgen.toml")
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(testConf, outDir)), 0644))
	return path
}

func countLines(t *testing.T, path string) int {
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	n := 0
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 1<<20), 1<<20)
	for sc.Scan() {
		n++
	}
	require.NoError(t, sc.Err())
	return n
}

func TestGenerateOffline(t *testing.T) {
	out := t.TempDir()
	p := &GenerateParams{ConfFile: writeConf(t, out), NewBar: txgen.NopBar}
	m, err := Generate(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, "local", m.Network)
	assert.Equal(t, int64(31337), m.ChainID)
	assert.Equal(t, common.HexToAddress("0xc1").Hex(), m.Contract)
	assert.Equal(t, 3, m.GameCount)
	assert.Equal(t, 2, m.AnswersPerGame)
	assert.Equal(t, 3, countLines(t, filepath.Join(out, txgen.CreateFile)))
	assert.Equal(t, 12, countLines(t, filepath.Join(out, txgen.SubmitFile)))
	assert.Equal(t, 3, countLines(t, filepath.Join(out, txgen.EndFile)))

	read, err := txgen.ReadManifest(out)
	require.NoError(t, err)
	assert.Equal(t, m.RunID, read.RunID)
}

func TestGenerateOverrides(t *testing.T) {
	out := filepath.Join(t.TempDir(), "override")
	p := &GenerateParams{
		ConfFile:       writeConf(t, t.TempDir()),
		Network:        "local",
		GameCount:      1,
		AnswersPerGame: 1,
		OutDir:         out,
		NewBar:         txgen.NopBar,
		Oracle:         ganit.NewOracle(nil),
	}
	m, err := Generate(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, int64(2), m.Counts[txgen.PhaseSubmit])
	assert.Equal(t, 2, countLines(t, filepath.Join(out, txgen.SubmitFile)))
}

func TestGenerateErrors(t *testing.T) {
	out := t.TempDir()
	conf := writeConf(t, out)

	_, err := Generate(context.Background(), &GenerateParams{ConfFile: filepath.Join(out, "missing.toml")})
	assert.Equal(t, types.ErrConfiguration, types.Category(err))

	_, err = Generate(context.Background(), &GenerateParams{ConfFile: conf, Network: "nope", NewBar: txgen.NopBar})
	assert.Equal(t, types.ErrConfiguration, types.Category(err))

	// nothing listens on port 1
	_, err = Generate(context.Background(), &GenerateParams{ConfFile: conf, Network: "remote", NewBar: txgen.NopBar})
	assert.Error(t, err)

	// offline without chain id
	_, err = Generate(context.Background(), &GenerateParams{ConfFile: conf, Network: "remote", Offline: true, NewBar: txgen.NopBar})
	assert.Equal(t, types.ErrConfiguration, types.Category(err))

	_, err = os.Stat(filepath.Join(out, txgen.ManifestFile))
	assert.True(t, os.IsNotExist(err))
}

func TestAnswerCmd(t *testing.T) {
	id := common.HexToHash("0x01")
	want, err := ganit.CorrectAnswer(id, 0)
	require.NoError(t, err)

	cmd := AnswerCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--gameid", id.Hex(), "--question", "0"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), fmt.Sprintf("answer:   %d", want))

	cmd = AnswerCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--gameid", "0x1234"})
	err = cmd.Execute()
	assert.Equal(t, types.ErrConfiguration, types.Category(err))
}

func TestVersionCmd(t *testing.T) {
	cmd := VersionCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.True(t, strings.HasPrefix(buf.String(), ProgramName+":"))
	assert.Contains(t, buf.String(), "development build")
}
