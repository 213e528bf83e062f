// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"fmt"

	"github.com/33cn/ganitgen/ganit"
	"github.com/33cn/ganitgen/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// AnswerCmd prints the answer the contract accepts for a question.
func AnswerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "answer",
		Short: "Show the correct answer of a game question",
		RunE:  answer,
	}
	addAnswerFlags(cmd)
	return cmd
}

func addAnswerFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("gameid", "g", "", "game id, 32 bytes hex")
	cmd.MarkFlagRequired("gameid")
	cmd.Flags().Uint64P("question", "q", 0, "question id")
}

func answer(cmd *cobra.Command, args []string) error {
	gameID, _ := cmd.Flags().GetString("gameid")
	question, _ := cmd.Flags().GetUint64("question")

	raw, err := hexutil.Decode(gameID)
	if err != nil || len(raw) != common.HashLength {
		return errors.Wrapf(types.ErrConfiguration, "gameid %q is not a 0x-prefixed 32 byte hex", gameID)
	}
	id := common.BytesToHash(raw)
	seed, err := ganit.AnswerSeed(id, question)
	if err != nil {
		return err
	}
	correct, err := ganit.CorrectAnswer(id, question)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "gameId:  ", id.Hex())
	fmt.Fprintln(out, "question:", question)
	fmt.Fprintln(out, "seed:    ", hexutil.EncodeBig(seed))
	fmt.Fprintln(out, "answer:  ", correct)
	return nil
}
