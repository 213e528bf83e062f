// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import "github.com/pkg/errors"

// 致命错误分类, 调用方通过 errors.Wrap 附加上下文, 通过 errors.Cause 判断类别
var (
	ErrConfiguration = errors.New("ErrConfiguration")
	ErrDeployment    = errors.New("ErrDeployment")
	ErrEncoding      = errors.New("ErrEncoding")
	ErrIO            = errors.New("ErrIO")
)

// 配置相关的具体错误
var (
	ErrNetworkNotFound   = errors.Wrap(ErrConfiguration, "network profile not found")
	ErrEmptyAccountPool  = errors.Wrap(ErrConfiguration, "empty account pool")
	ErrEmptyKeyPool      = errors.Wrap(ErrConfiguration, "empty key pool")
	ErrInvalidSlot       = errors.Wrap(ErrConfiguration, "player slot must be 0 or 1")
	ErrNoContractAddress = errors.Wrap(ErrConfiguration, "offline mode needs a contract address")
	ErrSenderNotStripped = errors.Wrap(ErrEncoding, "sender field must be cleared before signing")
)

// Category returns the fatal category sentinel err belongs to, or nil when
// err was not produced by this module.
func Category(err error) error {
	for _, c := range []error{ErrConfiguration, ErrDeployment, ErrEncoding, ErrIO} {
		if errors.Is(err, c) {
			return c
		}
	}
	return nil
}
