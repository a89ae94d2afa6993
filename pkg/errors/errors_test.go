// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package errors_test

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/absmach/watchmen/pkg/errors"
	"github.com/stretchr/testify/assert"
)

const level = 10

var (
	err0 = errors.New("0")
	err1 = errors.New("1")
	err2 = errors.New("2")
)

func TestError(t *testing.T) {
	cases := []struct {
		desc string
		err  error
		msg  string
	}{
		{
			desc: "level 0 wrapped error",
			err:  err0,
			msg:  "0",
		},
		{
			desc: "level 1 wrapped error",
			err:  wrap(1),
			msg:  message(1),
		},
		{
			desc: fmt.Sprintf("level %d wrapped error", level),
			err:  wrap(level),
			msg:  message(level),
		},
		{
			desc: "native error wrapped",
			err:  errors.Wrap(err0, fmt.Errorf("dial tcp: refused")),
			msg:  "0 : dial tcp: refused",
		},
	}

	for _, tc := range cases {
		errMsg := tc.err.Error()
		assert.Equal(t, tc.msg, errMsg, fmt.Sprintf("%s: expected %s got %s\n", tc.desc, tc.msg, errMsg))
	}
}

func TestContains(t *testing.T) {
	cases := []struct {
		desc      string
		container error
		contained error
		contains  bool
	}{
		{
			desc:      "nil contains nil",
			container: nil,
			contained: nil,
			contains:  true,
		},
		{
			desc:      "nil contains non-nil",
			container: nil,
			contained: err0,
			contains:  false,
		},
		{
			desc:      "non-nil contains nil",
			container: err0,
			contained: nil,
			contains:  false,
		},
		{
			desc:      "res contains itself",
			container: err0,
			contained: err0,
			contains:  true,
		},
		{
			desc:      "wrapped error contains wrapper",
			container: errors.Wrap(err1, err2),
			contained: err1,
			contains:  true,
		},
		{
			desc:      "wrapped error contains cause",
			container: errors.Wrap(err1, err2),
			contained: err2,
			contains:  true,
		},
		{
			desc:      "error does not contain unrelated error",
			container: errors.Wrap(err1, err2),
			contained: err0,
			contains:  false,
		},
		{
			desc:      "deeply wrapped error contains level 0 error",
			container: wrap(level),
			contained: err0,
			contains:  true,
		},
	}

	for _, tc := range cases {
		contains := errors.Contains(tc.container, tc.contained)
		assert.Equal(t, tc.contains, contains, fmt.Sprintf("%s: expected %v got %v\n", tc.desc, tc.contains, contains))
	}
}

func TestWrap(t *testing.T) {
	native := fmt.Errorf("native")
	cases := []struct {
		desc    string
		wrapper error
		err     error
		msg     string
	}{
		{
			desc:    "wrap nil with nil",
			wrapper: nil,
			err:     nil,
			msg:     "",
		},
		{
			desc:    "wrap nil error",
			wrapper: err1,
			err:     nil,
			msg:     "1",
		},
		{
			desc:    "wrap native error with custom error",
			wrapper: err1,
			err:     native,
			msg:     "1 : native",
		},
		{
			desc:    "wrap custom error with native error",
			wrapper: native,
			err:     err1,
			msg:     "native : 1",
		},
	}

	for _, tc := range cases {
		err := errors.Wrap(tc.wrapper, tc.err)
		if tc.wrapper == nil {
			assert.Nil(t, err, fmt.Sprintf("%s: expected nil got %v\n", tc.desc, err))
			continue
		}
		assert.Equal(t, tc.msg, err.Error(), fmt.Sprintf("%s: expected %s got %s\n", tc.desc, tc.msg, err))
	}
}

func TestUnwrap(t *testing.T) {
	wrapper, cause := errors.Unwrap(errors.Wrap(err1, err2))
	assert.Equal(t, err1.Error(), wrapper.Error())
	assert.Equal(t, err2.Error(), cause.Error())

	wrapper, cause = errors.Unwrap(err0)
	assert.Nil(t, wrapper)
	assert.Equal(t, err0.Error(), cause.Error())
}

func TestStandardLibraryIs(t *testing.T) {
	err := errors.Wrap(err1, err2)
	assert.True(t, stderrors.Is(err, err2))
}

func wrap(level int) error {
	if level == 0 {
		return errors.New(strconv.Itoa(level))
	}
	return errors.Wrap(errors.New(strconv.Itoa(level)), wrap(level-1))
}

func message(level int) string {
	if level == 0 {
		return "0"
	}
	return strconv.Itoa(level) + " : " + message(level-1)
}
