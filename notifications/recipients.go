// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package notifications

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

const emailRule = "email"

var validate = validator.New()

// ParseEmails splits a comma separated list and keeps the trimmed entries
// that are valid e-mail addresses, in their original order. Invalid entries
// are dropped silently and duplicates are kept.
func ParseEmails(list string) []string {
	emails := []string{}
	if list == "" {
		return emails
	}
	for _, s := range strings.Split(list, ",") {
		s = strings.TrimSpace(s)
		if isEmail(s) {
			emails = append(emails, s)
		}
	}

	return emails
}

// Union returns a followed by the entries of b not present in a, dropping
// duplicates while keeping the first occurrence. Comparison is exact.
func Union(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	res := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, s := range list {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			res = append(res, s)
		}
	}

	return res
}

// Recipients merges the per-service list with the global one.
func Recipients(alertTo, always string) []string {
	return Union(ParseEmails(alertTo), ParseEmails(always))
}

func isEmail(s string) bool {
	if s == "" {
		return false
	}
	return validate.Var(s, emailRule) == nil
}
