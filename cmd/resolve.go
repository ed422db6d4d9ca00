package cmd

import (
	"fmt"
	"strings"

	"github.com/etnz/wealth"
)

// resolve finds the single item matching ref: its exact id first, then a
// unique id prefix, then a unique case insensitive label.
func resolve[T any](items []T, ref string, id func(T) string, labels func(T) []string) (T, error) {
	var zero T
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return zero, fmt.Errorf("empty reference")
	}
	for _, it := range items {
		if id(it) == ref {
			return it, nil
		}
	}
	match := func(pred func(T) bool) []T {
		var out []T
		for _, it := range items {
			if pred(it) {
				out = append(out, it)
			}
		}
		return out
	}
	prefix := match(func(it T) bool { return strings.HasPrefix(id(it), ref) })
	if len(prefix) == 1 {
		return prefix[0], nil
	}
	named := match(func(it T) bool {
		for _, l := range labels(it) {
			if l != "" && strings.EqualFold(l, ref) {
				return true
			}
		}
		return false
	})
	switch {
	case len(named) == 1:
		return named[0], nil
	case len(prefix)+len(named) > 1:
		return zero, fmt.Errorf("%q is ambiguous", ref)
	}
	return zero, fmt.Errorf("%q: %w", ref, wealth.ErrNotApplicable)
}

func resolveAccount(p wealth.Portfolio, ref string) (wealth.Account, error) {
	return resolve(p.Accounts, ref,
		func(a wealth.Account) string { return a.ID },
		func(a wealth.Account) []string { return []string{a.Name, a.Symbol} })
}

func resolveDeposit(p wealth.Portfolio, ref string) (wealth.FixedDeposit, error) {
	return resolve(p.FixedDeposits, ref,
		func(fd wealth.FixedDeposit) string { return fd.ID },
		func(fd wealth.FixedDeposit) []string { return []string{fd.BankName} })
}
