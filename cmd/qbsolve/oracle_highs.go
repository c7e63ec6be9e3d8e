//go:build (linux || darwin) && (amd64 || arm64)

package main

import "github.com/robionica/les/ilp"

func highsOracle() (ilp.Oracle, bool) {
	return ilp.HiGHS{}, true
}
