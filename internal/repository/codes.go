package repository

import (
	"fmt"
	"strconv"
	"strings"
)

const codePrefix = "MKD-"

// NextCode produces the next sequential child code from the existing set:
// the maximum numeric suffix plus one, zero-padded to six digits. Max-based
// rather than count-based, so gaps left by deleted records are never reused.
func NextCode(existing []string) string {
	max := 0
	for _, code := range existing {
		rest, ok := strings.CutPrefix(code, codePrefix)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%06d", codePrefix, max+1)
}
