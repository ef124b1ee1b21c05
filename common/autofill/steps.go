// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package autofill

import (
	"regexp"
	"strings"
)

var sentenceEndRE = regexp.MustCompile(`[.!?]\s+`)

// CountSteps counts the steps in free-text instructions. Multi-line
// instructions have one step per non-empty line, otherwise each sentence is a
// step. There is always at least one step.
func CountSteps(instructions string) int {
	lines := 0
	for _, l := range strings.Split(instructions, "\n") {
		if strings.TrimSpace(l) != "" {
			lines++
		}
	}
	if lines >= 2 {
		return lines
	}

	sentences := 0
	for _, s := range sentenceEndRE.Split(instructions, -1) {
		if strings.TrimSpace(s) != "" {
			sentences++
		}
	}
	return max(1, sentences)
}
