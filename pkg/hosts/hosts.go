/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package hosts expands hostname ranges and merges host lists.
//
// A range turns a prefix and an inclusive numeric interval into hostnames:
//
//	Expand([]string{"web"}, Range{From: 1, To: 3})          // web01 web02 web03
//	Expand([]string{"db"}, Range{From: 8, To: 12, Parity: Even}) // db08 db10 db12
//
// Numbers are zero padded to the width of the upper bound, and never to fewer
// than two digits. A range or expansion producing more than
// defaults.MaxRangeHosts names is rejected.
package hosts

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/davejbarnes/pyngctl/pkg/defaults"
)

// MinWidth is the minimum zero-padded width of a range number.
const MinWidth = 2

// Parity filters range numbers.
type Parity string

const (
	Any  Parity = ""
	Odd  Parity = "odd"
	Even Parity = "even"
)

// ParseParity converts a -p value into a Parity.
func ParseParity(s string) (Parity, error) {
	switch Parity(s) {
	case Any, Odd, Even:
		return Parity(s), nil
	default:
		return Any, fmt.Errorf("invalid parity %q: must be odd or even", s)
	}
}

func (p Parity) keep(n int) bool {
	switch p {
	case Odd:
		return n%2 != 0
	case Even:
		return n%2 == 0
	default:
		return true
	}
}

// Range is an inclusive numeric interval with an optional parity filter.
type Range struct {
	From   int
	To     int
	Parity Parity
}

// Validate checks that the range is well formed.
func (r Range) Validate() error {
	if r.From < 0 || r.To < 0 {
		return fmt.Errorf("range bounds must not be negative: %d..%d", r.From, r.To)
	}
	if r.From > r.To {
		return fmt.Errorf("range start %d is after range end %d", r.From, r.To)
	}
	if _, err := ParseParity(string(r.Parity)); err != nil {
		return err
	}
	// both bounds are non-negative, so the difference cannot overflow
	if r.To-r.From >= defaults.MaxRangeHosts {
		return fmt.Errorf("range %d..%d spans more than %d hosts", r.From, r.To, defaults.MaxRangeHosts)
	}
	return nil
}

// Width returns the zero-padded width used for the range numbers.
func (r Range) Width() int {
	return max(MinWidth, len(strconv.Itoa(r.To)))
}

// Numbers returns the formatted numbers of the range after parity filtering.
// The range must have passed Validate.
func (r Range) Numbers() []string {
	width := r.Width()
	span := r.To - r.From
	out := make([]string, 0, span+1)
	// counting the offset keeps n from wrapping when To is math.MaxInt
	for i := 0; i <= span; i++ {
		n := r.From + i
		if r.Parity.keep(n) {
			out = append(out, fmt.Sprintf("%0*d", width, n))
		}
	}
	return out
}

// Expand appends every range number to every prefix, in prefix order.
// A nil range returns the prefixes unchanged.
func Expand(prefixes []string, r *Range) ([]string, error) {
	if r == nil {
		return slices.Clone(prefixes), nil
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	nums := r.Numbers()
	if len(prefixes) > 0 && len(nums) > defaults.MaxRangeHosts/len(prefixes) {
		return nil, fmt.Errorf("%d prefixes over %d range numbers exceed %d hosts",
			len(prefixes), len(nums), defaults.MaxRangeHosts)
	}
	out := make([]string, 0, len(prefixes)*len(nums))
	for _, p := range prefixes {
		for _, n := range nums {
			out = append(out, p+n)
		}
	}
	return out, nil
}

// Merge concatenates host lists, dropping empty names and duplicates while
// keeping first-seen order.
func Merge(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, l := range lists {
		for _, h := range l {
			if h == "" {
				continue
			}
			if _, ok := seen[h]; ok {
				continue
			}
			seen[h] = struct{}{}
			out = append(out, h)
		}
	}
	return out
}
