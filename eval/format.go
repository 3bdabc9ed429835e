// Copyright 2023 The Hypatia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eval

import (
	"github.com/hypatia-lang/hypatia/number"
	"github.com/hypatia-lang/hypatia/unit"
)

// FormatUnit picks the best declared unit to display a quantity in: among
// the named units sharing the quantity's dimensional signature, the one
// whose scale is closest to the quantity's. Ties go to the earliest
// declaration. The quantity comes back rescaled into the chosen unit; with
// no named candidate it is rendered in plain base units and the long name
// holds that rendering.
func FormatUnit(q unit.Quantity, env *Environment) (unit.Quantity, UnitName) {
	var (
		bestDiff number.Number
		best     UnitName
		bestUnit unit.Unit
		found    bool
	)
	for _, name := range env.unitNames(q.Unit) {
		u, ok := env.LookupUnit(name.Long)
		if !ok {
			continue
		}
		diff := u.Scale.Sub(q.Unit.Scale).Abs()
		if !found || diff.Cmp(bestDiff) < 0 {
			bestDiff, best, bestUnit, found = diff, name, u, true
		}
		if diff.IsZero() {
			break
		}
	}

	if !found {
		// No named unit shares this signature; show base units directly.
		rescaled := unit.Quantity{
			Number: q.Number.Mul(q.Unit.Scale),
			Unit:   unit.Unit{Scale: number.One(), Powers: q.Unit.Powers},
		}
		return rescaled, UnitName{Long: rescaled.Unit.String()}
	}

	rescaled := unit.Quantity{
		Number: q.Number.Mul(q.Unit.Scale).Div(bestUnit.Scale),
		Unit:   bestUnit,
	}
	return rescaled, best
}
