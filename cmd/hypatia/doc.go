// Copyright 2023 The Hypatia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Hypatia is a small calculator language whose numbers carry physical units.

Usage:

	hypatia [-e expr] [--no-prelude] [--plain] [file ...]

With no arguments the command starts a REPL. An input that opens more
braces than it closes continues on the next line.

Numbers are exact rationals (decimal, 0b binary, 0x hex, or scientific
form like 1.5e3) and only become 64-bit floats when an approximate value
enters the computation. A number followed by a unit name is a quantity:

	> 1 km + 500 m
	3/2 km ≈ 1.5 km
	> 20 m / 4 s
	5 m/s

Units are declared rather than built in; the prelude declares the SI base
units, common derived units and the SI and IEC prefixes:

	unit meter m
	unit mile mi = 1609.344 m
	prefix kilo k = 1000

Prefix and unit names compose at lookup time, so megameter and Mm work
without separate declarations. Quantities of one dimension convert with
'in':

	> 2 mi in m
	402336/125 m ≈ 3218.688 m

Variables and functions share one namespace; 'update' modifies an
existing binding, a bare '=' declares a new one:

	x = 40
	update x = 41
	f(y) = y * y
	if f(2) > 3 { x } else { 0 }

Blocks introduce scopes, functions close over the scope they were
declared in, and the value of a block is its last expression.
*/
package main
