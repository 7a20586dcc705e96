/*
 * mmff_test.go, part of goMMFF.
 *
 * Copyright 2024 The goMMFF Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package mmff

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/rmera/gommff/geo"
)

// a distorted methylamine-like fragment: 0 is bonded to 1, 2 and 3, and 1 to 4.
var frag = geo.Vecs[float64]{
	{0.02, -0.01, 0.03},
	{1.47, 0.05, -0.02},
	{-0.35, 1.01, 0.12},
	{-0.41, -0.47, -0.93},
	{1.88, -0.92, 0.35},
}

func fragFF() *ForceField[float64] {
	return &ForceField[float64]{
		Bonds: []BondStretch[float64]{
			{I: 0, J: 1, Kb: 5.0, R0: 1.45},
			{I: 0, J: 2, Kb: 4.7, R0: 1.09},
			{I: 0, J: 3, Kb: 4.7, R0: 1.09},
			{I: 1, J: 4, Kb: 6.1, R0: 1.02},
		},
		Angles: []AngleBend[float64]{
			{I: 1, J: 0, K: 2, Ka: 0.65, Theta0: 109.8},
			{I: 1, J: 0, K: 3, Ka: 0.65, Theta0: 109.8},
			{I: 2, J: 0, K: 3, Ka: 0.52, Theta0: 108.5},
			{I: 0, J: 1, K: 4, Ka: 0.58, Theta0: 110.4},
		},
		StretchBends: []StretchBend[float64]{
			{I: 1, J: 0, K: 2, R0IJ: 1.45, R0KJ: 1.09, Theta0: 109.8, KbaIJK: 0.22, KbaKJI: 0.31},
			{I: 0, J: 1, K: 4, R0IJ: 1.45, R0KJ: 1.02, Theta0: 110.4, KbaIJK: 0.15, KbaKJI: 0.09},
		},
		OopBends: []OopBend[float64]{
			{I: 1, J: 0, K: 2, L: 3, Koop: 0.03},
		},
		Torsions: []Torsion[float64]{
			{I: 2, J: 0, K: 1, L: 4, V1: 0.3, V2: -0.4, V3: 0.6},
			{I: 3, J: 0, K: 1, L: 4, V1: -0.2, V2: 0.1, V3: 0.8},
		},
		VdW: []VdW[float64]{
			NewVdW(2, 4, 0.02, 2.9),
			NewVdW(3, 4, 0.02, 2.9),
		},
		Electrostatics: []Electrostatic[float64]{
			NewElectrostatic(2, 4, 0.1, 0.35, 1, false, true),
			NewElectrostatic(3, 4, 0.1, 0.35, 4, true, true),
		},
	}
}

// checkGrad compares the analytical gradient with a numerical one at the frag geometry.
func checkGrad(Te *testing.T, name string, energy func(geo.Coords[float64]) float64, gradient func(geo.Coords[float64], []geo.Vec[float64]) float64) {
	Te.Helper()
	checkGradAt(Te, name, frag, 1e-5, energy, gradient)
}

// checkGradAt compares the analytical gradient at pos with a numerical one,
// with a relative tolerance tol. It reports only the first mismatch.
func checkGradAt(Te *testing.T, name string, pos geo.Vecs[float64], tol float64, energy func(geo.Coords[float64]) float64, gradient func(geo.Coords[float64], []geo.Vec[float64]) float64) {
	Te.Helper()
	g := make([]geo.Vec[float64], len(pos))
	e := gradient(pos, g)
	if e2 := energy(pos); e != e2 {
		Te.Errorf("%s: energy from the gradient (%g) differs from the energy (%g)", name, e, e2)
	}
	num := NumericalGradient(energy, pos, 1e-6)
	for i := range g {
		for j := 0; j < 3; j++ {
			if math.Abs(g[i][j]-num[i][j]) > tol*math.Max(1, math.Abs(num[i][j])) {
				Te.Errorf("%s: gradient %d,%d is %g, numerical %g, at %v", name, i, j, g[i][j], num[i][j], pos)
				return
			}
		}
	}
}

func termGrad(Te *testing.T, t Term[float64], pos geo.Vecs[float64], tol float64) {
	Te.Helper()
	checkGradAt(Te, fmt.Sprintf("%T", t), pos, tol, t.Energy, t.Gradient)
}

// sweepTerms contains one term of each kind over 4 atoms.
func sweepTerms() []Term[float64] {
	return []Term[float64]{
		BondStretch[float64]{I: 0, J: 1, Kb: 4.5, R0: 1.4},
		AngleBend[float64]{I: 1, J: 0, K: 2, Ka: 0.6, Theta0: 108},
		AngleBend[float64]{I: 1, J: 0, K: 2, Ka: 0.3, Theta0: 180, Linear: true},
		StretchBend[float64]{I: 1, J: 0, K: 2, R0IJ: 1.4, R0KJ: 1.1, Theta0: 108, KbaIJK: 0.25, KbaKJI: 0.12},
		OopBend[float64]{I: 1, J: 0, K: 2, L: 3, Koop: 0.04},
		Torsion[float64]{I: 2, J: 0, K: 1, L: 3, V1: 0.4, V2: -0.6, V3: 0.9},
		NewVdW(0, 3, 0.05, 3.2),
		NewElectrostatic(2, 3, 0.3, -0.4, 1, false, false),
		NewElectrostatic(0, 3, -0.2, 0.25, 4, true, true),
	}
}

// randomGeometry returns 4 random points, none closer than 1 A to another,
// and away from the singular angles of the terms in sweepTerms.
func randomGeometry(r *rand.Rand) geo.Vecs[float64] {
	for {
		pos := make(geo.Vecs[float64], 4)
		for i := range pos {
			pos[i] = geo.Vec[float64]{3 * r.Float64(), 3 * r.Float64(), 3 * r.Float64()}
		}
		ok := true
		for i := range pos {
			for j := i + 1; j < len(pos); j++ {
				if geo.Distance(pos[i], pos[j]) < 1 {
					ok = false
				}
			}
		}
		if !ok {
			continue
		}
		c1 := geo.BondAngleCos(pos[1], pos[0], pos[2])
		c2 := geo.BondAngleCos(pos[2], pos[0], pos[1])
		c3 := geo.BondAngleCos(pos[0], pos[1], pos[3])
		co := geo.OopCos(pos[1], pos[0], pos[2], pos[3])
		if math.Abs(c1) > 0.98 || math.Abs(c2) > 0.98 || math.Abs(c3) > 0.98 || math.Abs(co) > 0.98 {
			continue
		}
		return pos
	}
}

func TestGradientSweep(Te *testing.T) {
	r := rand.New(rand.NewSource(11))
	terms := sweepTerms()
	for n := 0; n < 300; n++ {
		pos := randomGeometry(r)
		for _, t := range terms {
			termGrad(Te, t, pos, 1e-4)
		}
	}
}

// tors returns a geometry for the dihedral 0-1-2-3 with the angle phi.
func tors(phi float64) geo.Vecs[float64] {
	return geo.Vecs[float64]{
		{-0.5, 1.0, 0},
		{0, 0, 0},
		{1.5, 0, 0},
		{2.0, math.Cos(phi), math.Sin(phi)},
	}
}

// oop returns a planar center 1 with the bond 1-3 eps radians off the plane.
func oop(eps float64) geo.Vecs[float64] {
	return geo.Vecs[float64]{
		{1, 0, 0},
		{0, 0, 0},
		{-0.5, 0.9, 0},
		{-0.5 * math.Cos(eps), -0.8 * math.Cos(eps), 0.95 * math.Sin(eps)},
	}
}

// bent returns the angle 0-1-2 at pi-eps.
func bent(eps float64) geo.Vecs[float64] {
	return geo.Vecs[float64]{
		{-1.2, 0, 0},
		{0, 0, 0},
		{1.4 * math.Cos(eps), 1.4 * math.Sin(eps), 0},
	}
}

func TestGradientNearDegenerate(Te *testing.T) {
	to := Torsion[float64]{I: 0, J: 1, K: 2, L: 3, V1: 0.4, V2: -0.6, V3: 0.9}
	ob := OopBend[float64]{I: 0, J: 1, K: 2, L: 3, Koop: 0.04}
	an := AngleBend[float64]{I: 0, J: 1, K: 2, Ka: 0.6, Theta0: 120}
	lin := AngleBend[float64]{I: 0, J: 1, K: 2, Ka: 0.3, Theta0: 180, Linear: true}
	for _, eps := range []float64{1e-2, 1e-3, 1e-4} {
		termGrad(Te, to, tors(eps), 1e-5)
		termGrad(Te, to, tors(-eps), 1e-5)
		termGrad(Te, to, tors(math.Pi-eps), 1e-5)
		termGrad(Te, ob, oop(eps), 1e-5)
		termGrad(Te, ob, oop(-eps), 1e-5)
		termGrad(Te, lin, bent(eps), 1e-5)
	}
	//A bent bond angle is not smooth at 180, so the finite differences need some room.
	for _, eps := range []float64{1e-2, 1e-3} {
		termGrad(Te, an, bent(eps), 1e-4)
	}
}

func finite(Te *testing.T, name string, t Term[float64], pos geo.Vecs[float64]) {
	Te.Helper()
	g := make([]geo.Vec[float64], len(pos))
	e := t.Gradient(pos, g)
	ep := t.Energy(pos)
	if math.IsNaN(e) || math.IsInf(e, 0) || math.IsNaN(ep) || math.IsInf(ep, 0) {
		Te.Errorf("%s: energy is %g (%g)", name, e, ep)
	}
	for i := range g {
		for j := 0; j < 3; j++ {
			if math.IsNaN(g[i][j]) || math.IsInf(g[i][j], 0) {
				Te.Errorf("%s: gradient is %v", name, g)
				return
			}
		}
	}
}

func TestDegenerateFinite(Te *testing.T) {
	straight := geo.Vecs[float64]{{-1.2, 0, 0}, {0, 0, 0}, {1.4, 0, 0}, {0.3, 1, 0}}
	finite(Te, "angle at 180", AngleBend[float64]{I: 0, J: 1, K: 2, Ka: 0.6, Theta0: 120}, straight)
	finite(Te, "linear angle at 180", AngleBend[float64]{I: 0, J: 1, K: 2, Ka: 0.3, Theta0: 180, Linear: true}, straight)
	finite(Te, "stretch-bend at 180", StretchBend[float64]{I: 0, J: 1, K: 2, R0IJ: 1, R0KJ: 1, Theta0: 120, KbaIJK: 0.2, KbaKJI: 0.1}, straight)
	finite(Te, "out-of-plane, collinear plane", OopBend[float64]{I: 0, J: 1, K: 2, L: 3, Koop: 0.04}, straight)
	to := Torsion[float64]{I: 0, J: 1, K: 2, L: 3, V1: 0.4, V2: -0.6, V3: 0.9}
	eclipsed := geo.Vecs[float64]{{-0.5, 1, 0}, {0, 0, 0}, {1.5, 0, 0}, {2, 1, 0}}
	anti := geo.Vecs[float64]{{-0.5, 1, 0}, {0, 0, 0}, {1.5, 0, 0}, {2, -1, 0}}
	finite(Te, "torsion at 0", to, eclipsed)
	finite(Te, "torsion at 180", to, anti)
	finite(Te, "torsion, collinear first angle", Torsion[float64]{I: 0, J: 1, K: 2, L: 3, V1: 0.4, V2: -0.6, V3: 0.9}, straight)
	planar := geo.Vecs[float64]{{1, 0, 0}, {0, 0, 0}, {-0.5, 0.9, 0}, {-0.5, -0.8, 0}}
	finite(Te, "planar out-of-plane", OopBend[float64]{I: 0, J: 1, K: 2, L: 3, Koop: 0.04}, planar)
	same := geo.Vecs[float64]{{0.3, 0.2, 0.1}, {0.3, 0.2, 0.1}, {1.5, 0, 0}, {2, 1, 0}}
	for _, t := range []Term[float64]{
		BondStretch[float64]{I: 0, J: 1, Kb: 4.5, R0: 1.4},
		AngleBend[float64]{I: 0, J: 1, K: 2, Ka: 0.6, Theta0: 108},
		StretchBend[float64]{I: 0, J: 1, K: 2, R0IJ: 1.4, R0KJ: 1.1, Theta0: 108, KbaIJK: 0.25, KbaKJI: 0.12},
		OopBend[float64]{I: 0, J: 1, K: 2, L: 3, Koop: 0.04},
		OopBend[float64]{I: 2, J: 0, K: 3, L: 1, Koop: 0.04},
		Torsion[float64]{I: 2, J: 0, K: 1, L: 3, V1: 0.4, V2: -0.6, V3: 0.9},
		NewVdW(0, 1, 0.05, 3.2),
		NewElectrostatic(0, 1, 0.3, -0.4, 1, false, false),
		NewElectrostatic(0, 1, 0.3, -0.4, 4, true, false),
	} {
		finite(Te, fmt.Sprintf("coincident atoms, %T", t), t, same)
	}
}

func TestBendConstants(Te *testing.T) {
	c90 := math.Cos(math.Pi / 2)
	//0.5*0.043844*0.7*(-10)^2*(1-0.007*(-10))
	if e := AngleBendEnergy(0.7, 100, c90, false); math.Abs(e-1.6419578) > 1e-6 {
		Te.Errorf("Angle bending energy %.10f, expected 1.6419578", e)
	}
	//2.51210*(1*0.1+0.5*0)*(-10)
	if e := StretchBendEnergy(1, 1, 100, 1, 0.5, 1.1, 1, c90); math.Abs(e+2.51210) > 1e-6 {
		Te.Errorf("Stretch-bend energy %.10f, expected -2.51210", e)
	}
	//0.5*0.043844*0.05*10^2
	c80 := math.Cos(80 * Deg2Rad)
	if e := OopBendEnergy(0.05, c80); math.Abs(e-0.10961) > 1e-6 {
		Te.Errorf("Out-of-plane energy %.10f, expected 0.10961", e)
	}
}

func TestGradients(Te *testing.T) {
	ff := fragFF()
	checkGrad(Te, "bonds", func(p geo.Coords[float64]) float64 { return Sum[float64](ff.Bonds, p) },
		func(p geo.Coords[float64], g []geo.Vec[float64]) float64 { return SumGradient[float64](ff.Bonds, p, g) })
	checkGrad(Te, "angles", func(p geo.Coords[float64]) float64 { return Sum[float64](ff.Angles, p) },
		func(p geo.Coords[float64], g []geo.Vec[float64]) float64 { return SumGradient[float64](ff.Angles, p, g) })
	checkGrad(Te, "stretch-bends", func(p geo.Coords[float64]) float64 { return Sum[float64](ff.StretchBends, p) },
		func(p geo.Coords[float64], g []geo.Vec[float64]) float64 { return SumGradient[float64](ff.StretchBends, p, g) })
	checkGrad(Te, "out-of-plane", func(p geo.Coords[float64]) float64 { return Sum[float64](ff.OopBends, p) },
		func(p geo.Coords[float64], g []geo.Vec[float64]) float64 { return SumGradient[float64](ff.OopBends, p, g) })
	checkGrad(Te, "torsions", func(p geo.Coords[float64]) float64 { return Sum[float64](ff.Torsions, p) },
		func(p geo.Coords[float64], g []geo.Vec[float64]) float64 { return SumGradient[float64](ff.Torsions, p, g) })
	checkGrad(Te, "vdw", func(p geo.Coords[float64]) float64 { return Sum[float64](ff.VdW, p) },
		func(p geo.Coords[float64], g []geo.Vec[float64]) float64 { return SumGradient[float64](ff.VdW, p, g) })
	checkGrad(Te, "electrostatics", func(p geo.Coords[float64]) float64 { return Sum[float64](ff.Electrostatics, p) },
		func(p geo.Coords[float64], g []geo.Vec[float64]) float64 {
			return SumGradient[float64](ff.Electrostatics, p, g)
		})
	checkGrad(Te, "total", ff.Energy, ff.Gradient)
	linear := []AngleBend[float64]{{I: 1, J: 0, K: 2, Ka: 0.4, Theta0: 180, Linear: true}}
	checkGrad(Te, "linear angle", func(p geo.Coords[float64]) float64 { return Sum[float64](linear, p) },
		func(p geo.Coords[float64], g []geo.Vec[float64]) float64 { return SumGradient[float64](linear, p, g) })
}

func TestBondExample(Te *testing.T) {
	b := BondStretch[float64]{I: 0, J: 1, Kb: 5, R0: 1}
	pos := geo.Vecs[float64]{{0, 0, 0}, {1, 0, 0}}
	if e := b.Energy(pos); e != 0 {
		Te.Errorf("Bond at its reference length has energy %g", e)
	}
	pos[1][0] = 1.1
	dr := 0.1
	expected := 143.9325 * 5 / 2 * dr * dr * (1 - 2*dr + 7.0/12*4*dr*dr)
	e := b.Energy(pos)
	if math.Abs(e-expected) > 1e-9 || math.Abs(e-2.96261) > 1e-4 {
		Te.Errorf("Expected %g, got %g", expected, e)
	}
	g := make([]geo.Vec[float64], 2)
	b.Gradient(pos, g)
	if g[1][0] <= 0 || g[1][1] != 0 || g[1][2] != 0 || g[0] != geo.Neg(g[1]) {
		Te.Errorf("Gradient should be along the bond: %v", g)
	}
	if d := BondStretchDeriv(5.0, 1.0, 1.1); math.Abs(d-g[1][0]) > 1e-12 {
		Te.Errorf("Derivative %g differs from the gradient %g", d, g[1][0])
	}
}

func TestZeroStrain(Te *testing.T) {
	th := 109.5 * Deg2Rad
	pos := geo.Vecs[float64]{
		{1.2 * math.Cos(th), 1.2 * math.Sin(th), 0},
		{0, 0, 0},
		{1.4, 0, 0},
		{0, 0, 0},
	}
	terms := []Term[float64]{
		BondStretch[float64]{I: 0, J: 1, Kb: 5, R0: 1.2},
		AngleBend[float64]{I: 0, J: 1, K: 2, Ka: 0.7, Theta0: 109.5},
		StretchBend[float64]{I: 0, J: 1, K: 2, R0IJ: 1.2, R0KJ: 1.4, Theta0: 109.5, KbaIJK: 0.3, KbaKJI: 0.2},
	}
	for _, t := range terms {
		g := make([]geo.Vec[float64], len(pos))
		if e := t.Gradient(pos, g); math.Abs(e) > 1e-9 {
			Te.Errorf("%T has energy %g at its reference", t, e)
		}
		for i := range g {
			if geo.Norm(g[i]) > 1e-7 {
				Te.Errorf("%T has a non-zero gradient at its reference: %v", t, g)
			}
		}
	}
	//planar center
	planar := geo.Vecs[float64]{{1, 0, 0}, {0, 0, 0}, {-0.5, 0.8, 0}, {-0.5, -0.8, 0}}
	if e := (OopBend[float64]{I: 0, J: 1, K: 2, L: 3, Koop: 0.05}).Energy(planar); math.Abs(e) > 1e-12 {
		Te.Errorf("Planar center has out-of-plane energy %g", e)
	}
	if e := AngleBendEnergy(0.4, 180, -1.0, true); e != 0 {
		Te.Errorf("Linear angle at 180 has energy %g", e)
	}
	if e := VdWEnergy(0.1, 3.0, math.Pow(3, 7), 3.0); math.Abs(e+0.1) > 1e-12 {
		Te.Errorf("VdW energy at RStar should be -epsilon, got %g", e)
	}
}

func TestTorsionPeriodicity(Te *testing.T) {
	v1, v2, v3 := 0.7, -0.3, 1.1
	if e := TorsionEnergy(v1, v2, v3, 1.0); math.Abs(e-(v1+v3)) > 1e-12 {
		Te.Errorf("Eclipsed torsion energy %g, expected %g", e, v1+v3)
	}
	if e := TorsionEnergy(v1, v2, v3, -1.0); math.Abs(e) > 1e-12 {
		Te.Errorf("Anti torsion energy %g, expected 0", e)
	}
	for _, phi := range []float64{-2.5, -1, 0.3, 1.7, 3} {
		direct := 0.5 * (v1*(1+math.Cos(phi)) + v2*(1-math.Cos(2*phi)) + v3*(1+math.Cos(3*phi)))
		e := TorsionEnergy(v1, v2, v3, math.Cos(phi))
		if math.Abs(e-direct) > 1e-12 {
			Te.Errorf("Torsion energy at %g is %g, expected %g", phi, e, direct)
		}
		if e2 := TorsionEnergy(v1, v2, v3, math.Cos(phi+2*math.Pi)); math.Abs(e-e2) > 1e-12 {
			Te.Errorf("Torsion energy is not periodic: %g vs %g", e, e2)
		}
	}
}

// The positional methods and the functions taking the geometric
// quantities must give exactly the same numbers.
func TestPrecomputed(Te *testing.T) {
	ff := fragFF()
	p := frag
	b := ff.Bonds[0]
	if b.Energy(p) != BondStretchEnergy(b.Kb, b.R0, geo.Distance(p[b.I], p[b.J])) {
		Te.Error("Bond energies differ")
	}
	a := ff.Angles[0]
	if a.Energy(p) != AngleBendEnergy(a.Ka, a.Theta0, geo.BondAngleCos(p[a.I], p[a.J], p[a.K]), a.Linear) {
		Te.Error("Angle energies differ")
	}
	s := ff.StretchBends[0]
	rij := geo.Distance(p[s.I], p[s.J])
	rkj := geo.Distance(p[s.K], p[s.J])
	c := geo.BondAngleCosLen(p[s.I], p[s.J], p[s.K], rij, rkj)
	if s.Energy(p) != StretchBendEnergy(s.R0IJ, s.R0KJ, s.Theta0, s.KbaIJK, s.KbaKJI, rij, rkj, c) {
		Te.Error("Stretch-bend energies differ")
	}
	o := ff.OopBends[0]
	if o.Energy(p) != OopBendEnergy(o.Koop, geo.OopCos(p[o.I], p[o.J], p[o.K], p[o.L])) {
		Te.Error("Out-of-plane energies differ")
	}
	t := ff.Torsions[0]
	if t.Energy(p) != TorsionEnergy(t.V1, t.V2, t.V3, geo.DihedralCos(p[t.I], p[t.J], p[t.K], p[t.L])) {
		Te.Error("Torsion energies differ")
	}
	v := ff.VdW[0]
	if v.Energy(p) != VdWEnergy(v.Epsilon, v.RStar, v.RStar7, geo.Distance(p[v.I], p[v.J])) {
		Te.Error("VdW energies differ")
	}
	for _, el := range ff.Electrostatics {
		if el.Energy(p) != ElectrostaticEnergy(el.Qi, el.Qj, el.Dielectric, el.DistDep, el.Scale, geo.Distance(p[el.I], p[el.J])) {
			Te.Error("Electrostatic energies differ")
		}
	}
}

func TestElectrostatic(Te *testing.T) {
	e := NewElectrostatic(0, 1, 1.0, -1.0, 0, false, false)
	if e.Dielectric != 1 || e.Scale != 1 {
		Te.Errorf("Wrong defaults %+v", e)
	}
	pos := geo.Vecs[float64]{{0, 0, 0}, {1, 0, 0}}
	if en := e.Energy(pos); math.Abs(en+ElectricConst/1.05) > 1e-10 {
		Te.Errorf("Expected %g, got %g", -ElectricConst/1.05, en)
	}
	e14 := NewElectrostatic(0, 1, 1.0, -1.0, 2, true, true)
	if en := e14.Energy(pos); math.Abs(en+Scale14*ElectricConst/(2*1.05*1.05)) > 1e-10 {
		Te.Errorf("Wrong scaled, distance-dependent energy %g", en)
	}
}

func TestAddOnly(Te *testing.T) {
	ff := fragFF()
	clean := make([]geo.Vec[float64], len(frag))
	ff.Gradient(frag, clean)
	seeded := make([]geo.Vec[float64], len(frag))
	for i := range seeded {
		seeded[i] = geo.Vec[float64]{float64(i), -1, 0.5}
	}
	ff.Gradient(frag, seeded)
	for i := range seeded {
		want := geo.Add(clean[i], geo.Vec[float64]{float64(i), -1, 0.5})
		if geo.Norm(geo.Sub(want, seeded[i])) > 1e-12 {
			Te.Errorf("Accumulator was not added to at %d: %v vs %v", i, seeded[i], want)
		}
	}
}

func shuffle[R any](r *rand.Rand, list []R) {
	r.Shuffle(len(list), func(i, j int) { list[i], list[j] = list[j], list[i] })
}

func TestReorder(Te *testing.T) {
	ff := fragFF()
	g := make([]geo.Vec[float64], len(frag))
	e := ff.Gradient(frag, g)
	r := rand.New(rand.NewSource(3))
	sh := fragFF()
	shuffle(r, sh.Bonds)
	shuffle(r, sh.Angles)
	shuffle(r, sh.StretchBends)
	shuffle(r, sh.Torsions)
	shuffle(r, sh.VdW)
	shuffle(r, sh.Electrostatics)
	g2 := make([]geo.Vec[float64], len(frag))
	e2 := sh.Gradient(frag, g2)
	if math.Abs(e-e2) > 1e-10 {
		Te.Errorf("Energy changed with the order of the terms: %g vs %g", e, e2)
	}
	for i := range g {
		if geo.Norm(geo.Sub(g[i], g2[i])) > 1e-10 {
			Te.Errorf("Gradient changed with the order of the terms at %d", i)
		}
	}
}

func TestParallelGradient(Te *testing.T) {
	ff := fragFF()
	g := make([]geo.Vec[float64], len(frag))
	e := ff.Gradient(frag, g)
	for _, w := range []int{0, 1, 2, 3, 7, 50} {
		gp := make([]geo.Vec[float64], len(frag))
		gp[0] = geo.Vec[float64]{1, 1, 1}
		ep := ff.ParallelGradient(frag, gp, w)
		gp[0] = geo.Sub(gp[0], geo.Vec[float64]{1, 1, 1})
		if math.Abs(e-ep) > 1e-12 {
			Te.Errorf("%d workers: energy %g, serial %g", w, ep, e)
		}
		for i := range g {
			if geo.Norm(geo.Sub(g[i], gp[i])) > 1e-12 {
				Te.Errorf("%d workers: gradient differs at %d: %v vs %v", w, i, gp[i], g[i])
			}
		}
	}
}

func TestForceField(Te *testing.T) {
	ff := fragFF()
	if n := ff.NumAtoms(); n != 5 {
		Te.Errorf("Expected 5 atoms, got %d", n)
	}
	if n := ff.Len(); n != 17 {
		Te.Errorf("Expected 17 terms, got %d", n)
	}
	if err := ff.Validate(5); err != nil {
		Te.Error(err)
	}
	err := ff.Validate(4)
	if err == nil {
		Te.Fatal("Validate should fail with too few atoms")
	}
	if e, ok := err.(Error); !ok || !e.Critical() || !strings.Contains(e.Error(), "atom 4") {
		Te.Errorf("Unexpected error %v", err)
	}
	deco := ErrDecorate(err, "TestForceField").(Error).Decorate("")
	if len(deco) != 2 || deco[1] != "TestForceField" {
		Te.Errorf("Wrong decoration %v", deco)
	}
	b := ff.Terms(frag)
	if math.Abs(b.Total()-ff.Energy(frag)) > 1e-12 {
		Te.Errorf("Breakdown total %g differs from the energy %g", b.Total(), ff.Energy(frag))
	}
	if b.Bond <= 0 || !strings.Contains(b.String(), "Total") {
		Te.Errorf("Wrong breakdown\n%s", b)
	}
	empty := &ForceField[float64]{}
	if empty.NumAtoms() != 0 || empty.Energy(frag) != 0 || empty.Validate(0) != nil {
		Te.Error("Empty force field should have no atoms or energy")
	}
}

func TestFloat32(Te *testing.T) {
	ff64 := fragFF()
	ff := &ForceField[float32]{}
	for _, b := range ff64.Bonds {
		ff.Bonds = append(ff.Bonds, BondStretch[float32]{I: b.I, J: b.J, Kb: float32(b.Kb), R0: float32(b.R0)})
	}
	for _, t := range ff64.Torsions {
		ff.Torsions = append(ff.Torsions, Torsion[float32]{I: t.I, J: t.J, K: t.K, L: t.L, V1: float32(t.V1), V2: float32(t.V2), V3: float32(t.V3)})
	}
	pos := make(geo.Vecs[float32], len(frag))
	for i, v := range frag {
		pos[i] = geo.Vec[float32]{float32(v[0]), float32(v[1]), float32(v[2])}
	}
	e64 := Sum[float64](ff64.Bonds, frag) + Sum[float64](ff64.Torsions, frag)
	g := make([]geo.Vec[float32], len(pos))
	e := ff.Gradient(pos, g)
	if math.Abs(float64(e)-e64) > 1e-3*math.Max(1, math.Abs(e64)) {
		Te.Errorf("float32 energy %g, float64 %g", e, e64)
	}
}

func TestNumericalGradient(Te *testing.T) {
	f := func(c geo.Coords[float64]) float64 {
		v := c.Vec(0)
		return v[0]*v[0] + 3*v[1] - v[2]*v[2]*v[2]
	}
	pos := geo.Vecs[float64]{{1, 2, 3}}
	g := NumericalGradient(f, pos, 0)
	want := geo.Vec[float64]{2, 3, -27}
	if geo.Norm(geo.Sub(g[0], want)) > 1e-6 {
		Te.Errorf("Expected %v, got %v", want, g[0])
	}
	if pos[0] != (geo.Vec[float64]{1, 2, 3}) {
		Te.Error("NumericalGradient modified its input")
	}
}
