package fourier

// SymmetrizeRealSpaceGeometry merges the asymmetric half-grid geometry into
// sym and extends sym to the full poloidal interval. For l in
// [NThetaReduced, NThetaEven) with mirror point l' = NThetaEven-l,
// k' = (NZeta-k) mod NZeta, and p the reflection sign of the symmetric part:
//
//	sym[l,k] = p*sym[l',k'] - p*asym[l',k']
//
// The extension reads only unmerged values; afterwards the half grid gets
// sym += asym. Even and odd accumulators are treated independently. Without
// lasym this is a no-op.
func (tr *Transformer) SymmetrizeRealSpaceGeometry(sym, asym *RealSpaceGeometry) error {
	if !tr.S.LAsym {
		return nil
	}
	return tr.stage(StageExtendGeometry, tr.geometryUnits, func() error {
		for _, g := range []*RealSpaceGeometry{sym, asym} {
			if err := tr.checkSizes("geometry", g.S); err != nil {
				return err
			}
			if err := tr.checkGeometryRange("geometry", g.NsMin, g.NumSurfaces); err != nil {
				return err
			}
			if err := g.checkLengths(); err != nil {
				return err
			}
		}
		if err := tr.forEachSurface(tr.geometryUnits, func(j int) {
			tr.extendSurface(sym, asym, j)
		}); err != nil {
			return err
		}
		return checkGeometryFinite(StageExtendGeometry, sym)
	})
}

func (tr *Transformer) extendSurface(sym, asym *RealSpaceGeometry, j int) {
	var (
		s    = tr.S
		nth  = s.NThetaEven
		base = (j - sym.NsMin) * s.NZnT
	)
	for par := range sym.Data {
		for q := Quantity(0); q < NumQuantities; q++ {
			var (
				p = reflectionParity[q]
				x = sym.Data[par][q][base : base+s.NZnT]
				a = asym.Data[par][q][base : base+s.NZnT]
			)
			for k := 0; k < s.NZeta; k++ {
				kr := (s.NZeta - k) % s.NZeta
				for l := s.NThetaReduced; l < nth; l++ {
					lr := nth - l
					x[k*nth+l] = p*x[kr*nth+lr] - p*a[kr*nth+lr]
				}
			}
			for k := 0; k < s.NZeta; k++ {
				for l := 0; l < s.NThetaReduced; l++ {
					x[k*nth+l] += a[k*nth+l]
				}
			}
		}
	}
}

// SymmetrizeForces splits each real-space force channel f, given on the full
// grid, into its stellarator-symmetric and antisymmetric parts on the half
// grid. With f_rev the value at (l_rev, k_rev) = ((N-l) mod N, (NZeta-k) mod
// NZeta) and sigma the channel polarity:
//
//	symmetric     = (f + sigma*f_rev)/2   written back into f
//	antisymmetric = (f - sigma*f_rev)/2   written into asym
//
// sigma is +1 for armn, bzmn, czmn, clmn and -1 for brmn, azmn, blmn, crmn.
// Without lasym there is nothing to split and asym is cleared.
func (tr *Transformer) SymmetrizeForces(f, asym *RealSpaceForces) error {
	return tr.stage(StageSymmetrizeForces, tr.forceUnits, func() error {
		for _, b := range []*RealSpaceForces{f, asym} {
			if err := tr.checkSizes("forces", b.S); err != nil {
				return err
			}
			if err := tr.checkForceRange("forces", b.NsMin, b.NumSurfaces); err != nil {
				return err
			}
			if err := b.checkLengths(); err != nil {
				return err
			}
		}
		if !tr.S.LAsym {
			for p := range asym.Data {
				for c := range asym.Data[p] {
					clear(asym.Data[p][c])
				}
			}
			return nil
		}
		if err := tr.forEachSurface(tr.forceUnits, func(j int) {
			tr.symmetrizeSurface(f, asym, j)
		}); err != nil {
			return err
		}
		if err := checkForcesFinite(StageSymmetrizeForces, f); err != nil {
			return err
		}
		return checkForcesFinite(StageSymmetrizeForces, asym)
	})
}

func (tr *Transformer) symmetrizeSurface(f, asym *RealSpaceForces, j int) {
	var (
		s       = tr.S
		nth     = s.NThetaEven
		base    = (j - f.NsMin) * s.NZnT
		scratch = make([]float64, s.NZnT)
	)
	for par := range f.Data {
		for c := Channel(0); c < NumChannels; c++ {
			var (
				sigma = symmetricPolarity[c]
				x     = f.Data[par][c][base : base+s.NZnT]
				xa    = asym.Data[par][c][base : base+s.NZnT]
			)
			// rows l = 0 and l = N/2 are their own mirror, so read from a copy
			copy(scratch, x)
			clear(xa)
			for k := 0; k < s.NZeta; k++ {
				kr := (s.NZeta - k) % s.NZeta
				for l := 0; l < s.NThetaReduced; l++ {
					lr := (nth - l) % nth
					v, vr := scratch[k*nth+l], scratch[kr*nth+lr]
					x[k*nth+l] = 0.5 * (v + sigma*vr)
					xa[k*nth+l] = 0.5 * (v - sigma*vr)
				}
			}
		}
	}
}
