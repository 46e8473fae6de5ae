package domain

// Spin draws a segment index uniformly from [0, n).
func Spin(n int, rng RNG) (int, error) {
	if n < 1 {
		return 0, ErrEmptyCatalog
	}
	return rng.Intn(n), nil
}

// SpinCatalog draws a style from c and computes the rotation that brings
// it under the pointer after extraTurns full revolutions.
func SpinCatalog(c Catalog, extraTurns int, rng RNG) (SpinOutcome, error) {
	idx, err := Spin(c.Len(), rng)
	if err != nil {
		return SpinOutcome{}, err
	}
	return SpinOutcome{
		Index:           idx,
		Style:           c.Styles[idx],
		RotationDegrees: ComputeRotation(idx, c.Len(), extraTurns),
	}, nil
}
