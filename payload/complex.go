package payload

// AssembleComplex interleaves the four channel arrays into a flat sequence
// of 2*len(ie) complex samples, component C7: [IE0+jQE0, IO0+jQO0, IE1+jQE1,
// IO1+jQO1, ...]. This interleaving order is part of the decoder's external
// contract and must not be changed.
func AssembleComplex(ie, io, qe, qo []float64) []complex64 {
	n := len(ie)
	out := make([]complex64, 2*n)
	for i := 0; i < n; i++ {
		out[2*i] = complex(float32(ie[i]), float32(qe[i]))
		out[2*i+1] = complex(float32(io[i]), float32(qo[i]))
	}
	return out
}
