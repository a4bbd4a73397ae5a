package payload

import (
	"runtime"
	"sync"

	"github.com/mewkiz/s1l0/internal/decodeerr"
)

// batchOpts mirrors the functional-options shape used for the pbzip2-style
// parallel decompressor elsewhere in the example pack, scaled down to this
// decoder's much simpler fan-out: a batch of independent packets decoded
// into independently-addressed output rows, with no reassembly ordering to
// preserve ("no ordering dependency exists between packets within
// a batch").
type batchOpts struct {
	concurrency int
}

// BatchOption configures DecodeBatchBypass / DecodeBatchFDBAQ.
type BatchOption func(*batchOpts)

// WithConcurrency sets the number of worker goroutines used to decode a
// batch. The default is runtime.GOMAXPROCS(-1).
func WithConcurrency(n int) BatchOption {
	return func(o *batchOpts) { o.concurrency = n }
}

// FailedPacket records a packet that failed to decode within a batch; its
// output row is left zero-filled.
type FailedPacket struct {
	Index int // index within the batch, not the file-wide packet number
	Err   error
}

func resolveOpts(opts []BatchOption) batchOpts {
	o := batchOpts{concurrency: runtime.GOMAXPROCS(-1)}
	for _, fn := range opts {
		fn(&o)
	}
	if o.concurrency < 1 {
		o.concurrency = 1
	}
	return o
}

// DecodeSingleBypass decodes one packet's worth of Bypass-encoded user data
// into 2*numQuads interleaved complex samples.
func DecodeSingleBypass(data []byte, numQuads int) ([]complex64, error) {
	ie, io, qe, qo, err := DecodeBypass(data, numQuads)
	if err != nil {
		return nil, err
	}
	return AssembleComplex(ie, io, qe, qo), nil
}

// DecodeSingleFDBAQ decodes one packet's worth of FDBAQ-encoded user data
// into 2*numQuads interleaved complex samples.
func DecodeSingleFDBAQ(data []byte, numQuads int) ([]complex64, error) {
	res, err := DecodeFDBAQ(data, numQuads)
	if err != nil {
		return nil, err
	}
	ie, err := ReconstructChannel(res.IE, res.BRC, res.THIDX, numQuads)
	if err != nil {
		return nil, err
	}
	io, err := ReconstructChannel(res.IO, res.BRC, res.THIDX, numQuads)
	if err != nil {
		return nil, err
	}
	qe, err := ReconstructChannel(res.QE, res.BRC, res.THIDX, numQuads)
	if err != nil {
		return nil, err
	}
	qo, err := ReconstructChannel(res.QO, res.BRC, res.THIDX, numQuads)
	if err != nil {
		return nil, err
	}
	return AssembleComplex(ie, io, qe, qo), nil
}

// decodeOne is the shape shared by DecodeSingleBypass and DecodeSingleFDBAQ,
// used to drive the generic batch fan-out below.
type decodeOne func(data []byte, numQuads int) ([]complex64, error)

// decodeBatch runs fn over every packet in batch concurrently, writing each
// decoded row into its known destination index of out — a matrix of
// shape [len(batch)][2*numQuads]. A packet whose decode fails leaves its
// row zero-filled and is reported in the returned failure list, matching
// the batched error-propagation policy.
func decodeBatch(batch [][]byte, numQuads int, fn decodeOne, opts []BatchOption) ([][]complex64, []FailedPacket) {
	o := resolveOpts(opts)
	out := make([][]complex64, len(batch))
	for i := range out {
		out[i] = make([]complex64, 2*numQuads)
	}

	jobs := make(chan int, len(batch))
	for i := range batch {
		jobs <- i
	}
	close(jobs)

	var mu sync.Mutex
	var failures []FailedPacket
	var wg sync.WaitGroup
	workers := o.concurrency
	if workers > len(batch) {
		workers = len(batch)
	}
	if workers < 1 {
		workers = 1
	}
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				row, err := fn(batch[i], numQuads)
				if err != nil {
					mu.Lock()
					failures = append(failures, FailedPacket{Index: i, Err: err})
					mu.Unlock()
					continue
				}
				copy(out[i], row)
			}
		}()
	}
	wg.Wait()
	return out, failures
}

// DecodeBatchBypass decodes a batch of Bypass packets in parallel,
// operation 4.
func DecodeBatchBypass(batch [][]byte, numQuads int, opts ...BatchOption) ([][]complex64, []FailedPacket) {
	return decodeBatch(batch, numQuads, DecodeSingleBypass, opts)
}

// DecodeBatchFDBAQ decodes a batch of FDBAQ packets in parallel, the FDBAQ
// counterpart of DecodeBatchBypass.
func DecodeBatchFDBAQ(batch [][]byte, numQuads int, opts ...BatchOption) ([][]complex64, []FailedPacket) {
	return decodeBatch(batch, numQuads, DecodeSingleFDBAQ, opts)
}

// ValidateBatch checks the invalid-configuration rule: a batch
// request must name at least one packet, and num_quads/baq_mode must each
// already be resolved to single values by the caller before bytes are read.
// This is a cheap guard callers can run before building the byte batch.
func ValidateBatch(packetCount, numQuads int) error {
	if packetCount == 0 {
		return decodeerr.New(decodeerr.InvalidConfig, errShortf("batch must contain at least one packet"))
	}
	if numQuads < 0 {
		return decodeerr.New(decodeerr.InvalidConfig, errShortf("negative num_quads %d", numQuads))
	}
	return nil
}
