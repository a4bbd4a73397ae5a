// Package s1l0 decodes ESA Sentinel-1 Level-0 SAR telemetry files: the
// CCSDS/ESA space packet header stream (package header) and the FDBAQ/Bypass
// radar echo payload (package payload), plus the file-level façade, burst
// grouping and on-disk cache this package adds on top of both.
package s1l0

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/mewkiz/s1l0/ephemeris"
	"github.com/mewkiz/s1l0/header"
	"github.com/mewkiz/s1l0/internal/bufseekio"
	"github.com/mewkiz/s1l0/payload"
)

// burst is a maximal run of packets with constant (SwathNumber, NumQuads),
// the grouping a Level-0 file's radar echoes are naturally decoded in —
// coarser than, and independent of, the acquisition-chunk index.
type burst struct {
	Start, End  int // packet index range [Start, End)
	SwathNumber uint8
	NumQuads    uint16
}

// File is the root-package façade over one opened Level-0 file: the decoded
// packet-metadata index (C8's output), its
// burst grouping, and on-demand payload decoding with an optional on-disk
// cache.
type File struct {
	path string
	opts options

	f  *os.File
	rs *bufseekio.ReadSeeker
	mu sync.Mutex // guards rs across BurstData calls

	columns header.Columns
	chunks  []int
	bursts  []burst

	ephemerisOnce   sync.Once
	ephemerisPoints []ephemeris.Point
}

// Open reads and indexes a Level-0 file: every packet header is parsed once
// (C8), then packets are grouped into bursts. The file itself is kept open
// for BurstData's on-demand payload reads, routed through
// internal/bufseekio.ReadSeeker for buffered random access.
func Open(path string, opts ...Option) (*File, error) {
	o := resolveOptions(opts)
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "s1l0: open %q", path)
	}
	file := &File{
		path: path,
		opts: o,
		f:    f,
		rs:   bufseekio.NewReadSeeker(f),
	}
	if err := file.parseHeaders(); err != nil {
		f.Close()
		return nil, err
	}
	o.logger.Info("opened level-0 file",
		"path", path, "packets", len(file.columns.PacketVersionNumber), "bursts", len(file.bursts))
	return file, nil
}

// Close releases the underlying file handle.
func (f *File) Close() error {
	return f.f.Close()
}

// parseHeaders walks the file once from the start, decoding every packet's
// primary/secondary header (C8) and recording each packet's user-data byte
// range as an absolute file offset, then builds the column-oriented view,
// the acquisition-chunk index and the burst grouping.
func (f *File) parseHeaders() error {
	var headers []header.Header
	var bounds []header.UserDataBound

	var primaryBuf [header.PrimaryHeaderSize]byte
	var secondaryBuf [header.SecondaryHeaderSize]byte

	pos := int64(0)
	for {
		if _, err := f.rs.Seek(pos, io.SeekStart); err != nil {
			return wrapf(Truncation, err, "s1l0: seek to packet %d at offset %d", len(headers), pos)
		}
		if _, err := io.ReadFull(f.rs, primaryBuf[:]); err != nil {
			if err == io.EOF {
				break
			}
			return wrapf(Truncation, err, "s1l0: read primary header of packet %d", len(headers))
		}

		primary, err := header.ParsePrimaryHeader(primaryBuf[:])
		if err != nil {
			return err
		}

		var h header.Header
		h.Primary = primary
		userOff := pos + header.PrimaryHeaderSize
		userLen := int(primary.PacketDataLength)

		if primary.SecondaryHeaderFlag != 0 {
			if _, err := io.ReadFull(f.rs, secondaryBuf[:]); err != nil {
				return wrapf(Truncation, err, "s1l0: read secondary header of packet %d", len(headers))
			}
			secondary, err := header.ParseSecondaryHeader(secondaryBuf[:])
			if err != nil {
				return err
			}
			if !secondary.SyncValid {
				f.opts.logger.Warn("secondary header sync mismatch",
					"packet", len(headers), "offset", pos, "sync", secondary.Sync)
			}
			h.Secondary = &secondary
			userOff += header.SecondaryHeaderSize
			userLen -= header.SecondaryHeaderSize
			if userLen < 0 {
				return newf(CorruptValue, "s1l0: packet %d: packet_data_length shorter than secondary header", len(headers))
			}
		}

		headers = append(headers, h)
		bounds = append(bounds, header.UserDataBound{Offset: int(userOff), Length: userLen})
		pos += int64(h.PacketSize())
	}

	f.columns = header.BuildColumns(headers, bounds)
	f.chunks = header.AssignAcquisitionChunks(f.columns)
	f.bursts = groupBursts(f.columns)
	return nil
}

// groupBursts partitions packets into maximal runs of constant
// (SwathNumber, NumQuads), the upstream's burst grouping.
func groupBursts(c header.Columns) []burst {
	n := len(c.SwathNumber)
	if n == 0 {
		return nil
	}
	var bursts []burst
	start := 0
	for i := 1; i <= n; i++ {
		if i == n || c.SwathNumber[i] != c.SwathNumber[start] || c.NumQuads[i] != c.NumQuads[start] {
			bursts = append(bursts, burst{
				Start: start, End: i,
				SwathNumber: c.SwathNumber[start],
				NumQuads:    c.NumQuads[start],
			})
			start = i
		}
	}
	return bursts
}

// PacketMetadata returns the column-oriented metadata for every packet in
// the file.
func (f *File) PacketMetadata() header.Columns { return f.columns }

// ChunkIndex returns the acquisition-chunk id of every packet,
// parallel to PacketMetadata's columns.
func (f *File) ChunkIndex() []int { return f.chunks }

// BurstCount returns the number of bursts the file was grouped into.
func (f *File) BurstCount() int { return len(f.bursts) }

// BurstMetadata returns the column-oriented metadata for one burst's
// packets.
func (f *File) BurstMetadata(burstIdx int) (header.Columns, error) {
	b, err := f.burstAt(burstIdx)
	if err != nil {
		return header.Columns{}, err
	}
	return f.columns.Slice(b.Start, b.End), nil
}

func (f *File) burstAt(idx int) (burst, error) {
	if idx < 0 || idx >= len(f.bursts) {
		return burst{}, newf(InvalidConfig, "s1l0: burst %d out of range (file has %d)", idx, len(f.bursts))
	}
	return f.bursts[idx], nil
}

// Ephemeris lazily reassembles and memoizes the sub-commutated ephemeris and
// attitude data over the full packet stream.
func (f *File) Ephemeris() []ephemeris.Point {
	f.ephemerisOnce.Do(func() {
		f.ephemerisPoints = ephemeris.Extract(f.columns)
	})
	return f.ephemerisPoints
}

// BurstData decodes (or, with WithCache, loads from the on-disk cache) the
// radar echoes of one burst into interleaved complex I/Q samples, validating
// that BAQMode is single-valued across the burst's packets exactly as the
// upstream reference's burst post-check does.
func (f *File) BurstData(burstIdx int, opts ...BurstDataOption) ([]complex64, error) {
	b, err := f.burstAt(burstIdx)
	if err != nil {
		return nil, err
	}
	bo := resolveBurstDataOptions(opts)
	cachePath := f.cachePath(burstIdx)

	if bo.useCache {
		data, ok, err := readBurstCache(cachePath)
		if err != nil {
			return nil, err
		}
		if ok {
			f.opts.logger.Debug("burst cache hit", "burst", burstIdx, "path", cachePath)
			return data, nil
		}
	}

	numQuads := int(b.NumQuads)
	baqMode := f.columns.BAQMode[b.Start]
	for i := b.Start; i < b.End; i++ {
		if f.columns.BAQMode[i] != baqMode {
			return nil, newf(InvalidConfig,
				"s1l0: burst %d: BAQ mode not single-valued across packets %d-%d", burstIdx, b.Start, b.End)
		}
	}

	batch, err := f.readBurstPackets(b)
	if err != nil {
		return nil, err
	}

	corrID := uuid.New().String()
	f.opts.logger.Info("decoding burst",
		"burst", burstIdx, "packets", len(batch), "baq_mode", baqMode, "correlation_id", corrID)

	var rows [][]complex64
	var failures []payload.FailedPacket
	switch {
	case baqMode.IsBypass():
		rows, failures = payload.DecodeBatchBypass(batch, numQuads, payload.WithConcurrency(f.concurrency()))
	case baqMode.IsFDBAQ():
		rows, failures = payload.DecodeBatchFDBAQ(batch, numQuads, payload.WithConcurrency(f.concurrency()))
	default:
		return nil, newf(UnsupportedMode, "s1l0: burst %d: BAQ mode %s has no decoder", burstIdx, baqMode)
	}
	for _, fp := range failures {
		f.opts.logger.Warn("packet decode failed",
			"burst", burstIdx, "packet", b.Start+fp.Index, "correlation_id", corrID, "err", fp.Err)
	}

	out := make([]complex64, 0, len(rows)*2*numQuads)
	for _, row := range rows {
		out = append(out, row...)
	}

	if bo.useCache {
		if err := writeBurstCache(cachePath, burstIdx, numQuads, out); err != nil {
			f.opts.logger.Warn("burst cache write failed", "burst", burstIdx, "err", err)
		}
	}
	return out, nil
}

// readBurstPackets reads the raw user-data bytes of every packet in b from
// the underlying file, seeking via internal/bufseekio.ReadSeeker.
func (f *File) readBurstPackets(b burst) ([][]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	batch := make([][]byte, 0, b.End-b.Start)
	for i := b.Start; i < b.End; i++ {
		bound := f.columns.Bounds[i]
		buf := make([]byte, bound.Length)
		if _, err := f.rs.Seek(int64(bound.Offset), io.SeekStart); err != nil {
			return nil, wrapf(Truncation, err, "s1l0: seek to packet %d user data", i)
		}
		if _, err := io.ReadFull(f.rs, buf); err != nil {
			return nil, wrapf(Truncation, err, "s1l0: read packet %d user data", i)
		}
		batch = append(batch, buf)
	}
	return batch, nil
}

func (f *File) concurrency() int {
	if f.opts.concurrency > 0 {
		return f.opts.concurrency
	}
	return runtime.GOMAXPROCS(-1)
}

// SaveBurstCache decodes (if necessary) and persists one burst's samples to
// its on-disk cache file.
func (f *File) SaveBurstCache(burstIdx int) error {
	b, err := f.burstAt(burstIdx)
	if err != nil {
		return err
	}
	data, err := f.BurstData(burstIdx)
	if err != nil {
		return err
	}
	return writeBurstCache(f.cachePath(burstIdx), burstIdx, int(b.NumQuads), data)
}

// LoadBurstCache reads back a burst previously persisted with
// SaveBurstCache. ok is false, with a nil error, when no cache file exists.
func (f *File) LoadBurstCache(burstIdx int) ([]complex64, bool, error) {
	if _, err := f.burstAt(burstIdx); err != nil {
		return nil, false, err
	}
	return readBurstCache(f.cachePath(burstIdx))
}

// cachePath returns the on-disk cache path for a burst: <file-without-ext>_bN.cache
// next to the source file, or inside Config.CacheDir when one is set.
func (f *File) cachePath(burstIdx int) string {
	ext := filepath.Ext(f.path)
	base := strings.TrimSuffix(f.path, ext)
	suffix := fmt.Sprintf("_b%d.cache", burstIdx)
	if f.opts.config.CacheDir == "" {
		return base + suffix
	}
	return filepath.Join(f.opts.config.CacheDir, filepath.Base(base)+suffix)
}
