// Package chunkbatch implements the chunk-batch rate estimator (spec §4.7,
// §3): the client reports a sustainable desired_chunks_per_tick back to the
// server after each batch of chunks finishes loading, so the server paces
// how many chunks it sends.
//
// Grounded line-for-line on original_source/azalea-client/src/chunk_batching.rs.
package chunkbatch

// defaultAggregatedDurationPerChunkMs and defaultOldSamplesWeight mirror
// azalea's ChunkBatchInfo::default(): aggregated_duration_per_chunk = 2ms,
// old_samples_weight = 1.
const (
	defaultAggregatedDurationPerChunkMs = 2.0
	minOldSamplesWeight                 = 1
	maxOldSamplesWeight                 = 49

	// desiredChunksNumerator is the constant from spec §3/§4.7:
	// desired_chunks_per_tick = 7_000_000 / aggregated_ns.
	desiredChunksNumerator = 7_000_000.0

	sampleDurationMinMs = 0.0
	sampleDurationMaxMs = 15000.0

	ringBufferCapacity = 64
)

// Sample is one recorded (batch_size, batch_duration_ms) observation, kept
// for observability (spec §4.7).
type Sample struct {
	BatchSize     int
	DurationMs    float64
}

// Info is the chunk-batch rate estimator's running state (spec §3's
// "Chunk-batch info"). The zero value is not valid; use New.
type Info struct {
	aggregatedDurationPerChunkMs float64
	oldSamplesWeight             int

	samples    []Sample
	sampleHead int
	sampleLen  int
}

// New builds an estimator with azalea's default starting state.
func New() *Info {
	return &Info{
		aggregatedDurationPerChunkMs: defaultAggregatedDurationPerChunkMs,
		oldSamplesWeight:             minOldSamplesWeight,
		samples:                      make([]Sample, ringBufferCapacity),
	}
}

// Reset restores default state — spec §4.7: "The estimator is reset to
// default on world change."
func (i *Info) Reset() {
	*i = *New()
}

// AggregatedDurationPerChunkMs returns the current weighted-mean per-chunk
// duration estimate, in milliseconds.
func (i *Info) AggregatedDurationPerChunkMs() float64 {
	return i.aggregatedDurationPerChunkMs
}

// OldSamplesWeight returns the current sample weight (saturates at 49).
func (i *Info) OldSamplesWeight() int {
	return i.oldSamplesWeight
}

// BatchFinished folds a completed batch of n chunks, received over
// durationMs wall-clock time, into the running estimate. n must be > 0;
// batches of zero chunks do not update the estimate (spec §3: "Updated
// when a batch of n > 0 chunks finishes").
func (i *Info) BatchFinished(n int, durationMs float64) {
	if n <= 0 {
		return
	}

	i.recordSample(n, durationMs)

	perChunk := durationMs / float64(n)

	lower := i.aggregatedDurationPerChunkMs / 3
	upper := i.aggregatedDurationPerChunkMs * 3
	clamped := perChunk
	if clamped < lower {
		clamped = lower
	}
	if clamped > upper {
		clamped = upper
	}

	weight := float64(i.oldSamplesWeight)
	i.aggregatedDurationPerChunkMs = (i.aggregatedDurationPerChunkMs*weight + clamped) / (weight + 1)

	if i.oldSamplesWeight < maxOldSamplesWeight {
		i.oldSamplesWeight++
	}
}

// DesiredChunksPerTick returns the rate to report to the server via
// ServerboundChunkBatchReceived (spec §4.5).
func (i *Info) DesiredChunksPerTick() float64 {
	aggregatedNs := i.aggregatedDurationPerChunkMs * 1_000_000
	if aggregatedNs <= 0 {
		return desiredChunksNumerator
	}
	return desiredChunksNumerator / aggregatedNs
}

func (i *Info) recordSample(n int, durationMs float64) {
	d := durationMs
	if d < sampleDurationMinMs {
		d = sampleDurationMinMs
	}
	if d > sampleDurationMaxMs {
		d = sampleDurationMaxMs
	}

	i.samples[i.sampleHead] = Sample{BatchSize: n, DurationMs: d}
	i.sampleHead = (i.sampleHead + 1) % len(i.samples)
	if i.sampleLen < len(i.samples) {
		i.sampleLen++
	}
}

// RecentSamples returns the currently buffered samples, oldest first.
func (i *Info) RecentSamples() []Sample {
	out := make([]Sample, i.sampleLen)
	start := i.sampleHead - i.sampleLen
	for idx := 0; idx < i.sampleLen; idx++ {
		pos := (start + idx) % len(i.samples)
		if pos < 0 {
			pos += len(i.samples)
		}
		out[idx] = i.samples[pos]
	}
	return out
}
