package sweep

import (
	"sort"

	"github.com/grailbio/bedsweep/bed"
	"github.com/grailbio/bedsweep/genome"
)

// depthRegion is a [start, end) span of constant depth, the output of
// sweepGenomecovEvents.
type depthRegion struct {
	start, end uint64
	depth      uint32
}

// Genomecov implements spec.md §4.5.7: whole-genome depth-of-coverage
// computed per chromosome (bedgraph/bedgraph-all/per-base/histogram),
// including chromosomes with zero intervals, plus a genome-wide summary
// row for histogram mode. Grounded on
// original_source/src/commands/streaming_genomecov.rs.
func Genomecov(sc *bed.Scanner, g *genome.Table, w *bed.Writer, cfg GenomecovConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	chroms := g.Chromosomes()
	index := make(map[string]int, len(chroms))
	for i, c := range chroms {
		index[c] = i
	}

	genomeHist := make(map[uint32]uint64)
	var events []depthEvent
	curIdx := -1

	processUpTo := func(target int) error {
		for i := curIdx + 1; i < target; i++ {
			if err := genomecovEmptyChrom(w, chroms[i], g, genomeHist, cfg); err != nil {
				return err
			}
		}
		return nil
	}

	for sc.Scan() {
		line := sc.Bytes()
		chrom, start, end, _, ok := bed.ParseBED3WithRest(line)
		if !ok {
			continue
		}
		idx, known := index[string(chrom)]
		if !known {
			continue
		}

		if curIdx == -1 {
			if err := processUpTo(idx); err != nil {
				return err
			}
			curIdx = idx
		} else if idx != curIdx {
			if err := genomecovFlushChrom(w, chroms[curIdx], g, events, genomeHist, cfg); err != nil {
				return err
			}
			if err := processUpTo(idx); err != nil {
				return err
			}
			curIdx = idx
			events = events[:0]
		}

		events = append(events, depthEvent{start, 1}, depthEvent{end, -1})
	}
	if err := sc.Err(); err != nil {
		return err
	}

	if curIdx == -1 {
		if err := processUpTo(len(chroms)); err != nil {
			return err
		}
	} else {
		if err := genomecovFlushChrom(w, chroms[curIdx], g, events, genomeHist, cfg); err != nil {
			return err
		}
		if err := processUpTo(len(chroms)); err != nil {
			return err
		}
	}

	if cfg.Mode == GenomecovHistogram {
		var totalBases uint64
		for _, c := range chroms {
			size, _ := g.ChromSize(c)
			totalBases += size
		}
		if err := genomecovOutputGenomeHistogram(w, genomeHist, totalBases); err != nil {
			return err
		}
	}
	return w.Flush()
}

func genomecovFlushChrom(w *bed.Writer, chrom string, g *genome.Table, events []depthEvent, genomeHist map[uint32]uint64, cfg GenomecovConfig) error {
	if len(events) == 0 {
		return genomecovEmptyChrom(w, chrom, g, genomeHist, cfg)
	}
	size, _ := g.ChromSize(chrom)
	if size == 0 {
		return nil
	}

	sorted := append([]depthEvent(nil), events...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].pos != sorted[j].pos {
			return sorted[i].pos < sorted[j].pos
		}
		return sorted[i].delta > sorted[j].delta // starts before ends at a tie
	})

	regions := sweepGenomecovEvents(sorted, size)

	switch cfg.Mode {
	case GenomecovHistogram:
		hist := buildGenomecovHistogram(regions)
		return genomecovOutputChromHistogram(w, chrom, hist, size, genomeHist)
	case GenomecovBedGraph, GenomecovBedGraphAll:
		return genomecovOutputBedGraph(w, chrom, regions, cfg)
	case GenomecovPerBase:
		return genomecovOutputPerBase(w, chrom, regions, cfg)
	}
	return nil
}

func genomecovEmptyChrom(w *bed.Writer, chrom string, g *genome.Table, genomeHist map[uint32]uint64, cfg GenomecovConfig) error {
	size, _ := g.ChromSize(chrom)
	if size == 0 {
		return nil
	}
	switch cfg.Mode {
	case GenomecovHistogram:
		hist := map[uint32]uint64{0: size}
		return genomecovOutputChromHistogram(w, chrom, hist, size, genomeHist)
	case GenomecovBedGraphAll:
		if err := w.WriteRaw([]byte(chrom)); err != nil {
			return err
		}
		if err := w.WriteRaw([]byte("\t0\t")); err != nil {
			return err
		}
		if err := w.WriteUint(size); err != nil {
			return err
		}
		return w.WriteRaw([]byte("\t0\n"))
	case GenomecovBedGraph:
		return nil
	case GenomecovPerBase:
		for pos := uint64(0); pos < size; pos++ {
			if err := w.WriteRaw([]byte(chrom)); err != nil {
				return err
			}
			if err := w.WriteTab(); err != nil {
				return err
			}
			if err := w.WriteUint(pos + 1); err != nil {
				return err
			}
			if err := w.WriteRaw([]byte("\t0\n")); err != nil {
				return err
			}
		}
	}
	return nil
}

// sweepGenomecovEvents walks sorted start/end events and merges them into
// constant-depth [start, end) regions spanning the whole chromosome.
func sweepGenomecovEvents(sorted []depthEvent, chromSize uint64) []depthRegion {
	var result []depthRegion
	var depth int32
	var prevPos uint64

	appendOrExtend := func(start, end uint64, d uint32) {
		if n := len(result); n > 0 && result[n-1].depth == d && result[n-1].end == start {
			result[n-1].end = end
			return
		}
		result = append(result, depthRegion{start, end, d})
	}

	for _, e := range sorted {
		pos := e.pos
		if pos > chromSize {
			pos = chromSize
		}
		if pos > prevPos {
			appendOrExtend(prevPos, pos, uint32(depth))
		}
		depth += e.delta
		prevPos = pos
	}
	if prevPos < chromSize {
		appendOrExtend(prevPos, chromSize, uint32(depth))
	}
	return result
}

func buildGenomecovHistogram(regions []depthRegion) map[uint32]uint64 {
	hist := make(map[uint32]uint64)
	for _, r := range regions {
		hist[r.depth] += r.end - r.start
	}
	return hist
}

func genomecovOutputChromHistogram(w *bed.Writer, chrom string, hist map[uint32]uint64, size uint64, genomeHist map[uint32]uint64) error {
	depths := sortedDepthKeys(hist)
	for _, d := range depths {
		bases := hist[d]
		fraction := float64(bases) / float64(size)
		if err := w.WriteRaw([]byte(chrom)); err != nil {
			return err
		}
		if err := w.WriteTab(); err != nil {
			return err
		}
		if err := w.WriteUint(uint64(d)); err != nil {
			return err
		}
		if err := w.WriteTab(); err != nil {
			return err
		}
		if err := w.WriteUint(bases); err != nil {
			return err
		}
		if err := w.WriteTab(); err != nil {
			return err
		}
		if err := w.WriteUint(size); err != nil {
			return err
		}
		if err := w.WriteTab(); err != nil {
			return err
		}
		if err := w.WriteFloatSignificant6(fraction); err != nil {
			return err
		}
		if err := w.WriteNewline(); err != nil {
			return err
		}
		genomeHist[d] += bases
	}
	return nil
}

func genomecovOutputGenomeHistogram(w *bed.Writer, genomeHist map[uint32]uint64, totalBases uint64) error {
	depths := sortedDepthKeys(genomeHist)
	for _, d := range depths {
		bases := genomeHist[d]
		var fraction float64
		if totalBases > 0 {
			fraction = float64(bases) / float64(totalBases)
		}
		if err := w.WriteRaw([]byte("genome\t")); err != nil {
			return err
		}
		if err := w.WriteUint(uint64(d)); err != nil {
			return err
		}
		if err := w.WriteTab(); err != nil {
			return err
		}
		if err := w.WriteUint(bases); err != nil {
			return err
		}
		if err := w.WriteTab(); err != nil {
			return err
		}
		if err := w.WriteUint(totalBases); err != nil {
			return err
		}
		if err := w.WriteTab(); err != nil {
			return err
		}
		if err := w.WriteFloatSignificant6(fraction); err != nil {
			return err
		}
		if err := w.WriteNewline(); err != nil {
			return err
		}
	}
	return nil
}

func sortedDepthKeys(m map[uint32]uint64) []uint32 {
	keys := make([]uint32, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func genomecovOutputBedGraph(w *bed.Writer, chrom string, regions []depthRegion, cfg GenomecovConfig) error {
	scale := cfg.scaleOrDefault()
	for _, r := range regions {
		if cfg.Mode == GenomecovBedGraph && r.depth == 0 {
			continue
		}
		scaled := uint64(float64(r.depth) * scale)
		if err := w.WriteRaw([]byte(chrom)); err != nil {
			return err
		}
		if err := w.WriteTab(); err != nil {
			return err
		}
		if err := w.WriteUint(r.start); err != nil {
			return err
		}
		if err := w.WriteTab(); err != nil {
			return err
		}
		if err := w.WriteUint(r.end); err != nil {
			return err
		}
		if err := w.WriteTab(); err != nil {
			return err
		}
		if err := w.WriteUint(scaled); err != nil {
			return err
		}
		if err := w.WriteNewline(); err != nil {
			return err
		}
	}
	return nil
}

func genomecovOutputPerBase(w *bed.Writer, chrom string, regions []depthRegion, cfg GenomecovConfig) error {
	scale := cfg.scaleOrDefault()
	for _, r := range regions {
		scaled := uint64(float64(r.depth) * scale)
		for pos := r.start; pos < r.end; pos++ {
			if err := w.WriteRaw([]byte(chrom)); err != nil {
				return err
			}
			if err := w.WriteTab(); err != nil {
				return err
			}
			if err := w.WriteUint(pos + 1); err != nil {
				return err
			}
			if err := w.WriteTab(); err != nil {
				return err
			}
			if err := w.WriteUint(scaled); err != nil {
				return err
			}
			if err := w.WriteNewline(); err != nil {
				return err
			}
		}
	}
	return nil
}
