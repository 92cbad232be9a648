package sweep

import (
	"github.com/grailbio/bedsweep/bed"
	"github.com/grailbio/bedsweep/genome"
)

// Complement implements spec.md §4.5.8: the regions of each genome
// chromosome not covered by any input interval, output in genome-table
// order. When assume_genome_order is set, it streams in O(1) memory
// (complementSorted); otherwise it accumulates each chromosome's last-seen
// end position across an unordered pass (complementAccumulate). Grounded
// on original_source/src/commands/complement.rs's two parallel
// implementations.
func Complement(sc *bed.Scanner, g *genome.Table, w *bed.Writer, cfg ComplementConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.AssumeGenomeOrder {
		return complementSorted(sc, g, w, cfg)
	}
	return complementAccumulate(sc, g, w, cfg)
}

// complementSorted streams directly: it assumes input arrives in genome-
// table chromosome order (and ascending start within a chromosome), and
// emits a chromosome's trailing gap as soon as the next chromosome (or
// EOF) is seen.
func complementSorted(sc *bed.Scanner, g *genome.Table, w *bed.Writer, cfg ComplementConfig) error {
	chroms := g.Chromosomes()
	index := make(map[string]int, len(chroms))
	for i, c := range chroms {
		index[c] = i
	}

	curIdx := -1
	var lastEnd uint64

	emitFullChrom := func(c string) error {
		size, _ := g.ChromSize(c)
		if size == 0 {
			return nil
		}
		return w.WriteBED3Line([]byte(c), 0, size)
	}

	for sc.Scan() {
		line := sc.Bytes()
		chrom, start, end, _, ok := bed.ParseBED3WithRest(line)
		if !ok {
			continue
		}
		idx, known := index[string(chrom)]
		if !known {
			if cfg.ErrorOnUnknownChromosome {
				return NewUnknownChromosome("complement: " + string(chrom) + " not in genome file")
			}
			continue
		}
		size, _ := g.ChromSize(chroms[idx])

		switch {
		case curIdx == -1:
			for i := 0; i < idx; i++ {
				if err := emitFullChrom(chroms[i]); err != nil {
					return err
				}
			}
			if start > 0 {
				if err := w.WriteBED3Line(chrom, 0, start); err != nil {
					return err
				}
			}
			curIdx = idx
			lastEnd = bed.Min(end, size)
		case idx != curIdx:
			prevChrom := chroms[curIdx]
			prevSize, _ := g.ChromSize(prevChrom)
			if lastEnd < prevSize {
				if err := w.WriteBED3Line([]byte(prevChrom), lastEnd, prevSize); err != nil {
					return err
				}
			}
			for i := curIdx + 1; i < idx; i++ {
				if err := emitFullChrom(chroms[i]); err != nil {
					return err
				}
			}
			if start > 0 {
				if err := w.WriteBED3Line(chrom, 0, start); err != nil {
					return err
				}
			}
			curIdx = idx
			lastEnd = bed.Min(end, size)
		default:
			if start > lastEnd {
				if err := w.WriteBED3Line(chrom, lastEnd, start); err != nil {
					return err
				}
			}
			if clipped := bed.Min(end, size); clipped > lastEnd {
				lastEnd = clipped
			}
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}

	if curIdx == -1 {
		for _, c := range chroms {
			if err := emitFullChrom(c); err != nil {
				return err
			}
		}
		return w.Flush()
	}

	lastChrom := chroms[curIdx]
	lastSize, _ := g.ChromSize(lastChrom)
	if lastEnd < lastSize {
		if err := w.WriteBED3Line([]byte(lastChrom), lastEnd, lastSize); err != nil {
			return err
		}
	}
	for i := curIdx + 1; i < len(chroms); i++ {
		if err := emitFullChrom(chroms[i]); err != nil {
			return err
		}
	}
	return w.Flush()
}

// complementAccumulate handles input that isn't in genome order: it tracks
// each chromosome's accumulated gaps and last-seen end across the whole
// pass, then emits everything in genome-table order at the end. Memory is
// O(number of gaps), not O(input size).
func complementAccumulate(sc *bed.Scanner, g *genome.Table, w *bed.Writer, cfg ComplementConfig) error {
	type gap struct{ start, end uint64 }
	gaps := make(map[string][]gap)
	lastEnd := make(map[string]uint64)
	seen := make(map[string]bool)

	for sc.Scan() {
		line := sc.Bytes()
		chrom, start, end, _, ok := bed.ParseBED3WithRest(line)
		if !ok {
			continue
		}
		chromStr := string(chrom)
		size, known := g.ChromSize(chromStr)
		if !known {
			if cfg.ErrorOnUnknownChromosome {
				return NewUnknownChromosome("complement: " + chromStr + " not in genome file")
			}
			continue
		}
		seen[chromStr] = true
		prevEnd := lastEnd[chromStr]
		if start > prevEnd {
			gaps[chromStr] = append(gaps[chromStr], gap{prevEnd, start})
		}
		clipped := bed.Min(end, size)
		if clipped > prevEnd {
			lastEnd[chromStr] = clipped
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}

	for _, chrom := range g.Chromosomes() {
		size, _ := g.ChromSize(chrom)
		if !seen[chrom] {
			if size > 0 {
				if err := w.WriteBED3Line([]byte(chrom), 0, size); err != nil {
					return err
				}
			}
			continue
		}
		for _, gp := range gaps[chrom] {
			if err := w.WriteBED3Line([]byte(chrom), gp.start, gp.end); err != nil {
				return err
			}
		}
		if end := lastEnd[chrom]; end < size {
			if err := w.WriteBED3Line([]byte(chrom), end, size); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}
