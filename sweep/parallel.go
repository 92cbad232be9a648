package sweep

import (
	"bytes"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"

	grailerrors "github.com/grailbio/base/errors"

	"github.com/grailbio/bedsweep/bed"
	"github.com/grailbio/bedsweep/genome"
)

// The embarrassingly-parallel-by-chromosome fallback of spec.md §5: a
// batch mode that relaxes the streaming memory bound (it materializes each
// chromosome's lines in full) in exchange for processing independent
// chromosomes concurrently. No original_source command implements this —
// spec.md §5 states the contract directly — so the worker-pool shape
// follows markduplicates/mark_duplicates.go's goroutine-per-shard dispatch
// over a job channel, aggregating errors with grailbio/base/errors.Once the
// same way generatePAM does.
//
// Outputs are required to be byte-identical to the single-threaded
// streaming driver (spec.md §5), so each worker calls the same Merge/
// Genomecov/Complement entry point the streaming path uses, against a
// scanner/table scoped to one chromosome; only the fan-out and final
// concatenation are new.

func resolveParallelism(parallelism int) int {
	if parallelism > 0 {
		return parallelism
	}
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 1
}

// partitionByChrom groups sc's lines into contiguous per-chromosome runs.
// It returns the chromosomes in first-seen order (not the canonical
// enumeration order — callers sort separately) plus each one's raw line
// bytes, newline-terminated and ready to feed back into bed.NewScanner.
func partitionByChrom(sc *bed.Scanner) ([]string, map[string][]byte, error) {
	var order []string
	bufs := make(map[string]*bytes.Buffer)

	for sc.Scan() {
		line := sc.Bytes()
		chrom, _, _, _, ok := bed.ParseBED3WithRest(line)
		if !ok {
			continue
		}
		key := string(chrom)
		b, seen := bufs[key]
		if !seen {
			b = &bytes.Buffer{}
			bufs[key] = b
			order = append(order, key)
		}
		b.Write(line)
		b.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}

	out := make(map[string][]byte, len(bufs))
	for k, b := range bufs {
		out[k] = b.Bytes()
	}
	return order, out, nil
}

// runChromJobs dispatches n jobs (one per canonical-order chromosome index)
// across parallelism workers, collects each job's output buffer, and
// concatenates them in canonical order once every job has completed.
func runChromJobs(w *bed.Writer, n, parallelism int, job func(i int) ([]byte, error)) error {
	results := make([][]byte, n)
	jobs := make(chan int, n)
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)

	var e grailerrors.Once
	var wg sync.WaitGroup
	for wi := 0; wi < resolveParallelism(parallelism); wi++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out, err := job(i)
				if err != nil {
					e.Set(fmt.Errorf("chromosome job %d: %w", i, err))
					continue
				}
				results[i] = out
			}
		}()
	}
	wg.Wait()
	if err := e.Err(); err != nil {
		return err
	}

	for _, out := range results {
		if len(out) == 0 {
			continue
		}
		if err := w.WriteRaw(out); err != nil {
			return err
		}
	}
	return w.Flush()
}

// ParallelMerge runs Merge independently per chromosome (default
// lexicographic comparator, spec.md §4.7) and concatenates results in that
// order. parallelism <= 0 defaults to runtime.NumCPU().
func ParallelMerge(sc *bed.Scanner, w *bed.Writer, cfg MergeConfig, parallelism int) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	order, chunks, err := partitionByChrom(sc)
	if err != nil {
		return err
	}

	cmp := genome.Lexicographic()
	sortChroms(order, cmp)

	return runChromJobs(w, len(order), parallelism, func(i int) ([]byte, error) {
		chrom := order[i]
		chunkSc := bed.NewScanner(bytes.NewReader(chunks[chrom]))
		var buf bytes.Buffer
		chunkW := bed.NewWriter(&buf)
		if err := Merge(chunkSc, chunkW, cfg); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
}

// ParallelGenomecov runs Genomecov independently per chromosome, against a
// single-chromosome genome.Table scoped to each one, and concatenates
// results in the genome table's declared order. Because each worker gets
// the whole genome's chromosome set reduced to just its own entry,
// Genomecov's own trailing-chromosome zero-fill logic naturally produces
// exactly that chromosome's rows with no cross-worker coordination needed.
// Histogram mode is not split: its output ends with one genome-wide summary
// over every chromosome, so it runs Genomecov over the whole input.
func ParallelGenomecov(sc *bed.Scanner, g *genome.Table, w *bed.Writer, cfg GenomecovConfig, parallelism int) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Mode == GenomecovHistogram {
		return Genomecov(sc, g, w, cfg)
	}
	_, chunks, err := partitionByChrom(sc)
	if err != nil {
		return err
	}

	chroms := g.Chromosomes()
	return runChromJobs(w, len(chroms), parallelism, func(i int) ([]byte, error) {
		chrom := chroms[i]
		size, _ := g.ChromSize(chrom)
		subTable, err := genome.Load(strings.NewReader(fmt.Sprintf("%s\t%d\n", chrom, size)))
		if err != nil {
			return nil, err
		}
		chunkSc := bed.NewScanner(bytes.NewReader(chunks[chrom]))
		var buf bytes.Buffer
		chunkW := bed.NewWriter(&buf)
		if err := Genomecov(chunkSc, subTable, chunkW, cfg); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
}

// ParallelComplement runs Complement independently per chromosome, the
// same way ParallelGenomecov does. AssumeGenomeOrder is forced true for
// each worker: a single-chromosome partition is trivially "in order".
func ParallelComplement(sc *bed.Scanner, g *genome.Table, w *bed.Writer, cfg ComplementConfig, parallelism int) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	order, chunks, err := partitionByChrom(sc)
	if err != nil {
		return err
	}
	if cfg.ErrorOnUnknownChromosome {
		for _, chrom := range order {
			if _, known := g.ChromSize(chrom); !known {
				return NewUnknownChromosome("complement: " + chrom + " not in genome file")
			}
		}
	}

	workerCfg := cfg
	workerCfg.AssumeGenomeOrder = true

	chroms := g.Chromosomes()
	return runChromJobs(w, len(chroms), parallelism, func(i int) ([]byte, error) {
		chrom := chroms[i]
		size, _ := g.ChromSize(chrom)
		subTable, err := genome.Load(strings.NewReader(fmt.Sprintf("%s\t%d\n", chrom, size)))
		if err != nil {
			return nil, err
		}
		chunkSc := bed.NewScanner(bytes.NewReader(chunks[chrom]))
		var buf bytes.Buffer
		chunkW := bed.NewWriter(&buf)
		if err := Complement(chunkSc, subTable, chunkW, workerCfg); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
}

// sortChroms orders names in place by cmp, ascending.
func sortChroms(names []string, cmp *genome.Comparator) {
	sort.Slice(names, func(i, j int) bool { return cmp.Less(names[i], names[j]) })
}
