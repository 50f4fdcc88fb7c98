package tirpio

import (
	"bufio"
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/blainsmith/seahash"
	"github.com/grailbio/base/file"

	"github.com/tirpclo/tirpclo/coincidence"
	"github.com/tirpclo/tirpclo/seqdb"
)

// Stats summarizes one completed mining run.
type Stats struct {
	RuntimeSeconds float64
	TIRPCount      int
}

// Writer appends discovered TIRPs to an output file in the line grammar of
// §6, and on Close produces the sorted/stats/checksum companion files.
// Grounded on original_source/tirpclo/tirp_writing.py, in the style of the
// teacher's markduplicates/metrics.go incremental-write-then-summarize
// lifecycle.
type Writer struct {
	path      string
	ctx       context.Context
	out       file.File
	buf       *bufio.Writer
	start     time.Time
	tirpCount int
}

// OpenOutput creates path, failing with ErrOutputExists if it is already
// present.
func OpenOutput(ctx context.Context, path string) (*Writer, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, ErrOutputExists(path)
	}
	f, err := file.Create(ctx, path)
	if err != nil {
		return nil, err
	}
	return &Writer{
		path:  path,
		ctx:   ctx,
		out:   f,
		buf:   bufio.NewWriter(f.Writer(ctx)),
		start: time.Now(),
	}, nil
}

// WriteTIRP formats pattern per the TIRP output grammar and appends it.
func (w *Writer) WriteTIRP(pattern *seqdb.SequenceDB) {
	line := formatTIRP(pattern)
	fmt.Fprintln(w.buf, line)
	w.tirpCount++
}

func formatTIRP(pattern *seqdb.SequenceDB) string {
	support := pattern.Support
	firstTieps := pattern.Entries[0].Pattern.Tieps
	length := len(firstTieps) / 2

	stis := startSTIs(firstTieps)
	sort.Slice(stis, func(i, j int) bool { return stis[i].Less(stis[j]) })

	var b strings.Builder
	fmt.Fprintf(&b, "%d ", length)

	syms := make([]string, len(stis))
	for i, sti := range stis {
		syms[i] = strconv.Itoa(sti.Symbol)
	}
	b.WriteString(strings.Join(syms, "-"))
	b.WriteString(" ")

	if length == 1 {
		b.WriteString("-.")
	} else {
		for i := 0; i < length; i++ {
			for j := i + 1; j < length; j++ {
				b.WriteString(relation(stis[i], stis[j]))
				b.WriteString(".")
			}
		}
	}

	fmt.Fprintf(&b, " %d ", support)
	if length == 1 {
		fmt.Fprintf(&b, "%d ", support)
	} else {
		meanInstances := math.Round(float64(len(pattern.Entries))/float64(support)*100) / 100
		fmt.Fprintf(&b, "%v ", meanInstances)
	}

	for _, entry := range pattern.Entries {
		entryStis := startSTIs(entry.Pattern.Tieps)
		sort.Slice(entryStis, func(i, j int) bool { return entryStis[i].Less(entryStis[j]) })
		fmt.Fprintf(&b, "%s %s ", entry.Seq.Entity, stisAsString(entryStis))
	}

	return strings.TrimSuffix(b.String(), " ")
}

func startSTIs(tieps []*coincidence.Tiep) []*coincidence.STI {
	var stis []*coincidence.STI
	for _, t := range tieps {
		if t.Type == coincidence.Start {
			stis = append(stis, t.STI)
		}
	}
	return stis
}

func stisAsString(stis []*coincidence.STI) string {
	var b strings.Builder
	for _, sti := range stis {
		fmt.Fprintf(&b, "[%d-%d]", sti.StartTime, sti.FinishTime)
	}
	return b.String()
}

// relation returns the Allen relation symbol between sti1 and sti2, per the
// tie-break precedence of original_source/tirpclo/tirp_writing.py::__get_relation.
func relation(sti1, sti2 *coincidence.STI) string {
	switch {
	case sti1.FinishTime < sti2.StartTime:
		return "<"
	case sti1.FinishTime == sti2.StartTime:
		return "m"
	case sti1.StartTime == sti2.StartTime && sti1.FinishTime == sti2.FinishTime:
		return "="
	case sti1.StartTime < sti2.StartTime && sti1.FinishTime > sti2.FinishTime:
		return "c"
	case sti1.StartTime == sti2.StartTime && sti1.FinishTime < sti2.FinishTime:
		return "S"
	case sti1.StartTime < sti2.StartTime && sti1.FinishTime == sti2.FinishTime:
		return "f"
	default:
		return "o"
	}
}

// Close flushes and closes the output file, then writes the sorted,
// stats, and checksum companion files.
func (w *Writer) Close() (Stats, error) {
	if err := w.buf.Flush(); err != nil {
		return Stats{}, err
	}
	if err := w.out.Close(w.ctx); err != nil {
		return Stats{}, err
	}

	stats := Stats{
		RuntimeSeconds: time.Since(w.start).Seconds(),
		TIRPCount:      w.tirpCount,
	}

	sorted, err := w.writeSorted()
	if err != nil {
		return stats, err
	}
	if err := w.writeStats(stats); err != nil {
		return stats, err
	}
	if err := w.writeChecksum(sorted); err != nil {
		return stats, err
	}
	return stats, nil
}

func (w *Writer) writeSorted() ([]byte, error) {
	raw, err := os.ReadFile(w.path)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		lines = nil
	}
	sort.Strings(lines)
	sorted := strings.Join(lines, "\n")
	if len(lines) > 0 {
		sorted += "\n"
	}
	if err := os.WriteFile(w.path+"_sorted.txt", []byte(sorted), 0o644); err != nil {
		return nil, err
	}
	return []byte(sorted), nil
}

func (w *Writer) writeStats(stats Stats) error {
	content := fmt.Sprintf("%v\n%d\n", stats.RuntimeSeconds, stats.TIRPCount)
	return os.WriteFile(w.path+"_stats.txt", []byte(content), 0o644)
}

func (w *Writer) writeChecksum(sorted []byte) error {
	h := seahash.New()
	h.Write(sorted)
	digest := fmt.Sprintf("%016x\n", h.Sum64())
	return os.WriteFile(w.path+"_checksum.txt", []byte(digest), 0o644)
}
