// tirpclo discovers Time-Interval Relation Patterns from a database of
// entities described by symbolic time intervals.
//
// Usage: tirpclo -c=<bool> -n=<num_entities> -s=<min_support_pct> -g=<max_gap> -f=<input> [output]
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"

	"github.com/tirpclo/tirpclo/miner"
	"github.com/tirpclo/tirpclo/seqbuild"
	"github.com/tirpclo/tirpclo/tiepindex"
	"github.com/tirpclo/tirpclo/tirpio"
)

var (
	closedFlag      = flag.Bool("c", false, "mine only closed TIRPs")
	numEntitiesFlag = flag.Int("n", 0, "number of entities in the input file")
	minSupportFlag  = flag.Float64("s", 0, "minimum support percentage, in (0,1]")
	maxGapFlag      = flag.Int("g", 0, "maximal gap, in time units, between consecutive starts")
	inFileFlag      = flag.String("f", "", "input file path")
)

// usageError signals a bad flag or argument combination, distinct from a
// runtime failure: it is reported via flag.Usage and os.Exit(2) rather than
// log.Panicf.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func main() {
	flag.Usage = func() {
		os.Stderr.WriteString(`Usage: tirpclo -c=<bool> -n=<int> -s=<float> -g=<int> -f=<path> [output-path]

Discovers Time-Interval Relation Patterns (TIRPs) from the entities
described in the input file.

  -c  mine only closed TIRPs
  -n  number of entities in the input file
  -s  minimum support percentage, in (0,1]
  -g  maximal gap, in time units, between consecutive pattern starts
  -f  input file path

If output-path is omitted, it defaults to
"<input-without-ext>-support-<s>-gap-<g>.txt".
`)
		flag.PrintDefaults()
	}
	shutdown := grail.Init()
	defer shutdown()

	outPath, err := validateFlags(flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	ctx := vcontext.Background()
	run(ctx, outPath)
}

func validateFlags(args []string) (string, error) {
	if *inFileFlag == "" {
		return "", &usageError{"-f is required"}
	}
	if *numEntitiesFlag <= 0 {
		return "", &usageError{"-n must be a positive integer"}
	}
	if *minSupportFlag <= 0 || *minSupportFlag > 1 {
		return "", &usageError{"-s must be in (0,1]"}
	}
	if *maxGapFlag < 0 {
		return "", &usageError{"-g must be >= 0"}
	}
	if len(args) > 1 {
		return "", &usageError{"at most one positional output path is allowed"}
	}

	if len(args) == 1 {
		return args[0], nil
	}
	return defaultOutputPath(*inFileFlag, *minSupportFlag, *maxGapFlag), nil
}

func defaultOutputPath(inPath string, minSupportPct float64, maxGap int) string {
	base := strings.TrimSuffix(inPath, filepathExt(inPath))
	return fmt.Sprintf("%s-support-%v-gap-%d.txt", base, minSupportPct, maxGap)
}

func filepathExt(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 && i > strings.LastIndex(path, "/") {
		return path[i:]
	}
	return ""
}

func run(ctx context.Context, outPath string) {
	entities, err := tirpio.ReadEntities(ctx, *inFileFlag)
	if err != nil {
		log.Panicf("read %v: %v", *inFileFlag, err)
	}

	index := tiepindex.New()
	initialDB := seqbuild.Build(entities, index)

	minSupport := int(math.Ceil(float64(*numEntitiesFlag) * *minSupportFlag))

	writer, err := tirpio.OpenOutput(ctx, outPath)
	if err != nil {
		log.Panicf("open %v: %v", outPath, err)
	}

	miner.DiscoverTirps(index, initialDB, minSupport, *maxGapFlag, writer, *closedFlag)

	stats, err := writer.Close()
	if err != nil {
		log.Panicf("close %v: %v", outPath, err)
	}
	log.Printf("wrote %d TIRPs to %v in %.3fs", stats.TIRPCount, outPath, stats.RuntimeSeconds)
}
