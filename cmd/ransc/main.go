// Command ransc compresses or decompresses a single file as one rANS
// block.
//
// Usage:
//
//	ransc [-0|-1] [-d] [-q] [-o out] file
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ransio/rans/pkg/rans"
)

var (
	order0  = flag.Bool("0", true, "order-0 (single byte histogram) modelling")
	order1  = flag.Bool("1", false, "order-1 (previous-byte-conditioned) modelling")
	decode  = flag.Bool("d", false, "decompress instead of compress")
	quiet   = flag.Bool("q", false, "quiet operation")
	outPath = flag.String("o", "", "output path (default: stdout)")
	help    = flag.Bool("h", false, "display this help")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if *help {
		usage()
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "ransc: expected exactly one input file")
		fmt.Fprintln(os.Stderr, "Try 'ransc -h' for more information.")
		os.Exit(1)
	}

	inputPath := flag.Arg(0)
	input, err := os.ReadFile(inputPath)
	if err != nil {
		fatal("cannot read '%s': %v", inputPath, err)
	}

	var output []byte
	start := time.Now()
	if *decode {
		output, err = rans.Decompress(input)
		if err != nil {
			fatal("decompression failed: %v", err)
		}
	} else {
		output, err = rans.Compress(input, resolveOrder(*order1))
		if err != nil {
			fatal("compression failed: %v", err)
		}
	}
	elapsed := time.Since(start)

	if !*quiet {
		fmt.Fprintf(os.Stderr, "%s: %s %d bytes -> %d bytes in %v\n",
			strings.TrimSuffix(inputPath, "/"), actionLabel(*decode), len(input), len(output),
			elapsed.Round(time.Microsecond))
	}

	if *outPath == "" {
		os.Stdout.Write(output)
		return
	}
	if err := os.WriteFile(*outPath, output, 0644); err != nil {
		fatal("cannot write '%s': %v", *outPath, err)
	}
}

func resolveOrder(order1 bool) int {
	if order1 {
		return 1
	}
	return 0
}

func actionLabel(decode bool) string {
	if decode {
		return "decompress"
	}
	return "compress"
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: ransc [-0|-1] [-d] [-q] [-o out] file

Compress (or, with -d, decompress) one file as a single rANS block.

Options:
  -0        order-0 modelling (default)
  -1        order-1 modelling (falls back to order-0 under 4 bytes)
  -d        decompress instead of compress
  -q        quiet operation (suppress the size/timing summary)
  -o out    write output to out instead of stdout
  -h        display this help

Examples:
  ransc -1 -o out.rans report.log     Compress with order-1 modelling
  ransc -d -o report.log out.rans     Decompress back to the original
`)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "ransc: "+format+"\n", args...)
	os.Exit(1)
}
