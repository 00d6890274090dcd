// Command ransbench reports order-0 and order-1 rANS compression ratios
// for one or more files, alongside a standard DEFLATE baseline.
//
// Usage:
//
//	ransbench file...
package main

import (
	"bytes"
	"compress/flate"
	"flag"
	"fmt"
	"os"

	"github.com/ransio/rans/pkg/rans"
)

var help = flag.Bool("h", false, "display this help")

func main() {
	flag.Usage = usage
	flag.Parse()

	if *help {
		usage()
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "ransbench: no input files")
		fmt.Fprintln(os.Stderr, "Try 'ransbench -h' for more information.")
		os.Exit(1)
	}

	fmt.Printf("%-24s %10s %10s %6s %10s %6s %10s %6s\n",
		"file", "size", "order-0", "o0 %", "order-1", "o1 %", "deflate", "fl %")
	fmt.Println("------------------------------------------------------------------------------------------")

	for _, path := range flag.Args() {
		if err := report(path); err != nil {
			fmt.Fprintf(os.Stderr, "ransbench: %s: %v\n", path, err)
		}
	}
}

func report(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		fmt.Printf("%-24s %10d %s\n", path, 0, "(empty, skipped)")
		return nil
	}

	o0, err := rans.Compress(data, 0)
	if err != nil {
		return fmt.Errorf("order-0: %w", err)
	}
	o1, err := rans.Compress(data, 1)
	if err != nil {
		return fmt.Errorf("order-1: %w", err)
	}
	fl, err := deflate(data)
	if err != nil {
		return fmt.Errorf("deflate: %w", err)
	}

	fmt.Printf("%-24s %10d %10d %5.0f%% %10d %5.0f%% %10d %5.0f%%\n",
		path, len(data),
		len(o0), ratio(len(data), len(o0)),
		len(o1), ratio(len(data), len(o1)),
		len(fl), ratio(len(data), len(fl)))
	return nil
}

func ratio(origSize, compSize int) float64 {
	if origSize == 0 {
		return 0
	}
	r := 100 - float64(compSize)*100/float64(origSize)
	if r < 0 {
		r = 0
	}
	return r
}

func deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: ransbench file...

Report order-0 and order-1 rANS compression ratios for each file,
alongside a standard DEFLATE baseline for comparison.

Options:
  -h        display this help

`)
}
