// Command generate-goldens re-records the frame hashes in
// testdata/goldens.yaml from the current renderer.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/ryanlewis/blitstr/internal/goldens"
)

var (
	file  = flag.String("file", "testdata/goldens.yaml", "Golden file to update")
	check = flag.Bool("check", false, "Compare against the recorded values instead of rewriting them")
)

func main() {
	flag.Parse()

	n, err := generate(*file, *check, os.Stdout)
	if err != nil {
		log.Fatalf("Failed to generate goldens: %v", err)
	}
	if *check && n > 0 {
		log.Printf("%d case(s) differ from %s", n, *file)
		os.Exit(1)
	}
	log.Println("Golden file generation complete")
}

// generate records every case of the golden file at path. With check set
// the file is left alone and the number of differing cases is returned.
func generate(path string, check bool, w io.Writer) (int, error) {
	f, err := goldens.Load(path)
	if err != nil {
		return 0, err
	}

	mismatches := 0
	for i := range f.Cases {
		c := &f.Cases[i]
		wantHash, wantCursor := c.Hash, fmt.Sprint(c.CursorAfter)
		if err := c.Record(f.Seed); err != nil {
			return 0, err
		}
		if c.Hash != wantHash || fmt.Sprint(c.CursorAfter) != wantCursor {
			mismatches++
			fmt.Fprintf(w, "%s: hash %s cursor %v (recorded %s %s)\n",
				c.Name, c.Hash, c.CursorAfter, wantHash, wantCursor)
		}
	}
	if check {
		return mismatches, nil
	}

	f.Generated = time.Now().UTC().Format("2006-01-02")
	f.Generator = "generate-goldens"
	var buf bytes.Buffer
	if err := goldens.Write(&buf, f); err != nil {
		return 0, fmt.Errorf("failed to encode golden file: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return 0, fmt.Errorf("failed to write golden file: %w", err)
	}
	return mismatches, nil
}
