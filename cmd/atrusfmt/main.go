// Command atrusfmt is a small demo driver for the atrus library: it reads
// Markdown from stdin or a file, parses it, and writes JSON or HTML to
// stdout or a file.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/renameio"

	"github.com/sinclairtarget/atrus"
)

func main() {
	var (
		outPath   string
		format    string
		whitespace string
		pre       bool
	)

	flag.StringVar(&outPath, "o", "", "write output to this file instead of stdout")
	flag.StringVar(&format, "format", "html", "output format: html or json")
	flag.StringVar(&whitespace, "whitespace", "indent_2", "json whitespace: minified, indent_2, indent_4 (only with -format json)")
	flag.BoolVar(&pre, "pre", false, "skip post-processing (leaves the tree pre-PostProcess)")
	flag.Parse()

	log.SetFlags(0)

	in := os.Stdin
	if path := flag.Arg(0); path != "" {
		f, err := os.Open(path)
		if err != nil {
			log.Fatalf("open input: %v", err)
		}
		defer f.Close()
		in = f
	}

	src, err := io.ReadAll(in)
	if err != nil {
		log.Fatalf("read input: %v", err)
	}

	level := atrus.ParseLevelPost
	if pre {
		level = atrus.ParseLevelPre
	}

	root, err := atrus.Parse(src, atrus.Options{ParseLevel: level})
	if err != nil {
		log.Fatalf("parse: %v", err)
	}

	var out []byte
	switch format {
	case "json":
		ws, err := parseWhitespace(whitespace)
		if err != nil {
			log.Fatalf("%v", err)
		}
		out, err = atrus.RenderJSON(root, ws)
		if err != nil {
			log.Fatalf("render json: %v", err)
		}
	case "html":
		out, err = atrus.RenderHTML(root)
		if err != nil {
			log.Fatalf("render html: %v", err)
		}
	default:
		log.Fatalf("unknown -format %q (want html or json)", format)
	}

	if err := writeOutput(outPath, out); err != nil {
		log.Fatalf("write output: %v", err)
	}
}

func parseWhitespace(s string) (atrus.Whitespace, error) {
	switch s {
	case "minified":
		return atrus.Minified, nil
	case "indent_2":
		return atrus.Indent2, nil
	case "indent_4":
		return atrus.Indent4, nil
	default:
		return 0, fmt.Errorf("unknown -whitespace %q (want minified, indent_2, or indent_4)", s)
	}
}

// writeOutput mirrors cmd/poc's renameio.TempFile commit-on-close pattern
// for replacing an output file atomically; writing to stdout needs none of
// that.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}

	pf, err := renameio.TempFile("", path)
	if err != nil {
		return err
	}
	defer pf.Cleanup()

	if _, err := pf.Write(data); err != nil {
		return err
	}
	return pf.CloseAtomicallyReplace()
}
