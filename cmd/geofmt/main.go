package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/mastools/geocsv/internal/decode"
	"github.com/mastools/geocsv/internal/format"
)

type Options struct {
	Kind bool `short:"k" long:"kind" description:"Also decode the value and print its geometry kind"`

	Args struct {
		Values []string `positional-arg-name:"value" description:"Geometry strings to classify. Reads lines from stdin if empty"`
	} `positional-args:"yes"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	values := opts.Args.Values
	if len(values) == 0 {
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
		for scanner.Scan() {
			values = append(values, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
			os.Exit(1)
		}
	}

	exit := 0
	for _, value := range values {
		f := format.Detect(value)
		if f == format.Unknown {
			exit = 1
		}

		if !opts.Kind {
			fmt.Println(f)
			continue
		}

		kind := "-"
		if f != format.Unknown {
			if res, err := decode.Decode(value, f); err == nil {
				kind = string(res.Kind)
			} else {
				exit = 1
			}
		}
		fmt.Printf("%s\t%s\n", f, kind)
	}

	os.Exit(exit)
}
