// Command finescript is a minimal standalone runner for the scripting
// core: pick one of -eval/-file and run it against a fresh engine,
// optionally with call tracing turned on.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/theosib/FineStructureScript/builtins/hash"
	"github.com/theosib/FineStructureScript/engine"
	"github.com/theosib/FineStructureScript/trace"
	"github.com/theosib/FineStructureScript/types"
)

func main() {
	evalSrc := flag.String("eval", "", "evaluate a finescript expression/statement and print its result")
	file := flag.String("file", "", "run a finescript source file")
	doTrace := flag.Bool("trace", false, "log every closure call to stderr")
	traceFilter := flag.String("trace-filter", "*", "glob pattern restricting -trace output to matching callable names")
	flag.Parse()

	if *evalSrc == "" && *file == "" {
		log.Fatal("finescript: one of -eval or -file is required")
	}

	e := engine.New()
	hash.Register(e)

	if *doTrace {
		e.SetTracer(&trace.Tracer{Out: os.Stderr, Filter: *traceFilter})
	}

	ctx := e.NewContext()

	var result types.Value
	var err error
	if *evalSrc != "" {
		result, err = e.ExecuteCommand([]byte(*evalSrc), ctx)
	} else {
		result, err = e.ExecuteFile(*file, ctx)
	}
	if err != nil {
		log.Fatalf("finescript: %v", err)
	}
	if result != nil {
		fmt.Println(result.String())
	}
}
