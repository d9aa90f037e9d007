package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"emberscript/engine"
	"emberscript/runtime"
)

const exampleSource = `function mk(x) { return function(y) { return x + y; }; }
let add5 = mk(5);
add5(3)`

func main() {
	source := exampleSource
	if len(os.Args) > 1 {
		data, err := os.ReadFile(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "error reading %s: %v\n", os.Args[1], err)
			os.Exit(1)
		}
		source = string(data)
	}

	debug := os.Getenv("EMBERSCRIPT_DEBUG") != ""

	color.Cyan("emberscript")
	fmt.Println(source)

	var opts []engine.Option
	if debug {
		opts = append(opts, engine.WithTrace(func(pc int, instr runtime.Instruction, stack []runtime.Value) {
			fmt.Fprintf(os.Stderr, "%04d %s\n", pc, instr.Op)
		}))
	}

	eng := engine.New(opts...)
	result, err := eng.Eval(source)
	if err != nil {
		color.Red("%s", err)
		os.Exit(1)
	}
	color.Green("=> %s", runtime.Pretty(result))
}
