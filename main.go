// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/beevik/mini6502/asm"
	"github.com/beevik/mini6502/cpu"
	"github.com/beevik/mini6502/disasm"
	"github.com/beevik/mini6502/host"
	"github.com/beevik/term"
	"github.com/sirupsen/logrus"
	"github.com/tebeka/atexit"
)

var (
	assemble string
	run      string
	save     bool
	verbose  bool
)

func init() {
	flag.StringVar(&assemble, "a", "", "assemble file")
	flag.StringVar(&run, "r", "", "assemble and run file")
	flag.BoolVar(&save, "o", false, "with -a, save binary and source map files")
	flag.BoolVar(&verbose, "v", false, "verbose assembly listing and execution trace")
	flag.CommandLine.Usage = func() {
		fmt.Println("Usage: mini6502 [script] ..\nOptions:")
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	// Do command-line assemble if requested.
	if assemble != "" {
		h := host.New()
		if err := h.AssembleFile(assemble, verbose); err != nil {
			fmt.Printf("Failed to assemble file '%s'.\n", assemble)
			atexit.Exit(1)
		}
		if save {
			if err := h.SaveFiles(); err != nil {
				atexit.Exit(1)
			}
		}
		atexit.Exit(0)
	}

	// Do command-line assemble and run if requested.
	if run != "" {
		if err := assembleAndRun(run); err != nil {
			exitOnError(err)
		}
		atexit.Exit(0)
	}

	h := host.New()

	// Run commands contained in command-line files.
	args := flag.Args()
	if len(args) > 0 {
		for _, filename := range args {
			file, err := os.Open(filename)
			if err != nil {
				exitOnError(err)
			}
			h.RunCommands(file, os.Stdout, false)
			file.Close()
		}
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		if len(args) == 0 {
			h.RunCommands(os.Stdin, os.Stdout, false)
		}
		atexit.Exit(0)
	}

	// Break on Ctrl-C.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go handleInterrupt(h, c)

	// Run commands interactively.
	h.RunCommands(os.Stdin, os.Stdout, true)
	atexit.Exit(0)
}

func assembleAndRun(filename string) error {
	var options asm.Option
	if verbose {
		options |= asm.Verbose
	}

	mem := cpu.NewImage()
	if _, err := asm.AssembleFile(filename, mem, os.Stdout, options); err != nil {
		return err
	}

	c := cpu.NewCPU(mem)
	err := c.Run()

	fmt.Println(disasm.GetRegisterString(&c.Reg))
	fmt.Printf("Cycles=%d Budget=%d State=%v\n", c.Cycles, mem.Budget, c.State)
	return err
}

func handleInterrupt(h *host.Host, c chan os.Signal) {
	for {
		<-c
		h.Break()
	}
}

func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	atexit.Exit(1)
}
