// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/ezrec/regvm/emulator"
	"github.com/ezrec/regvm/image"
	"github.com/ezrec/regvm/io"
	"github.com/ezrec/regvm/memory"
)

// window is a memory range to dump after the run.
type window struct {
	addr  uint32
	count int
	set   bool
}

// Set parses ADDR[:COUNT].
func (win *window) Set(text string) (err error) {
	addr, count, found := strings.Cut(text, ":")

	value, err := strconv.ParseUint(addr, 0, 32)
	if err != nil {
		return
	}
	win.addr = uint32(value)
	win.count = 64

	if found {
		win.count, err = strconv.Atoi(count)
		if err != nil {
			return
		}
	}

	win.set = true
	return
}

func (win *window) String() string {
	if !win.set {
		return ""
	}
	return fmt.Sprintf("0x%x:%d", win.addr, win.count)
}

func main() {
	var size uint
	var binary string
	var script string
	var origin uint
	var input string
	var save string
	var dump window
	var verbose bool

	flag.UintVar(&size, "m", memory.DEFAULT_SIZE, "Memory size, in bytes")
	flag.StringVar(&binary, "b", "", "Raw little-endian binary image to load")
	flag.StringVar(&script, "s", "", "Starlark image script to load")
	flag.UintVar(&origin, "o", emulator.DEFAULT_ORIGIN, "Load origin for binary images")
	flag.StringVar(&input, "i", "-", "Input for INPUT and GETC")
	flag.StringVar(&save, "w", "", "Write the image as a raw binary, do not execute")
	flag.Var(&dump, "t", "Dump memory ADDR[:COUNT] after the run")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(binary) != 0 && len(script) != 0 {
		log.Fatalf("%v: -b and -s are exclusive", os.Args[0])
	}

	emu := emulator.NewEmulator(size)
	emu.Verbose = verbose

	var img *image.Image
	switch {
	case len(binary) != 0:
		inf, err := os.Open(binary)
		if err != nil {
			log.Fatalf("%v: %v", binary, err)
		}
		img, err = image.ReadBinary(inf, uint32(origin))
		inf.Close()
		if err != nil {
			log.Fatalf("%v: %v", binary, err)
		}
	case len(script) != 0:
		var err error
		img, err = emu.Script().Parse(script, nil)
		if err != nil {
			log.Fatalf("%v: %v", script, err)
		}
	default:
		img = image.Demo()
	}

	if verbose {
		log.Printf("image:\n%v", img)
	}

	if len(save) != 0 {
		ouf, err := os.Create(save)
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		err = img.WriteBinary(ouf)
		if err == nil {
			err = ouf.Close()
		}
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		return
	}

	if input == "-" {
		// Single keystroke GETC when stdin is a terminal.
		emu.Cpu.Channel = io.NewTerminal(os.Stdin, os.Stdout)
	} else {
		inf, err := os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()
		emu.Tape.Input = inf
		emu.Tape.Output = os.Stdout
		emu.Cpu.Channel = &emu.Tape
	}

	err := emu.Load(img)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = emu.Run(ctx)

	fmt.Print(emu.Cpu.String())
	if dump.set {
		werr := emu.WriteMemory(os.Stdout, dump.addr, dump.count)
		if werr != nil {
			log.Printf("%v: %v", os.Args[0], werr)
		}
	}

	if err != nil {
		stop()
		log.Fatalf("%v: %v", os.Args[0], emu.Summary(err))
	}

	fmt.Println(emu.Summary(err))
}
