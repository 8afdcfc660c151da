package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/ezrec/koala/asm"
	"github.com/ezrec/koala/config"
	"github.com/ezrec/koala/image"
	"github.com/ezrec/koala/sim"
)

// configPath finds the -config argument ahead of flag parsing, so that
// the remaining flags can override the file.
func configPath(args []string) (path string) {
	for n, arg := range args {
		arg = strings.TrimPrefix(arg, "-")
		switch {
		case arg == "-config" || arg == "config":
			if n+1 < len(args) {
				path = args[n+1]
			}
		case strings.HasPrefix(arg, "config="):
			path = strings.TrimPrefix(arg, "config=")
		case strings.HasPrefix(arg, "-config="):
			path = strings.TrimPrefix(arg, "-config=")
		}
	}
	return
}

func main() {
	cfg := config.Default()

	cfgPath := configPath(os.Args[1:])
	if len(cfgPath) != 0 {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			log.Fatalf("%v: %v", cfgPath, err)
		}
	}

	flag.String("config", cfgPath, "koala.toml run configuration")
	cfg.Bind(flag.CommandLine)

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	var prog *asm.Program

	switch {
	case len(cfg.Source) != 0:
		// Compile a new program.
		inf, err := os.Open(cfg.Source)
		if err != nil {
			log.Fatalf("%v: %v", cfg.Source, err)
		}
		defer inf.Close()

		assembler := &asm.Assembler{Verbose: cfg.Verbose}
		for name, value := range cfg.Define {
			assembler.Predefine(name, value)
		}
		prog, err = assembler.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", cfg.Source, err)
		}
	case len(cfg.Image) != 0:
		inf, err := os.Open(cfg.Image)
		if err != nil {
			log.Fatalf("%v: %v", cfg.Image, err)
		}
		defer inf.Close()

		prog, err = image.ReadProgram(inf)
		if err != nil {
			log.Fatalf("%v: %v", cfg.Image, err)
		}
	default:
		log.Fatalf("%v: one of -c or -i is required", os.Args[0])
	}

	if len(cfg.Output) != 0 {
		ouf, err := os.Create(cfg.Output)
		if err != nil {
			log.Fatalf("%v: %v", cfg.Output, err)
		}
		err = image.WriteProgram(ouf, prog)
		if err == nil {
			err = ouf.Close()
		}
		if err != nil {
			log.Fatalf("%v: %v", cfg.Output, err)
		}
	}

	if cfg.Listing {
		err := prog.Listing(os.Stdout)
		if err != nil {
			log.Fatal(err)
		}
	}

	s := sim.New(prog)
	s.Verbose = cfg.Verbose
	s.Machine.Workers = cfg.Workers

	s.Run(cfg.Steps)

	if cfg.Dump {
		err := s.Dump(os.Stdout)
		if err != nil {
			log.Fatal(err)
		}
	}

	if len(cfg.Snapshot) != 0 {
		ouf, err := os.Create(cfg.Snapshot)
		if err != nil {
			log.Fatalf("%v: %v", cfg.Snapshot, err)
		}
		err = image.WriteSnapshot(ouf, s.Snapshot())
		if err == nil {
			err = ouf.Close()
		}
		if err != nil {
			log.Fatalf("%v: %v", cfg.Snapshot, err)
		}
	}
}
