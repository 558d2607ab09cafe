package main

import (
	"baguette/internal/compiler"
	"baguette/internal/logger"
	"baguette/pkg/color"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

// Main entry point for the baguette script compiler and VM.
func main() {
	options := compiler.Compiler{}

	flag.BoolVar(&options.Help, "h", false, "Show help")
	flag.BoolVar(&options.Verbose, "v", false, "Verbose mode")
	flag.BoolVar(&options.NoColor, "n", false, "No color")
	flag.BoolVar(&options.CompileOnly, "c", false, "Compile to intermediate code only")
	flag.BoolVar(&options.IsProgram, "i", false, "Input is intermediate code")
	flag.StringVar(&options.OutputFile, "o", "", "Output file for compiled intermediate code")
	flag.StringVar(&options.Function, "f", "", "Function to run (default main)")
	flag.StringVar(&options.EnvFile, "e", "", "Environment variables file (.yaml, .yml, .toml)")
	flag.StringVar(&options.StateDB, "s", "", "SQLite state database")
	flag.StringVar(&options.ManifestFile, "m", "", "Manifest file (default: nearest baguette.toml)")
	flag.StringVar(&options.Resume, "r", "", "Resume a paused run by snapshot ID, or \"latest\"")

	flag.Parse()
	args := flag.Args()

	logger.Init(options.Verbose, options.NoColor)
	if options.Help {
		fmt.Printf("Usage: %s [options] <file>\n", os.Args[0])
		fmt.Println("Options:")
		flag.PrintDefaults()
		return
	}

	if options.NoColor {
		color.EnableColor(false)
	}

	if len(args) == 0 {
		log.Fatal("No input file provided", "help", fmt.Sprintf("%s -h", os.Args[0]))
	}

	options.SourceFile = args[0]

	if err := options.Compile(); err != nil {
		log.Fatal("Compilation failed", "error", err)
	}
}
