package compiler

import (
	"baguette/internal/config"
	"baguette/pkg/color"
	"baguette/pkg/parser/codegen"
	"baguette/pkg/store"
	"baguette/pkg/vm"
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

const latestSnapshot = "latest"

type Compiler struct {
	Help         bool   // Show help message
	Verbose      bool   // Enable verbose output
	NoColor      bool   // Disable colored output
	CompileOnly  bool   // Stop after generating intermediate code
	IsProgram    bool   // Input is intermediate code, not source
	Function     string // Function to run (manifest entry or main when empty)
	EnvFile      string // YAML or TOML environment-variable file
	StateDB      string // SQLite database holding env vars and paused runs
	ManifestFile string // Path to baguette.toml (searched upwards when empty)
	Resume       string // Snapshot ID to resume, or "latest"
	SourceFile   string // Path to the source file
	OutputFile   string // Path to the output file

	In  io.Reader // answers to paused runs, os.Stdin when nil
	Out io.Writer // program output, os.Stdout when nil

	manifest *config.Manifest
}

// Compile reads the input file, generates intermediate code, and either writes it
// out or runs it on the VM.
func (opts *Compiler) Compile() error {
	log.Info("Processing file", "file", opts.SourceFile)

	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	if err := opts.loadManifest(); err != nil {
		return err
	}

	input, err := os.ReadFile(opts.SourceFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", opts.SourceFile, err)
	}

	text := string(input)
	if !opts.IsProgram {
		text, err = opts.generate(text)
		if err != nil {
			return err
		}
	}

	program, err := vm.LoadProgram(text)
	if err != nil {
		return fmt.Errorf("loading program failed: %w", err)
	}

	if opts.Verbose {
		opts.printListing(program)
	}

	if opts.CompileOnly {
		return opts.writeProgram(program)
	}

	return opts.run(program)
}

func (opts *Compiler) loadManifest() error {
	var err error
	if opts.ManifestFile != "" {
		opts.manifest, err = config.LoadFile(opts.ManifestFile)
	} else {
		opts.manifest, err = config.FindAndLoad(".")
	}
	if err != nil {
		return err
	}

	if opts.manifest == nil {
		opts.manifest = &config.Manifest{Run: config.Run{Entry: "main"}}
	} else {
		log.Debug("Loaded manifest", "dir", opts.manifest.Dir)
	}

	if opts.Function == "" {
		opts.Function = opts.manifest.Run.Entry
	}
	if opts.EnvFile == "" {
		opts.EnvFile = opts.manifest.EnvFilePath()
	}
	if opts.StateDB == "" {
		opts.StateDB = opts.manifest.StateDBPath()
	}

	return nil
}

// generate compiles source text, printing diagnostics on failure
func (opts *Compiler) generate(source string) (string, error) {
	gen := codegen.New(source)

	text, err := gen.GenerateIntermediateCode()
	if err == nil {
		return text, nil
	}

	lines := strings.Split(source, "\n")
	sourceLine := func(line int) string {
		if line < 1 || line > len(lines) {
			return ""
		}
		return strings.TrimRight(lines[line-1], "\r")
	}

	if errors.Is(err, codegen.ErrSyntax) {
		syntaxErrors := gen.SyntaxErrors()
		fmt.Fprintln(opts.Out, color.BrightRedText("=== Syntax Errors ==="))
		for _, e := range syntaxErrors {
			fmt.Fprintln(opts.Out, color.ErrorWithPosition(e.Pos.Line, e.Pos.Column, e.Msg, sourceLine(e.Pos.Line)))
		}
		return "", fmt.Errorf("parsing failed with %d errors: %w", len(syntaxErrors), err)
	}

	var cerr *codegen.Error
	if errors.As(err, &cerr) {
		fmt.Fprintln(opts.Out, color.BrightRedText("=== Compilation Errors ==="))
		fmt.Fprintln(opts.Out, color.ErrorWithPosition(cerr.Pos.Line, cerr.Pos.Column, cerr.Error(), sourceLine(cerr.Pos.Line)))
	}

	return "", fmt.Errorf("code generation failed: %w", err)
}

func (opts *Compiler) printListing(program *vm.Program) {
	fmt.Fprintln(opts.Out, color.GreenText("=== Intermediate Code ==="))
	if len(program.Instructions) == 0 {
		fmt.Fprintln(opts.Out, color.GrayText("No code generated."))
		return
	}

	for i, in := range program.Instructions {
		fmt.Fprintf(opts.Out, "%s: %s %s\n",
			color.CyanText(fmt.Sprintf("%d", i)),
			color.YellowText(string(in.Op)),
			color.BlueText(in.Operand))
	}
}

func (opts *Compiler) writeProgram(program *vm.Program) error {
	if opts.OutputFile == "" {
		_, err := io.WriteString(opts.Out, program.Text())
		return err
	}

	if err := os.WriteFile(opts.OutputFile, []byte(program.Text()), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.OutputFile, err)
	}
	log.Info("Wrote program", "file", opts.OutputFile, "instructions", len(program.Instructions))

	return nil
}

// hostFuncs returns the built-in environment functions. game.wait always
// pauses; any other function pauses when the manifest lists it.
func (opts *Compiler) hostFuncs() vm.HostFuncs {
	funcs := vm.HostFuncs{
		"print": vm.Func1(func(v vm.Value) vm.Value {
			fmt.Fprintln(opts.Out, v.String())
			return vm.Undefined
		}),
		"wait": vm.Func1(func(v vm.Value) vm.Value {
			fmt.Fprintf(opts.Out, "%s %s\n", color.YellowText("?"), v.String())
			return vm.Undefined
		}).Pausing(),
	}

	for name, fn := range funcs {
		if opts.manifest.Pauses(name) {
			funcs[name] = fn.Pausing()
		}
	}

	return funcs
}

func (opts *Compiler) run(program *vm.Program) error {
	ctx := context.Background()

	env := vm.Env{}
	if opts.EnvFile != "" {
		loaded, err := config.LoadEnvFile(opts.EnvFile)
		if err != nil {
			return err
		}
		env = loaded
	}

	var st *store.Store
	if opts.StateDB != "" {
		var err error
		if st, err = store.Open(opts.StateDB); err != nil {
			return err
		}
		defer st.Close()
		log.Debug("Opened state database", "path", st.Path())

		saved, err := st.LoadEnv(ctx)
		if err != nil {
			return err
		}
		if err := env.Merge(saved); err != nil {
			return fmt.Errorf("merging saved state: %w", err)
		}
	}

	m := vm.NewFromProgram(program, env, opts.hostFuncs(),
		vm.WithMaxSteps(opts.manifest.Run.MaxSteps),
		vm.WithLogger(log.Default()))

	fmt.Fprintln(opts.Out, color.GreenText("=== Program Output ==="))

	var err error
	if opts.Resume != "" {
		err = opts.restore(ctx, st, m)
	} else {
		_, err = m.RunFunction(opts.Function)
	}

	input := bufio.NewScanner(opts.In)
	for errors.Is(err, vm.ErrPaused) {
		if !input.Scan() {
			return opts.suspend(ctx, st, m)
		}
		_, err = m.Continue(vm.ParseLiteral(input.Text()))
	}
	if err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}

	fmt.Fprintf(opts.Out, "%s %s\n", color.GreenText("Result:"), m.Result().String())

	if st != nil {
		if err := st.SaveEnv(ctx, m.Env()); err != nil {
			return err
		}
	}

	return nil
}

// restore loads a saved snapshot into m and leaves it paused
func (opts *Compiler) restore(ctx context.Context, st *store.Store, m *vm.VM) error {
	if st == nil {
		return errors.New("resuming requires a state database")
	}

	id := opts.Resume
	if id == latestSnapshot {
		var err error
		if id, err = st.LatestSnapshot(ctx, m.Program().Fingerprint); err != nil {
			return err
		}
	}

	snap, err := st.LoadSnapshot(ctx, id)
	if err != nil {
		return err
	}
	if err := m.Restore(snap); err != nil {
		return err
	}
	if err := st.DeleteSnapshot(ctx, id); err != nil {
		return err
	}

	log.Info("Resumed paused run", "id", id, "function", snap.Entry)

	return vm.ErrPaused
}

// suspend saves a paused run when input runs out
func (opts *Compiler) suspend(ctx context.Context, st *store.Store, m *vm.VM) error {
	if st == nil {
		return errors.New("input closed while the program was paused")
	}

	id, err := st.SaveSnapshot(ctx, m.Snapshot())
	if err != nil {
		return err
	}
	if err := st.SaveEnv(ctx, m.Env()); err != nil {
		return err
	}

	fmt.Fprintf(opts.Out, "%s %s\n", color.YellowText("Paused:"), id)

	return nil
}
