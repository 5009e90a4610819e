package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/OguzhanUmutlu/helium/helium"
)

// errReported marks a failure whose diagnostic was already written to stderr.
var errReported = errors.New("error reported")

func main() {
	err := runCLI(os.Args)
	if err == nil {
		return
	}
	if code, ok := helium.IsExit(err); ok {
		os.Exit(code)
	}
	if !errors.Is(err, errReported) {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(1)
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "run":
		return runCommand(args[2:])
	case "tokens":
		return tokensCommand(args[2:])
	case "tree":
		return treeCommand(args[2:])
	case "repl":
		return replCommand(args[2:])
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

// sessionFlags are the settings shared by run and repl. Values set on the
// command line win over the config file.
type sessionFlags struct {
	configPath     string
	color          string
	recursionLimit int
	logLevel       string
	logFile        string
}

func (s *sessionFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&s.configPath, "config", "", "read settings from a YAML file")
	fs.StringVar(&s.color, "color", "", "colorize output: auto, always or never")
	fs.IntVar(&s.recursionLimit, "recursion-limit", 0, "maximum user function call depth")
	fs.StringVar(&s.logLevel, "log-level", "", "log level: debug, info, warn or error")
	fs.StringVar(&s.logFile, "log-file", "", "also write JSON logs to this file")
}

func (s *sessionFlags) resolve(fs *flag.FlagSet) (cliConfig, error) {
	cfg := defaultConfig()
	if s.configPath != "" {
		loaded, err := loadConfig(s.configPath)
		if err != nil {
			return cliConfig{}, err
		}
		cfg = loaded
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "color":
			cfg.Color = s.color
		case "recursion-limit":
			cfg.RecursionLimit = s.recursionLimit
		case "log-level":
			cfg.Log.Level = s.logLevel
		case "log-file":
			cfg.Log.File = s.logFile
		}
	})
	if err := cfg.validate(); err != nil {
		return cliConfig{}, err
	}
	return cfg, nil
}

// session is the engine plus the presentation settings of one invocation.
type session struct {
	engine *helium.Engine
	theme  *theme
	close  func() error
}

func openSession(cfg cliConfig) (*session, error) {
	level, err := parseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger, closeLog, err := newLogger(level, os.Stderr, cfg.Log.File)
	if err != nil {
		return nil, err
	}
	th := newTheme(os.Stdout, useColor(cfg.Color, os.Stdout))
	engine, err := helium.NewEngine(helium.Config{
		Stdout:         os.Stdout,
		Palette:        th.palette(),
		RecursionLimit: cfg.RecursionLimit,
		Logger:         logger,
	})
	if err != nil {
		_ = closeLog()
		return nil, err
	}
	return &session{engine: engine, theme: th, close: closeLog}, nil
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	var sf sessionFlags
	sf.register(fs)
	checkOnly := fs.Bool("check", false, "only compile the script without executing")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("helium run: script path required")
	}
	cfg, err := sf.resolve(fs)
	if err != nil {
		return err
	}
	source, err := readScript(fs.Arg(0))
	if err != nil {
		return err
	}
	sess, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer sess.close()

	stderrTheme := newTheme(os.Stderr, useColor(cfg.Color, os.Stderr))
	script, err := sess.engine.Compile(source)
	if err != nil {
		stderrTheme.renderError(os.Stderr, err)
		return errReported
	}
	if *checkOnly {
		return nil
	}
	if _, err := script.Run(context.Background(), nil); err != nil {
		if code, ok := helium.IsExit(err); ok {
			if code == 0 {
				return nil
			}
			return err
		}
		stderrTheme.renderError(os.Stderr, err)
		return errReported
	}
	return nil
}

func replCommand(args []string) error {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	var sf sessionFlags
	sf.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := sf.resolve(fs)
	if err != nil {
		return err
	}
	return runREPL(cfg)
}

func readScript(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve script path: %w", err)
	}
	input, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("read script: %w", err)
	}
	return string(input), nil
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  %s run [flags] <script>\n", prog)
	fmt.Fprintf(os.Stderr, "  %s tokens <script>\n", prog)
	fmt.Fprintf(os.Stderr, "  %s tree [-format text|yaml] <script>\n", prog)
	fmt.Fprintf(os.Stderr, "  %s repl [flags]\n", prog)
	fmt.Fprintln(os.Stderr, "Flags:")
	fmt.Fprintln(os.Stderr, "  -config <file>")
	fmt.Fprintln(os.Stderr, "    read settings from a YAML file")
	fmt.Fprintln(os.Stderr, "  -color auto|always|never")
	fmt.Fprintln(os.Stderr, "    colorize printed values and diagnostics (default auto)")
	fmt.Fprintln(os.Stderr, "  -recursion-limit n")
	fmt.Fprintln(os.Stderr, "    maximum user function call depth (default 256)")
	fmt.Fprintln(os.Stderr, "  -log-level debug|info|warn|error")
	fmt.Fprintln(os.Stderr, "  -log-file <path>")
	fmt.Fprintln(os.Stderr, "  -check")
	fmt.Fprintln(os.Stderr, "    only compile the script without executing (run only)")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}
