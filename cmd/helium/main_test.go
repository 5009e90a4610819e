package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OguzhanUmutlu/helium/helium"
)

func TestRunCLIHelp(t *testing.T) {
	if err := runCLI([]string{"helium", "help"}); err != nil {
		t.Fatalf("runCLI help failed: %v", err)
	}
}

func TestRunCLIInvalidCommand(t *testing.T) {
	for _, args := range [][]string{{"helium"}, {"helium", "unknown"}} {
		err := runCLI(args)
		if err == nil || !strings.Contains(err.Error(), "invalid command") {
			t.Fatalf("expected invalid command error for %v, got %v", args, err)
		}
	}
}

func TestRunCommandPrintsOutput(t *testing.T) {
	scriptPath := writeScript(t, `name = "Ada"
function greet(who, punct = "!")
  return f"hi {who}{punct}"
end
print(greet(name), [1, "two"])`)

	out, err := captureStdout(t, func() error {
		return runCommand([]string{"-color", "never", scriptPath})
	})
	if err != nil {
		t.Fatalf("runCommand failed: %v", err)
	}
	if out != "hi Ada! [1, \"two\"]\n" {
		t.Fatalf("unexpected stdout: %q", out)
	}
}

func TestRunCommandCheckOnly(t *testing.T) {
	scriptPath := writeScript(t, `print("never")`)
	out, err := captureStdout(t, func() error {
		return runCommand([]string{"-check", scriptPath})
	})
	if err != nil {
		t.Fatalf("runCommand check failed: %v", err)
	}
	if out != "" {
		t.Fatalf("check should not execute, got %q", out)
	}
}

func TestRunCommandReportsErrors(t *testing.T) {
	for _, source := range []string{"print(1/0)", "x = (1", "print(missing)"} {
		scriptPath := writeScript(t, source)
		_, err := captureStdout(t, func() error {
			return runCommand([]string{"-color", "never", scriptPath})
		})
		if err != errReported {
			t.Fatalf("expected reported error for %q, got %v", source, err)
		}
	}
}

func TestRunCommandExitCode(t *testing.T) {
	scriptPath := writeScript(t, "print(1)\nexit(4)\nprint(2)")
	out, err := captureStdout(t, func() error {
		return runCommand([]string{scriptPath})
	})
	if code, ok := helium.IsExit(err); !ok || code != 4 {
		t.Fatalf("expected exit code 4, got %v", err)
	}
	if out != "1\n" {
		t.Fatalf("unexpected stdout: %q", out)
	}

	zero := writeScript(t, "exit(0)")
	if _, err := captureStdout(t, func() error { return runCommand([]string{zero}) }); err != nil {
		t.Fatalf("exit(0) should succeed, got %v", err)
	}
}

func TestRunCommandRequiresScriptPath(t *testing.T) {
	err := runCommand(nil)
	if err == nil || !strings.Contains(err.Error(), "script path required") {
		t.Fatalf("expected script path error, got %v", err)
	}
}

func TestRunCommandRecursionLimitFlagOverridesConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "helium.yaml")
	if err := os.WriteFile(configPath, []byte("color: never\nrecursion_limit: 2\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	scriptPath := writeScript(t, `function a() return b() end
function b() return c() end
function c() return 1 end
print(a())`)

	if _, err := captureStdout(t, func() error {
		return runCommand([]string{"-config", configPath, scriptPath})
	}); err != errReported {
		t.Fatalf("expected recursion failure from config limit, got %v", err)
	}

	out, err := captureStdout(t, func() error {
		return runCommand([]string{"-config", configPath, "-recursion-limit", "5", scriptPath})
	})
	if err != nil {
		t.Fatalf("runCommand failed: %v", err)
	}
	if out != "1\n" {
		t.Fatalf("unexpected stdout: %q", out)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "helium.yaml")
	content := "color: always\nrecursion_limit: 64\nlog:\n  level: debug\n  file: /tmp/helium.log\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	want := cliConfig{Color: "always", RecursionLimit: 64, Log: logConfig{Level: "debug", File: "/tmp/helium.log"}}
	if cfg != want {
		t.Fatalf("unexpected config %+v", cfg)
	}

	empty := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if cfg, err := loadConfig(empty); err != nil || cfg != defaultConfig() {
		t.Fatalf("empty config should yield defaults, got %+v %v", cfg, err)
	}

	unknown := filepath.Join(dir, "unknown.yaml")
	if err := os.WriteFile(unknown, []byte("colour: never\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := loadConfig(unknown); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		cfg     cliConfig
		message string
	}{
		{cliConfig{Color: "sometimes", Log: logConfig{Level: "warn"}}, "invalid color mode"},
		{cliConfig{Color: "auto", RecursionLimit: -1, Log: logConfig{Level: "warn"}}, "must not be negative"},
		{cliConfig{Color: "auto", Log: logConfig{Level: "loud"}}, "invalid log level"},
	}
	for _, tc := range cases {
		err := tc.cfg.validate()
		if err == nil || !strings.Contains(err.Error(), tc.message) {
			t.Fatalf("expected %q error, got %v", tc.message, err)
		}
	}
	if err := defaultConfig().validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
}

func TestNewLoggerWritesJSONFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "helium.log")
	var terminal bytes.Buffer
	logger, closeLog, err := newLogger(-4, &terminal, logPath)
	if err != nil {
		t.Fatalf("newLogger failed: %v", err)
	}
	logger.Debug("compiled script", "tokens", 3)
	if err := closeLog(); err != nil {
		t.Fatalf("close log: %v", err)
	}
	if !strings.Contains(terminal.String(), "msg=\"compiled script\" tokens=3") {
		t.Fatalf("unexpected terminal log %q", terminal.String())
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"compiled script"`) || !strings.Contains(string(data), `"tokens":3`) {
		t.Fatalf("unexpected log file %q", data)
	}
}

func TestRenderErrorPlain(t *testing.T) {
	engine := helium.MustNewEngine(helium.Config{Stdout: io.Discard})
	_, err := engine.Execute(t.Context(), "x = 1\ny = x / 0")
	var b bytes.Buffer
	newTheme(&b, false).renderError(&b, err)
	want := "  1 | x = 1\n> 2 | y = x / 0\n\nRuntimeError: Division by zero.\n"
	if b.String() != want {
		t.Fatalf("unexpected diagnostic\nwant: %q\n got: %q", want, b.String())
	}
}

func TestRenderErrorIncludesFrames(t *testing.T) {
	engine := helium.MustNewEngine(helium.Config{Stdout: io.Discard})
	_, err := engine.Execute(t.Context(), "function boom()\n  return 1 / 0\nend\nboom()")
	var b bytes.Buffer
	newTheme(&b, false).renderError(&b, err)
	for _, want := range []string{"> 2 |   return 1 / 0", "RuntimeError: Division by zero.", "  at boom (2:10)", "  at <script> (4:1)"} {
		if !strings.Contains(b.String(), want) {
			t.Fatalf("expected %q in diagnostic:\n%s", want, b.String())
		}
	}
}

func TestThemePalette(t *testing.T) {
	var b bytes.Buffer
	if newTheme(&b, false).palette() != nil {
		t.Fatalf("colorless theme should have no palette")
	}
	palette := newTheme(&b, true).palette()
	if palette == nil {
		t.Fatalf("expected a palette")
	}
	colored := helium.FormatValue(helium.NewIterable([]helium.Value{helium.NewNumber(1)}), palette)
	if colored == "[1]" || !strings.Contains(colored, "\x1b[") {
		t.Fatalf("expected ANSI sequences, got %q", colored)
	}
	if !useColor("always", nil) || useColor("never", os.Stdout) {
		t.Fatalf("explicit color modes should not consult the terminal")
	}
}

func TestTokensCommand(t *testing.T) {
	scriptPath := writeScript(t, "a++\nx = -b\nf\"x{1}\"")
	out, err := captureStdout(t, func() error {
		return tokensCommand([]string{scriptPath})
	})
	if err != nil {
		t.Fatalf("tokensCommand failed: %v", err)
	}
	for _, want := range []string{"1:1\tword(a)", "1:2\tset(++)\tpostfix", "2:5\toperator(-)\tunary", "3:1\tstring(\"x\")\tformat", "word(str)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in token dump:\n%s", want, out)
		}
	}
}

func TestTreeCommandFormats(t *testing.T) {
	scriptPath := writeScript(t, "function f(a, ...rest)\n  return a + 1\nend\no.k = f(2)")

	text, err := captureStdout(t, func() error {
		return treeCommand([]string{scriptPath})
	})
	if err != nil {
		t.Fatalf("treeCommand failed: %v", err)
	}
	want := strings.Join([]string{
		"function f",
		"  param a",
		"  variadic rest",
		"  body",
		"    return",
		"      word a",
		"      number 1",
		"      operator +",
		"expression",
		"  set =",
		"    prop",
		"      word o",
		"      field k",
		"    call f",
		"      arg",
		"        number 2",
		"",
	}, "\n")
	if text != want {
		t.Fatalf("unexpected tree\nwant:\n%s\ngot:\n%s", want, text)
	}

	yamlOut, err := captureStdout(t, func() error {
		return treeCommand([]string{"-format", "yaml", scriptPath})
	})
	if err != nil {
		t.Fatalf("treeCommand yaml failed: %v", err)
	}
	for _, want := range []string{"- type: function\n  value: f\n", "type: variadic", "value: rest"} {
		if !strings.Contains(yamlOut, want) {
			t.Fatalf("expected %q in yaml tree:\n%s", want, yamlOut)
		}
	}

	if err := treeCommand([]string{"-format", "xml", scriptPath}); err == nil {
		t.Fatalf("expected unknown format error")
	}
}

func writeScript(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.he")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	runErr := fn()
	_ = w.Close()
	os.Stdout = orig

	var buf bytes.Buffer
	if _, copyErr := io.Copy(&buf, r); copyErr != nil {
		t.Fatalf("read stdout: %v", copyErr)
	}
	_ = r.Close()
	return buf.String(), runErr
}
