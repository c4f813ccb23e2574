package main

import (
	goerrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/dlclark/regexp2"

	"tslower/pkg/config"
	"tslower/pkg/driver"
	"tslower/pkg/errors"
	"tslower/pkg/source"
	"tslower/pkg/types"
)

// errFatal is returned by commands whose input produced a fatal diagnostic.
// The diagnostics themselves have already been printed.
var errFatal = goerrors.New("fatal diagnostics")

const stdinPath = "-"

type CLI struct {
	Lower   LowerCmd   `cmd:"" help:"Lower every declaration in a file and print it."`
	Casts   CastsCmd   `cmd:"" help:"Print the verdict of every cast in a file."`
	Repl    ReplCmd    `cmd:"" help:"Lower TypeScript snippets interactively."`
	Version VersionCmd `cmd:"" help:"Print version information."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

type LowerCmd struct {
	File   string `arg:"" help:"TypeScript file to lower, or - for stdin."`
	Config string `help:"Configuration file (default: tslower.yaml next to FILE)." type:"existingfile" short:"c"`
	Only   string `help:"Only print declarations whose name matches this ECMAScript regular expression."`
	Expand bool   `help:"Also print each declaration fully expanded." short:"x"`
}

func (c *LowerCmd) Run() error {
	var only *regexp2.Regexp
	if c.Only != "" {
		re, err := regexp2.Compile(c.Only, regexp2.ECMAScript)
		if err != nil {
			return fmt.Errorf("--only: %w", err)
		}
		only = re
	}

	s, err := openSession(c.File, c.Config)
	if err != nil {
		return err
	}
	defer s.Close()

	res, err := lowerInput(s, c.File)
	if err != nil {
		return err
	}

	findings := res.Diagnostics
	for _, d := range res.Decls {
		if only != nil {
			ok, err := only.MatchString(d.Name)
			if err != nil {
				return fmt.Errorf("--only: %w", err)
			}
			if !ok {
				continue
			}
		}
		fmt.Println(d.String())
		if !c.Expand {
			continue
		}
		expanded, err := s.Expand(expandable(d))
		if err != nil {
			findings = append(findings, errors.Finding{Err: errors.AsDiagnostic(err, d.Loc)})
			continue
		}
		fmt.Printf("    = %s\n", expanded.String())
	}
	return report(res.Source, findings)
}

// expandable returns the part of d worth expanding: an alias body, or the
// declared type itself.
func expandable(d driver.Decl) types.Type {
	if alias, ok := d.Type.(*types.Alias); ok && alias.Type != nil {
		return alias.Type
	}
	return d.Type
}

type CastsCmd struct {
	File   string `arg:"" help:"TypeScript file to check, or - for stdin."`
	Config string `help:"Configuration file (default: tslower.yaml next to FILE)." type:"existingfile" short:"c"`
}

func (c *CastsCmd) Run() error {
	s, err := openSession(c.File, c.Config)
	if err != nil {
		return err
	}
	defer s.Close()

	res, err := lowerInput(s, c.File)
	if err != nil {
		return err
	}
	for _, cast := range res.Casts {
		fmt.Println(cast.String())
	}
	return report(res.Source, res.Diagnostics)
}

// loadConfig reads configPath, or looks for tslower.yaml in dir.
func loadConfig(dir, configPath string) (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	return config.Find(dir)
}

// lowerInput lowers the file at path, or standard input when path is "-".
func lowerInput(s *driver.Session, path string) (*driver.Result, error) {
	if path != stdinPath {
		return s.LowerFile(path)
	}
	content, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return s.LowerSource(source.NewStdinSource(string(content))), nil
}

func openSession(file, configPath string) (*driver.Session, error) {
	dir := filepath.Dir(file)
	if file == stdinPath {
		dir = "."
	}
	cfg, err := loadConfig(dir, configPath)
	if err != nil {
		return nil, err
	}
	return driver.NewSession(driver.WithConfig(cfg), driver.WithLogger(newLogger(os.Stderr, cfg)))
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

// report prints findings with source carets and returns errFatal when any
// of them stopped a unit from lowering.
func report(file *source.SourceFile, findings []errors.Finding) error {
	if len(findings) == 0 {
		return nil
	}
	diags := make([]errors.Diagnostic, len(findings))
	fatal := false
	for i, f := range findings {
		diags[i] = f.Err
		fatal = fatal || !f.Recovered
	}
	errors.DisplayErrors(os.Stderr, file, diags)
	if fatal {
		return errFatal
	}
	return nil
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("tslower"),
		kong.Description("Lower TypeScript type syntax into semantic types and validate casts."),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	if goerrors.Is(err, errFatal) {
		os.Exit(1)
	}
	ctx.FatalIfErrorf(err)
}
