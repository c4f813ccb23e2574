package main

import (
	goerrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"tslower/pkg/driver"
	"tslower/pkg/errors"
	"tslower/pkg/source"
)

const (
	historyFile = ".tslower_history"
	promptMain  = "tslower> "
	promptCont  = "...> "
)

type ReplCmd struct {
	Config string `help:"Configuration file (default: tslower.yaml in the working directory)." type:"existingfile" short:"c"`
}

func (c *ReplCmd) Run() error {
	cfg, err := loadConfig(".", c.Config)
	if err != nil {
		return err
	}
	newSession := func() (*driver.Session, error) {
		return driver.NewSession(driver.WithConfig(cfg), driver.WithLogger(newLogger(os.Stderr, cfg)))
	}
	s, err := newSession()
	if err != nil {
		return err
	}
	defer func() { s.Close() }()

	fmt.Println("tslower " + Version() + " (:reset clears declarations, :quit exits)")

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	for {
		code, ok := readSnippet(ln)
		if !ok {
			fmt.Println()
			return nil
		}
		trimmed := strings.TrimSpace(code)
		switch {
		case trimmed == "":
			continue
		case trimmed == ":quit":
			return nil
		case trimmed == ":reset":
			s.Close()
			if s, err = newSession(); err != nil {
				return err
			}
			continue
		case strings.HasPrefix(trimmed, ":"):
			fmt.Println("unknown command. Type :quit to exit.")
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		printResult(os.Stdout, s.LowerSource(source.NewReplSource(code)))
	}
}

func printResult(w io.Writer, res *driver.Result) {
	for _, d := range res.Decls {
		fmt.Fprintln(w, d.String())
	}
	for _, c := range res.Casts {
		fmt.Fprintln(w, c.String())
	}
	errors.DisplayErrors(os.Stderr, res.Source, res.Errors())
}

// readSnippet reads lines until the brackets they open are closed. It
// returns false on EOF or Ctrl-C.
func readSnippet(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if goerrors.Is(err, io.EOF) || goerrors.Is(err, liner.ErrPromptAborted) {
			return "", false
		}
		if err != nil {
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if !needsMore(b.String()) {
			return b.String(), true
		}
	}
}

// needsMore reports whether src leaves a bracket or a string open. Brackets
// inside string literals and comments are ignored.
func needsMore(src string) bool {
	depth := 0
	var quote byte
	for i := 0; i < len(src); i++ {
		ch := src[i]
		if quote != 0 {
			switch ch {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'', '`':
			quote = ch
		case '/':
			if i+1 < len(src) && src[i+1] == '/' {
				for i < len(src) && src[i] != '\n' {
					i++
				}
			}
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		}
	}
	return depth > 0 || quote == '`'
}
