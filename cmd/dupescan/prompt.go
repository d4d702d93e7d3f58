package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fenilsonani/dupescan/internal/collector"
)

const directoryPrompt = "Enter the directory path: "

var errNoDirectory = errors.New("no directory given")

// promptDirectory asks for the directory to scan, completing directory
// names on tab
func promptDirectory(in io.ReadCloser, out io.Writer) (string, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          directoryPrompt,
		AutoComplete:    dirCompleter{},
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdin:           in,
		Stdout:          out,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create prompt: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				return "", errNoDirectory
			}
			return "", err
		}

		line = strings.TrimSpace(line)
		if line != "" {
			return line, nil
		}
	}
}

// dirCompleter completes the last path segment to matching directories.
// Hidden directories are offered only once the segment starts with a dot.
type dirCompleter struct{}

func (dirCompleter) Do(line []rune, pos int) ([][]rune, int) {
	typed := string(line[:pos])
	dir, partial := filepath.Split(typed)

	search := dir
	if search == "" {
		search = "."
	}
	entries, err := os.ReadDir(collector.ExpandPath(search))
	if err != nil {
		return nil, 0
	}

	var candidates [][]rune
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || !strings.HasPrefix(name, partial) {
			continue
		}
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(partial, ".") {
			continue
		}
		candidates = append(candidates, []rune(name[len(partial):]+string(filepath.Separator)))
	}
	return candidates, len([]rune(partial))
}
