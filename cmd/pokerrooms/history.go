package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/lox/pokerrooms/internal/phh"
)

// HistoryCmd prints recorded hands
type HistoryCmd struct {
	Paths []string `arg:"" name:"path" help:"PHH files, or directories of them"`
	Limit int      `help:"Maximum number of hands to print (0 = all)"`
}

func (c *HistoryCmd) Run() error {
	var files []string
	for _, path := range c.Paths {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(path, "*"+phh.Extension))
		if err != nil {
			return err
		}
		slices.Sort(matches)
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return fmt.Errorf("no %s files found", phh.Extension)
	}
	if c.Limit > 0 && len(files) > c.Limit {
		files = files[:c.Limit]
	}

	for i, file := range files {
		hand, err := phh.DecodeFile(file)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		if i > 0 {
			fmt.Println()
		}
		fmt.Println(strings.Join(phh.Describe(hand), "\n"))
	}
	return nil
}
