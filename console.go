package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// console prints the coloured status lines shown to the user.
// Diagnostics go through the logger instead.
type console struct {
	out     io.Writer
	verbose bool

	infoStyle    lipgloss.Style
	successStyle lipgloss.Style
	warnStyle    lipgloss.Style
	failStyle    lipgloss.Style
}

func newConsole(out io.Writer, verbose bool) console {
	r := lipgloss.NewRenderer(out)
	return console{
		out:          out,
		verbose:      verbose,
		infoStyle:    r.NewStyle().Foreground(lipgloss.Color("12")),
		successStyle: r.NewStyle().Foreground(lipgloss.Color("10")),
		warnStyle:    r.NewStyle().Foreground(lipgloss.Color("11")),
		failStyle:    r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
}

// info and success are only shown in verbose mode.
func (c console) info(format string, args ...interface{}) {
	if c.verbose {
		fmt.Fprintln(c.out, c.infoStyle.Render(fmt.Sprintf(format, args...)))
	}
}

func (c console) success(format string, args ...interface{}) {
	if c.verbose {
		fmt.Fprintln(c.out, c.successStyle.Render(fmt.Sprintf(format, args...)))
	}
}

func (c console) warn(format string, args ...interface{}) {
	fmt.Fprintln(c.out, c.warnStyle.Render(fmt.Sprintf(format, args...)))
}

func (c console) fail(format string, args ...interface{}) {
	fmt.Fprintln(c.out, c.failStyle.Render(fmt.Sprintf(format, args...)))
}

// confirmOverwrite asks whether path may be replaced. An empty answer means yes.
func (c console) confirmOverwrite(in io.Reader, path string) (bool, error) {
	c.warn("'%s' already exists.", path)
	fmt.Fprintf(c.out, "Overwrite %s? [Y/n]: ", path)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "y", "yes":
		return true, nil
	}
	return false, nil
}
