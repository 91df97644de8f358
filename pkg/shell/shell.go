// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shell is a small U-Boot style command line: a table of commands
// with an argument limit and a usage line each, run one line at a time.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/u-root/batchident/pkg/logger"
)

// Ret is the result of a command.
type Ret int

const (
	Success Ret = iota
	Failure
	Usage
)

func (r Ret) String() string {
	switch r {
	case Success:
		return "success"
	case Failure:
		return "failure"
	case Usage:
		return "usage"
	}
	return fmt.Sprintf("ret(%d)", int(r))
}

const Prompt = "=> "

var log = logger.LogContainer.GetSimpleLogger()

type Cmd struct {
	Name string
	// MaxArgs counts the command name itself.
	MaxArgs int
	Help    string
	Usage   string
	// Run gets the full argv, argv[0] being the command name.
	Run func(argv []string) Ret
}

type Shell struct {
	Out  io.Writer
	cmds map[string]*Cmd
}

func New(out io.Writer) *Shell {
	return &Shell{Out: out, cmds: map[string]*Cmd{}}
}

func (s *Shell) Register(c *Cmd) {
	if _, ok := s.cmds[c.Name]; ok {
		panic(fmt.Sprintf("command %q registered twice", c.Name))
	}
	s.cmds[c.Name] = c
}

func (s *Shell) Lookup(name string) (*Cmd, bool) {
	c, ok := s.cmds[name]
	return c, ok
}

// Names returns all registered commands, sorted.
func (s *Shell) Names() []string {
	names := make([]string, 0, len(s.cmds))
	for n := range s.cmds {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Run executes argv. Too many arguments give Usage without running the
// command, and any Usage result prints the usage line.
func (s *Shell) Run(argv []string) Ret {
	if len(argv) == 0 {
		return Success
	}
	c, ok := s.cmds[argv[0]]
	if !ok {
		fmt.Fprintf(s.Out, "Unknown command '%s' - try 'help'\n", argv[0])
		return Failure
	}
	r := Usage
	if len(argv) <= c.MaxArgs {
		r = c.Run(argv)
	}
	if r == Usage {
		s.printUsage(c)
	}
	log.Debugf("%s: %v", strings.Join(argv, " "), r)
	return r
}

func (s *Shell) printUsage(c *Cmd) {
	fmt.Fprintf(s.Out, "%s - %s\n\nUsage:\n%s %s\n", c.Name, c.Help, c.Name, c.Usage)
}

// Console runs commands read from r until EOF or exit, printing a prompt
// before each line. Failed commands do not stop it.
func (s *Shell) Console(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for {
		fmt.Fprint(s.Out, Prompt)
		if !sc.Scan() {
			fmt.Fprintln(s.Out)
			return sc.Err()
		}
		argv := parseLine(sc.Text())
		if len(argv) == 1 && (argv[0] == "exit" || argv[0] == "quit") {
			return nil
		}
		s.Run(argv)
	}
}

// Script runs commands read from r and stops at the first one that does
// not succeed, returning its result.
func (s *Shell) Script(r io.Reader) (Ret, error) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		argv := parseLine(sc.Text())
		if ret := s.Run(argv); ret != Success {
			log.Warnf("Script stopped at '%s': %v", strings.Join(argv, " "), ret)
			return ret, nil
		}
	}
	return Success, sc.Err()
}

// parseLine splits a line on whitespace. A word starting with # begins a
// comment running to the end of the line.
func parseLine(line string) []string {
	argv := strings.Fields(line)
	for i, a := range argv {
		if strings.HasPrefix(a, "#") {
			return argv[:i]
		}
	}
	return argv
}
