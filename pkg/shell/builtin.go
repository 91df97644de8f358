// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shell

import (
	"fmt"
	"strings"
)

// Env is the environment as seen by printenv and setenv.
type Env interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Keys() []string
}

// RegisterBuiltins adds help, printenv and setenv.
func RegisterBuiltins(s *Shell, env Env) {
	s.Register(&Cmd{
		Name:    "help",
		MaxArgs: 64,
		Help:    "print command description/usage",
		Usage:   "\n    - print brief description of all commands\nhelp command ...\n    - print detailed usage of 'command'",
		Run:     s.help,
	})
	s.Register(&Cmd{
		Name:    "printenv",
		MaxArgs: 64,
		Help:    "print environment variables",
		Usage:   "\n    - print values of all environment variables\nprintenv name ...\n    - print value of environment variable 'name'",
		Run: func(argv []string) Ret {
			return printenv(s, env, argv)
		},
	})
	s.Register(&Cmd{
		Name:    "setenv",
		MaxArgs: 64,
		Help:    "set environment variables",
		Usage:   "name value ...\n    - set environment variable 'name' to 'value ...'\nsetenv name\n    - delete environment variable 'name'",
		Run: func(argv []string) Ret {
			return setenv(s, env, argv)
		},
	})
}

func (s *Shell) help(argv []string) Ret {
	if len(argv) == 1 {
		for _, n := range s.Names() {
			fmt.Fprintf(s.Out, "%-10s- %s\n", n, s.cmds[n].Help)
		}
		return Success
	}
	r := Success
	for _, n := range argv[1:] {
		c, ok := s.cmds[n]
		if !ok {
			fmt.Fprintf(s.Out, "Unknown command '%s' - try 'help' without arguments for list of all known commands\n\n", n)
			r = Failure
			continue
		}
		s.printUsage(c)
	}
	return r
}

func printenv(s *Shell, env Env, argv []string) Ret {
	if len(argv) == 1 {
		keys := env.Keys()
		for _, k := range keys {
			v, _ := env.Get(k)
			fmt.Fprintf(s.Out, "%s=%s\n", k, v)
		}
		fmt.Fprintf(s.Out, "\nEnvironment size: %d entries\n", len(keys))
		return Success
	}
	r := Success
	for _, k := range argv[1:] {
		v, ok := env.Get(k)
		if !ok {
			fmt.Fprintf(s.Out, "## Error: \"%s\" not defined\n", k)
			r = Failure
			continue
		}
		fmt.Fprintf(s.Out, "%s=%s\n", k, v)
	}
	return r
}

func setenv(s *Shell, env Env, argv []string) Ret {
	if len(argv) < 2 {
		return Usage
	}
	if err := env.Set(argv[1], strings.Join(argv[2:], " ")); err != nil {
		fmt.Fprintf(s.Out, "## Error: %v\n", err)
		return Failure
	}
	return Success
}
