// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// batchident provisions the batch identification of a unit.
//
// Synopsis:
//     batchident [OPTIONS] COMMAND [ARGS]
//     batchir | batchiw | batchsr | batchsw STATUS   (symlinked)
//     batchident [OPTIONS] -console -|DEVICE
//     batchident [OPTIONS] -script FILE
//
// Commands:
//     batchir        print the batch identifier burned into the SID
//     batchiw        burn $batch_ident and set $batch_ident_status (1-5)
//     batchsr        print the PMIC batch identification status byte
//     batchsw STATUS set the PMIC status byte (decimal 0-255)
//
// Exit status is 0 on success, 1 on failure and 2 on a usage error.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"github.com/tarm/serial"
	"github.com/u-root/batchident/config"
	"github.com/u-root/batchident/pkg/batchident"
	"github.com/u-root/batchident/pkg/logger"
	"github.com/u-root/batchident/pkg/shell"
	"github.com/u-root/batchident/pkg/ubootenv"
)

var (
	cfg = config.DefaultConfig

	envPath  = flag.String("env", cfg.Env.Path, "U-Boot environment image")
	envSize  = flag.Int("env-size", cfg.Env.Size, "Size of the U-Boot environment")
	i2cBus   = flag.String("i2c", cfg.Pmic.Bus, "i2c-dev node the PMIC is on")
	pmicAddr = flag.Uint("pmic-addr", uint(cfg.Pmic.Address), "PMIC I2C address")
	console  = flag.String("console", "", "Run an interactive console on this serial device, - for stdin")
	baud     = flag.Int("baud", 115200, "Baud rate of the serial console")
	script   = flag.String("script", "", "Run commands from this file, stopping at the first failure")
	metrics  = flag.String("metrics", "", "Write Prometheus metrics to this textfile on exit")
	version  = flag.Bool("version", false, "Print version and exit")

	log = logger.LogContainer.GetSimpleLogger()
)

func exitCode(r shell.Ret) int {
	switch r {
	case shell.Success:
		return 0
	case shell.Usage:
		return 2
	}
	return 1
}

type stdio struct {
	io.Reader
	io.Writer
}

func (stdio) Close() error {
	return nil
}

func openConsole() (io.ReadWriteCloser, error) {
	if *console == "-" {
		return stdio{os.Stdin, os.Stdout}, nil
	}
	c := &serial.Config{Name: *console, Baud: *baud}
	s, err := serial.OpenPort(c)
	if err != nil {
		return nil, fmt.Errorf("serial.OpenPort: %v", err)
	}
	return s, nil
}

func newShell(out io.Writer, env *ubootenv.Env, fuse batchident.Fuse, status shell.StatusByte) *shell.Shell {
	sh := shell.New(out)
	shell.RegisterBuiltins(sh, env)
	shell.RegisterBatch(sh, batchident.New(fuse, env, out), status)
	return sh
}

func run() shell.Ret {
	flag.Parse()
	if *version {
		fmt.Printf("batchident %s (%s)\n", cfg.Version.Version, cfg.Version.GitHash)
		return shell.Success
	}

	var rw io.ReadWriter = stdio{os.Stdin, os.Stdout}
	if *console != "" {
		c, err := openConsole()
		if err != nil {
			log.Errorf("Console: %v", err)
			return shell.Failure
		}
		defer c.Close()
		rw = c
	}

	env, err := ubootenv.Open(afero.NewOsFs(), *envPath, *envSize)
	if err != nil {
		log.Errorf("Environment: %v", err)
		return shell.Failure
	}

	fuse := &socFuse{regs: cfg.Sid}
	defer fuse.Close()
	status := &pmicStatus{bus: *i2cBus, addr: uint16(*pmicAddr), reg: cfg.Pmic.StatusRegister}
	defer status.Close()

	sh := newShell(rw, env, fuse, status)

	// Busybox style: batchsw 5 is batchident batchsw 5.
	argv := flag.Args()
	if name := filepath.Base(os.Args[0]); name != "batchident" {
		if _, ok := sh.Lookup(name); ok {
			argv = append([]string{name}, argv...)
		}
	}

	switch {
	case *console != "":
		if err := sh.Console(rw); err != nil {
			log.Errorf("Console: %v", err)
			return shell.Failure
		}
		return shell.Success
	case *script != "":
		f, err := os.Open(*script)
		if err != nil {
			log.Errorf("Script: %v", err)
			return shell.Failure
		}
		defer f.Close()
		r, err := sh.Script(f)
		if err != nil {
			log.Errorf("Script: %v", err)
			return shell.Failure
		}
		return r
	case len(argv) == 0:
		flag.Usage()
		return shell.Usage
	}
	return sh.Run(argv)
}

func main() {
	r := run()
	if *metrics != "" {
		if err := prometheus.WriteToTextfile(*metrics, prometheus.DefaultGatherer); err != nil {
			log.Errorf("Metrics: %v", err)
		}
	}
	log.Sync()
	os.Exit(exitCode(r))
}
