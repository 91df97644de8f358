// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package batchident

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	outcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "batchident",
		Name:      "write_outcomes_total",
		Help:      "Batch identifier write attempts by final outcome.",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(outcomes)
}
