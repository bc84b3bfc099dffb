// Package device models per-node gate error rates of a physical machine
// and loads them from YAML calibration files.
package device

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quantaforge/qdag/ops"
)

// Characterisation holds measured error probabilities per physical node and
// operation kind. Missing entries fall back to a per-node default, then to
// the device default, then to zero.
type Characterisation struct {
	// Default applies when a node has no record at all.
	Default float64
	Nodes   map[int]NodeErrors
}

// NodeErrors is the error record of one node.
type NodeErrors struct {
	// Default applies to operation kinds without their own rate.
	Default float64
	Ops     map[ops.OpType]float64
}

// GetError returns the error probability of running an operation of the
// given kind at the given node.
func (c *Characterisation) GetError(node int, t ops.OpType) float64 {
	ne, ok := c.Nodes[node]
	if !ok {
		return c.Default
	}
	if r, ok := ne.Ops[t]; ok {
		return r
	}
	return ne.Default
}

// calibration is the YAML document layout.
type calibration struct {
	Default float64           `yaml:"default"`
	Nodes   []calibrationNode `yaml:"nodes"`
}

type calibrationNode struct {
	Node    int                `yaml:"node"`
	Default float64            `yaml:"default"`
	Gates   map[string]float64 `yaml:"gates"`
}

// LoadCalibration reads a YAML calibration document.
func LoadCalibration(r io.Reader) (*Characterisation, error) {
	var cal calibration
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cal); err != nil {
		return nil, fmt.Errorf("parsing calibration: %w", err)
	}
	return cal.build()
}

// LoadCalibrationFile reads a YAML calibration file from disk.
func LoadCalibrationFile(path string) (*Characterisation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadCalibration(f)
}

func (cal *calibration) build() (*Characterisation, error) {
	if err := checkRate("default", cal.Default); err != nil {
		return nil, err
	}
	res := &Characterisation{Default: cal.Default, Nodes: make(map[int]NodeErrors, len(cal.Nodes))}
	for _, n := range cal.Nodes {
		if n.Node < 0 {
			return nil, fmt.Errorf("node index %d is negative", n.Node)
		}
		if _, dup := res.Nodes[n.Node]; dup {
			return nil, fmt.Errorf("node %d calibrated twice", n.Node)
		}
		if err := checkRate(fmt.Sprintf("node %d default", n.Node), n.Default); err != nil {
			return nil, err
		}
		ne := NodeErrors{Default: n.Default, Ops: make(map[ops.OpType]float64, len(n.Gates))}
		for name, rate := range n.Gates {
			t, ok := ops.TypeByName(name)
			if !ok {
				return nil, fmt.Errorf("node %d: unknown gate %q", n.Node, name)
			}
			if err := checkRate(fmt.Sprintf("node %d gate %s", n.Node, name), rate); err != nil {
				return nil, err
			}
			ne.Ops[t] = rate
		}
		res.Nodes[n.Node] = ne
	}
	return res, nil
}

func checkRate(what string, r float64) error {
	if r < 0 || r > 1 {
		return fmt.Errorf("%s: error rate %g is not a probability", what, r)
	}
	return nil
}
