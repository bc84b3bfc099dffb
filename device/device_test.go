package device

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantaforge/qdag/ops"
)

const sampleCalibration = `
default: 0.001
nodes:
  - node: 0
    default: 0.002
    gates:
      Rx: 0.01
      CX: 0.02
  - node: 1
    default: 0.005
`

func TestLoadCalibration(t *testing.T) {
	ch, err := LoadCalibration(strings.NewReader(sampleCalibration))
	require.NoError(t, err)

	assert.Equal(t, 0.01, ch.GetError(0, ops.Rx))
	assert.Equal(t, 0.02, ch.GetError(0, ops.CX))
	// node default for an uncalibrated gate
	assert.Equal(t, 0.002, ch.GetError(0, ops.Rz))
	assert.Equal(t, 0.005, ch.GetError(1, ops.Rx))
	// device default for an unknown node
	assert.Equal(t, 0.001, ch.GetError(7, ops.Rx))
}

func TestLoadCalibrationRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"rate above one": `
default: 0.1
nodes:
  - node: 0
    gates:
      Rx: 1.5
`,
		"negative rate": `
default: -0.1
`,
		"unknown gate": `
nodes:
  - node: 0
    gates:
      Frobnicate: 0.1
`,
		"negative node": `
nodes:
  - node: -2
`,
		"duplicate node": `
nodes:
  - node: 3
  - node: 3
`,
		"unknown field": `
defualt: 0.1
`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadCalibration(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}
