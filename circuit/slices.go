package circuit

// Slices partitions the non-boundary vertices into time-ordered layers: a
// vertex sits in the first layer after all of its predecessors.
func (c *Circuit) Slices() [][]Vertex {
	level := make([]int, len(c.verts))
	var res [][]Vertex
	for _, v := range c.VerticesInOrder() {
		if c.verts[v].op.Type.IsBoundary() {
			continue
		}
		l := 0
		for _, e := range c.InEdges(v) {
			src := c.edges[e].src
			if !c.verts[src].op.Type.IsBoundary() && level[src]+1 > l {
				l = level[src] + 1
			}
		}
		level[v] = l
		for len(res) <= l {
			res = append(res, nil)
		}
		res[l] = append(res[l], v)
	}
	return res
}

// QInputs returns the qubit Input boundary vertices in wire order.
func (c *Circuit) QInputs() []Vertex {
	res := make([]Vertex, len(c.qIn))
	copy(res, c.qIn)
	return res
}

// QOutputs returns the qubit Output boundary vertices in wire order.
func (c *Circuit) QOutputs() []Vertex {
	res := make([]Vertex, len(c.qOut))
	copy(res, c.qOut)
	return res
}
