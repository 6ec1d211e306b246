package tensor

import "fmt"


// track links out to its parents when any of them requires a gradient.
// backward receives the gradient flowing into out and must hand each parent
// its share through AccumulateGrad.
func track(out *Tensor, op string, parents []*Tensor, backward func(grad *Tensor)) {
	for _, p := range parents {
		if p.RequiresGrad {
			out.RequiresGrad = true
			out.Parents = parents
			out.Operation = op
			out.BackwardFunc = backward
			return
		}
	}
}



// AccumulateGrad adds grad into t.Grad. it does not walk the graph, Backward does.
func (t *Tensor) AccumulateGrad(grad *Tensor) {
	if !t.RequiresGrad || grad == nil {
		return
	}
	if len(grad.data) != len(t.data) {
		fmt.Printf("Warning: gradient of %d elements dropped for tensor %v (op=%q)\n", len(grad.data), t.shape, t.Operation)
		return
	}

	if t.Grad == nil {
		t.Grad = &Tensor{
			shape: append([]int{}, t.shape...),
			data:  append([]float64{}, grad.data...),
		}
		return
	}
	for i := range t.Grad.data {
		t.Grad.data[i] += grad.data[i]
	}
}



// computes the backward pass for a tensor.
// a nil grad is only allowed for single-element tensors and seeds a gradient of 1.
// every node's BackwardFunc runs once, after all of its consumers have contributed.
func (t *Tensor) Backward(grad *Tensor) {
	if !t.RequiresGrad {
		return
	}

	if grad == nil {
		if Numel(t) != 1 {
			fmt.Printf("Warning: Tensor.Backward called with nil grad on non-scalar tensor %v\n", t.shape)
			return
		}
		grad = &Tensor{shape: append([]int{}, t.shape...), data: []float64{1}}
	} else if !IsSameSize(t, grad) {
		fmt.Printf("Error: Mismatch in shape during backward. Tensor shape: %v, Grad shape: %v\n", t.shape, grad.shape)
		return
	}

	t.AccumulateGrad(grad)

	topo := topoSort(t)
	for i := len(topo) - 1; i >= 0; i-- {
		node := topo[i]
		if node.BackwardFunc != nil && node.Grad != nil {
			node.BackwardFunc(node.Grad)
		}
	}
}


// topoSort orders the tracked subgraph below root so that parents come before children.
func topoSort(root *Tensor) []*Tensor {
	visited := make(map[*Tensor]bool)
	var topo []*Tensor

	var dfs func(*Tensor)
	dfs = func(t *Tensor) {
		if t == nil || visited[t] || !t.RequiresGrad {
			return
		}
		visited[t] = true
		for _, parent := range t.Parents {
			dfs(parent)
		}
		topo = append(topo, t)
	}
	dfs(root)
	return topo
}



// Detach returns a copy of t that shares no graph with it.
func Detach(t *Tensor) *Tensor {
	out := CloneTensor(t)
	out.RequiresGrad = false
	return out
}
