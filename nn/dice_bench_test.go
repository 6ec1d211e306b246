package nn

import (
	"fmt"
	"math/rand"
	"testing"

	"go-dice/autograd"
	"go-dice/tensor"
)

// Dice forward, and forward + backward, on [32, dim] batches

func BenchmarkDiceForward(b *testing.B) {
	for _, dim := range []int{128, 512, 1024} {
		b.Run(fmt.Sprint(dim), func(b *testing.B) {
			x, err := tensor.RandN([]int{32, dim}, rand.New(rand.NewSource(1)))
			if err != nil {
				b.Fatal(err)
			}
			d := NewDice(DefaultDiceEpsilon)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := d.Forward(x); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkDiceBackward(b *testing.B) {
	x, err := tensor.RandN([]int{32, 512}, rand.New(rand.NewSource(1)))
	if err != nil {
		b.Fatal(err)
	}
	x.RequiresGrad = true
	d := NewDice(DefaultDiceEpsilon)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.ZeroGrad()
		x.ZeroGrad()
		out, err := d.Forward(x)
		if err != nil {
			b.Fatal(err)
		}
		if err := autograd.Backward(out); err != nil {
			b.Fatal(err)
		}
	}
}
