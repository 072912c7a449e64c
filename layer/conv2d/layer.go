// Package conv2d implements a 2D bit-convolution layer and combiner
package conv2d

import "fmt"
import "github.com/neurlang/speechcommands/layer"

// Conv2DLayer describes a width x height bit plane, repeated repeat times,
// read through a sliding subwidth x subheight window.
type Conv2DLayer struct {
	width, height, subwidth, subheight, repeat int
}

// Conv2D is the combiner of Conv2DLayer
type Conv2D struct {
	vec                                        []bool
	width, height, subwidth, subheight, repeat int
}

// MustNew creates a new Conv2D layer with size, subsize and repeat
func MustNew(width, height, subwidth, subheight, repeat int) *Conv2DLayer {
	o, err := New(width, height, subwidth, subheight, repeat)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new Conv2D layer with size, subsize and repeat
func New(width, height, subwidth, subheight, repeat int) (o *Conv2DLayer, err error) {
	if subwidth <= 0 || subheight <= 0 {
		return nil, fmt.Errorf("New Conv2D: Subsize %dx%d is empty", subwidth, subheight)
	}
	if width < subwidth {
		return nil, fmt.Errorf("New Conv2D: Width %d is lower than Subwidth %d", width, subwidth)
	}
	if height < subheight {
		return nil, fmt.Errorf("New Conv2D: Height %d is lower than Subheight %d", height, subheight)
	}
	if subwidth*subheight > 32 {
		return nil, fmt.Errorf("New Conv2D: Window %dx%d does not fit 32 bits", subwidth, subheight)
	}
	if repeat <= 0 {
		repeat = 1
	}
	o = new(Conv2DLayer)
	o.width = width
	o.height = height
	o.subwidth = subwidth
	o.subheight = subheight
	o.repeat = repeat
	return
}

// Inputs is the number of booleans the combiner accepts
func (i *Conv2DLayer) Inputs() int {
	return i.width * i.height * i.repeat
}

// Features is the number of window positions, which is the size of the next layer
func (i *Conv2DLayer) Features() int {
	return (i.width - i.subwidth + 1) * (i.height - i.subheight + 1) * i.repeat
}

// Lay turns Conv2D layer into a combiner
func (i *Conv2DLayer) Lay() layer.Combiner {
	var o Conv2D
	o.vec = make([]bool, i.Inputs())
	o.width = i.width
	o.height = i.height
	o.subwidth = i.subwidth
	o.subheight = i.subheight
	o.repeat = i.repeat
	return &o
}
