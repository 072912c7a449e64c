package majpool2d

import "fmt"
import "github.com/neurlang/speechcommands/layer"

// MajPool2DLayer pools a (width*subwidth) x (height*subheight) bit plane,
// repeated repeat times, into width x height block majorities.
type MajPool2DLayer struct {
	width, height, subwidth, subheight, repeat int
}

// MajPool2D is the combiner of MajPool2DLayer
type MajPool2D struct {
	vec                                        []bool
	width, height, subwidth, subheight, repeat int
}

// New creates a new MajPool2D layer with size, subsize and repeat
func New(width, height, subwidth, subheight, repeat int) (o *MajPool2DLayer, err error) {
	if width <= 0 || height <= 0 || subwidth <= 0 || subheight <= 0 {
		return nil, fmt.Errorf("New MajPool2D: empty size %dx%d or subsize %dx%d", width, height, subwidth, subheight)
	}
	if width*height > 32 {
		return nil, fmt.Errorf("New MajPool2D: %dx%d majorities do not fit 32 bits", width, height)
	}
	if repeat <= 0 {
		repeat = 1
	}
	o = new(MajPool2DLayer)
	o.width = width
	o.height = height
	o.subwidth = subwidth
	o.subheight = subheight
	o.repeat = repeat
	return
}

// MustNew creates a new MajPool2D layer with size, subsize and repeat
func MustNew(width, height, subwidth, subheight, repeat int) (o *MajPool2DLayer) {
	o, err := New(width, height, subwidth, subheight, repeat)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// Inputs is the number of booleans the combiner accepts
func (i *MajPool2DLayer) Inputs() int {
	return i.width * i.height * i.subwidth * i.subheight * i.repeat
}

// Features is the number of features, one per repeat
func (i *MajPool2DLayer) Features() int {
	return i.repeat
}

// Lay turns MajPool2D layer into a combiner
func (i *MajPool2DLayer) Lay() layer.Combiner {
	var o MajPool2D
	o.vec = make([]bool, i.Inputs())
	o.width = i.width
	o.height = i.height
	o.subwidth = i.subwidth
	o.subheight = i.subheight
	o.repeat = i.repeat
	return &o
}
