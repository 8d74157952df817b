package rotation

import "fmt"

type batchYAML struct {
	Shape      *[]int      `yaml:"shape,omitempty"`
	Components int         `yaml:"components,omitempty"`
	Data       [][]float64 `yaml:"data"`
}

// MarshalYAML writes the batch as {shape: [...], data: [[...], ...]}, one
// row per element. shape is the batch shape without the component count and
// is omitted for one-dimensional batches. Empty batches carry their
// component count in components.
func (b *Batch) MarshalYAML() (interface{}, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	out := batchYAML{Data: make([][]float64, b.Len())}
	if len(b.Shape) != 2 {
		shape := b.BatchShape()
		out.Shape = &shape
	}
	if b.Len() == 0 {
		out.Components = b.Components()
	}
	for i := range out.Data {
		out.Data[i] = b.At(i)
	}
	return out, nil
}

// UnmarshalYAML accepts the MarshalYAML form or a bare list of rows.
func (b *Batch) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var in batchYAML
	if err := unmarshal(&in); err != nil {
		if err2 := unmarshal(&in.Data); err2 != nil {
			return err
		}
	}
	components := in.Components
	if len(in.Data) > 0 {
		if components != 0 && components != len(in.Data[0]) {
			return fmt.Errorf("components %d, rows have %d values: %w", components, len(in.Data[0]), ErrShape)
		}
		components = len(in.Data[0])
	}
	if components <= 0 {
		return fmt.Errorf("empty batch without components: %w", ErrShape)
	}
	data := make([]float64, 0, components*len(in.Data))
	for i, row := range in.Data {
		if len(row) != components {
			return fmt.Errorf("row %d has %d values, expected %d: %w", i, len(row), components, ErrShape)
		}
		data = append(data, row...)
	}
	var shape []int
	if in.Shape != nil {
		shape = append([]int{}, (*in.Shape)...)
	}
	r, err := NewBatch(components, data, shape...)
	if err != nil {
		return err
	}
	*b = *r
	return nil
}
