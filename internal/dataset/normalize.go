package dataset

import "fmt"

const maxIntensity = 255.0

// INormalizer rescales one raw pixel intensity.
type INormalizer interface {
	Normalize(x float64) float64
}

// UnitScaling maps [0, 255] to [0, 1]: x = (x - min) / (max - min).
type UnitScaling struct{}

func (*UnitScaling) Normalize(x float64) float64 { return x / maxIntensity }

// CenteredScaling maps [0, 255] to about [-0.5, 0.5]: x = (x - avg) / (max - min).
type CenteredScaling struct{}

func (*CenteredScaling) Normalize(x float64) float64 { return (x - 127) / maxIntensity }

func NewNormalizer(name string) (INormalizer, error) {
	switch name {
	case "", "unit":
		return &UnitScaling{}, nil
	case "centered":
		return &CenteredScaling{}, nil
	default:
		return nil, fmt.Errorf("unknown normalization %q", name)
	}
}
