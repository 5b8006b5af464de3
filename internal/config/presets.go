package config

import "sort"

var Presets = map[string]func() *Config{
	"pin": func() *Config {
		return &Config{
			Name: "pin", KFactor: 1,
			States: []StateConfig{{
				Name:          "body",
				Positions:     []Vec3{{0, 0, 3}, {1, 3.2, 0}, {2, 0, -3.5}, {4, 3, 1}},
				RestPositions: []Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0}},
			}},
			ForceFields: []ForceFieldConfig{{
				Kind: "anchored", Name: "pin", Object: "body",
				PolynomialDegree: []int{3}, PolynomialStiffness: []float64{100, 20, 5},
				ZeroLength: []float64{1},
			}},
		}
	},
	"chain": func() *Config {
		return &Config{
			Name: "chain", KFactor: 1,
			States: []StateConfig{{
				Name:      "chain",
				Positions: []Vec3{{0, 0, 0}, {1.2, 0, 0}, {2.3, 0.2, 0}, {3.5, 0.1, 0}, {4.8, 0, 0}},
			}},
			ForceFields: []ForceFieldConfig{
				{
					Kind: "anchored", Name: "root", Object: "chain",
					Points: []int{0}, PolynomialStiffness: []float64{1000},
				},
				{
					Kind: "interaction", Name: "links", Object1: "chain", Object2: "chain",
					FirstPoints: []int{0, 1, 2, 3}, SecondPoints: []int{1, 2, 3, 4},
					ComputeZeroLength: boolPtr(false), ZeroLength: []float64{1},
					PolynomialDegree: []int{2}, PolynomialStiffness: []float64{50, 10},
				},
			},
		}
	},
	"coupled": func() *Config {
		return &Config{
			Name: "coupled", KFactor: 1,
			States: []StateConfig{
				{Name: "left", Positions: []Vec3{{0, 0, 0}, {0, 1, 0}, {0, 2, 0}}},
				{Name: "right", Positions: []Vec3{{1.5, 0, 0}, {1.2, 1, 0.3}, {1.8, 2, 0}}},
			},
			ForceFields: []ForceFieldConfig{{
				Kind: "interaction", Name: "bridge", Object1: "left", Object2: "right",
				ComputeZeroLength: boolPtr(false), ZeroLength: []float64{1, 1, 1.5},
				PolynomialDegree: []int{1, 2, 1}, PolynomialStiffness: []float64{20, 10, 5, 40},
			}},
		}
	},
	"slack": func() *Config {
		return &Config{
			Name: "slack", KFactor: 1,
			States: []StateConfig{
				{Name: "top", Positions: []Vec3{{0, 0, 0}, {1, 0, 0}}},
				{Name: "bottom", Positions: []Vec3{{0, -0.6, 0}, {1, -1.4, 0}}},
			},
			ForceFields: []ForceFieldConfig{{
				Kind: "interaction", Name: "ropes", Object1: "top", Object2: "bottom",
				ComputeZeroLength: boolPtr(false), ZeroLength: []float64{1},
				Compressible: true, PolynomialStiffness: []float64{30},
			}},
		}
	},
}

// GetPreset returns a fresh copy of the named scene, or nil.
func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func boolPtr(b bool) *bool { return &b }
