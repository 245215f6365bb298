// weights.go — Fuzzy scoring weights.
package resolver

// Weights are the fuzzy fallback scores. Only the relative ranking they
// produce matters, so they are configurable.
type Weights struct {
	BaseStartsWith int `yaml:"base_starts_with" toml:"base_starts_with" json:"baseStartsWith"`
	BaseContains   int `yaml:"base_contains" toml:"base_contains" json:"baseContains"`
	PathContains   int `yaml:"path_contains" toml:"path_contains" json:"pathContains"`
	NamedPage      int `yaml:"named_page" toml:"named_page" json:"namedPage"`
	RouterDir      int `yaml:"router_dir" toml:"router_dir" json:"routerDir"`
	RouteFile      int `yaml:"route_file" toml:"route_file" json:"routeFile"`
	SourceExt      int `yaml:"source_ext" toml:"source_ext" json:"sourceExt"`
	PlainJS        int `yaml:"plain_js" toml:"plain_js" json:"plainJs"`
	DepthPenalty   int `yaml:"depth_penalty" toml:"depth_penalty" json:"depthPenalty"`
}

// DefaultWeights returns the stock weights.
func DefaultWeights() Weights {
	return Weights{
		BaseStartsWith: 80,
		BaseContains:   55,
		PathContains:   45,
		NamedPage:      8,
		RouterDir:      35,
		RouteFile:      28,
		SourceExt:      10,
		PlainJS:        -5,
		DepthPenalty:   1,
	}
}

// IsZero reports whether no weight is set, as with a config that omits the
// whole section.
func (w Weights) IsZero() bool { return w == Weights{} }
