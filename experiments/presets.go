package experiments

import (
	"fmt"
	"sort"

	"hexagent/config"
)

// Presets pair the configured agent with a variant that differs in one
// feature, or with the random baseline.
var presets = map[string]func(base config.Config) (Contender, Contender){
	"random": func(base config.Config) (Contender, Contender) {
		return Contender{Name: "mcts", Config: base}, Contender{Name: "random", Config: base, Random: true}
	},
	"rave": func(base config.Config) (Contender, Contender) {
		off := base
		off.Search.Rave = false
		return Contender{Name: "rave", Config: base}, Contender{Name: "uct", Config: off}
	},
	"reuse": func(base config.Config) (Contender, Contender) {
		off := base
		off.Search.TreeReuse = false
		return Contender{Name: "reuse", Config: base}, Contender{Name: "fresh", Config: off}
	},
	"bridges": func(base config.Config) (Contender, Contender) {
		off := base
		off.Bridges = false
		return Contender{Name: "bridges", Config: base}, Contender{Name: "no-bridges", Config: off}
	},
}

func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset builds the named match-up around base.
func Preset(name string, base config.Config, games, concurrency int) (Experiment, error) {
	build, ok := presets[name]
	if !ok {
		return Experiment{}, fmt.Errorf("unknown experiment %q, want one of %v", name, PresetNames())
	}
	a, b := build(base)
	return Experiment{
		Name:        name,
		Games:       games,
		Concurrency: concurrency,
		BoardSize:   base.BoardSize,
		A:           a,
		B:           b,
	}, nil
}
