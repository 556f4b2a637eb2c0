package ferry

import "strings"

// terminalIDs maps upstream terminal names to their numeric IDs. Matching is
// case-sensitive on the exact upstream spelling; only surrounding whitespace
// is forgiven.
var terminalIDs = map[string]int{
	"Anacortes":         1,
	"Bainbridge Island": 3,
	"Bremerton":         4,
	"Clinton":           5,
	"Coupeville":        52,
	"Edmonds":           8,
	"Fauntleroy":        9,
	"Friday Harbor":     10,
	"Kingston":          12,
	"Lopez Island":      13,
	"Mukilteo":          14,
	"Orcas Island":      15,
	"Point Defiance":    16,
	"Port Townsend":     17,
	"Seattle":           7,
	"Shaw Island":       18,
	"Southworth":        20,
	"Tahlequah":         21,
	"Vashon Island":     22,
}

// TerminalIDs is the resolved pair of terminal IDs for a route. A nil side
// means the name could not be resolved; capacity derivation degrades but the
// snapshot is still produced.
type TerminalIDs struct {
	West *int
	East *int
}

// TerminalResolver maps route endpoint names to upstream numeric terminal IDs.
type TerminalResolver struct {
	table map[string]int
}

// NewTerminalResolver returns a resolver over the production terminal table.
func NewTerminalResolver() *TerminalResolver {
	return &TerminalResolver{table: terminalIDs}
}

// NewTerminalResolverWithTable returns a resolver over a custom table.
func NewTerminalResolverWithTable(table map[string]int) *TerminalResolver {
	return &TerminalResolver{table: table}
}

// Resolve maps the route's endpoint names to terminal IDs.
func (r *TerminalResolver) Resolve(route Route) TerminalIDs {
	return TerminalIDs{
		West: r.lookup(route.WestName),
		East: r.lookup(route.EastName),
	}
}

func (r *TerminalResolver) lookup(name string) *int {
	id, ok := r.table[strings.TrimSpace(name)]
	if !ok {
		return nil
	}
	return &id
}
