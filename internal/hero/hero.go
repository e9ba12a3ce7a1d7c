// Package hero holds the static hero catalog. It is plain data injected
// into whatever needs to enrich its output, rating and replay math never
// look at it.
package hero

// Role is the broad archetype printed on the hero card.
type Role string

const (
	RoleTank     Role = "tank"
	RoleFighter  Role = "fighter"
	RoleSupport  Role = "support"
	RoleRanged   Role = "ranged"
	RoleTactical Role = "tactical"
)

// Hero describes one playable hero. Complexity goes from 1 (beginner) to 3.
type Hero struct {
	Name       string `json:"name"`
	Role       Role   `json:"role"`
	Complexity int    `json:"complexity"`
	Expansion  string `json:"expansion"`
}

// Catalog is a read-only name to hero lookup.
type Catalog map[string]Hero

// Get returns the catalog entry for a hero name, ok is false for heroes we
// don't know about (homebrew content, typos in old imports).
func (c Catalog) Get(name string) (Hero, bool) {
	h, ok := c[name]
	return h, ok
}

// Default returns the built-in catalog covering the base box and the first
// two expansion waves.
func Default() Catalog {
	heroes := []Hero{
		{Name: "Arien", Role: RoleTactical, Complexity: 2, Expansion: "base"},
		{Name: "Brogan", Role: RoleTank, Complexity: 1, Expansion: "base"},
		{Name: "Dodger", Role: RoleRanged, Complexity: 2, Expansion: "base"},
		{Name: "Sabina", Role: RoleTactical, Complexity: 1, Expansion: "base"},
		{Name: "Tigerclaw", Role: RoleFighter, Complexity: 2, Expansion: "base"},
		{Name: "Wasp", Role: RoleFighter, Complexity: 1, Expansion: "base"},
		{Name: "Xargatha", Role: RoleTank, Complexity: 2, Expansion: "base"},
		{Name: "Bain", Role: RoleRanged, Complexity: 3, Expansion: "wave1"},
		{Name: "Whisper", Role: RoleSupport, Complexity: 2, Expansion: "wave1"},
		{Name: "Misa", Role: RoleFighter, Complexity: 2, Expansion: "wave1"},
		{Name: "Ulric", Role: RoleSupport, Complexity: 3, Expansion: "wave1"},
		{Name: "Cutter", Role: RoleTactical, Complexity: 3, Expansion: "wave1"},
		{Name: "Mrak", Role: RoleTank, Complexity: 1, Expansion: "wave2"},
		{Name: "Tali", Role: RoleSupport, Complexity: 2, Expansion: "wave2"},
		{Name: "Swift", Role: RoleRanged, Complexity: 1, Expansion: "wave2"},
		{Name: "Brynn", Role: RoleFighter, Complexity: 2, Expansion: "wave2"},
		{Name: "Garrus", Role: RoleTank, Complexity: 3, Expansion: "wave2"},
		{Name: "Snorri", Role: RoleSupport, Complexity: 1, Expansion: "wave2"},
		{Name: "Wuk", Role: RoleTactical, Complexity: 2, Expansion: "wave2"},
		{Name: "Razzle", Role: RoleRanged, Complexity: 3, Expansion: "wave2"},
	}

	catalog := make(Catalog, len(heroes))
	for _, h := range heroes {
		catalog[h.Name] = h
	}

	return catalog
}
