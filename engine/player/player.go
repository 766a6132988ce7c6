// Package player is the player/inventory collaborator the core reads skills
// from and hands items to. It owns no quest logic.
package player

import "github.com/dannifaze-code/wasteland-japan-sub000/types"

// Skill names the core reads.
const (
	SkillQuickHands = "quick_hands"
	SkillScavenger  = "scavenger"
	SkillToughness  = "toughness"
	SkillSpeech     = "speech"
	SkillAttack     = "attack"
)

// DefaultMaxHP is the hp of a fresh character.
const DefaultMaxHP = 100

// ItemStack is one inventory entry.
type ItemStack struct {
	ID  string `json:"id"`
	Qty int    `json:"qty"`
}

// Player holds the player's runtime state.
type Player struct {
	Skills      map[string]int `json:"skills"`
	Inventory   []ItemStack    `json:"inventory"`
	SkillPoints int            `json:"skill_points"`
	HP          int            `json:"hp"`
	MaxHP       int            `json:"max_hp"`
	Position    types.Vec2     `json:"position"`
	Facing      float64        `json:"facing"` // yaw in radians, 0 = +z
}

// New creates a player with the given starting skills.
func New(skills map[string]int) *Player {
	p := &Player{
		Skills:    map[string]int{},
		Inventory: []ItemStack{},
		HP:        DefaultMaxHP,
		MaxHP:     DefaultMaxHP,
	}
	for k, v := range skills {
		p.Skills[k] = v
	}
	return p
}

// Skill returns a skill level. Unknown skills are 0.
func (p *Player) Skill(name string) int {
	return p.Skills[name]
}

// HasItem reports whether the player carries at least one of the item.
func (p *Player) HasItem(id string) bool {
	return p.ItemCount(id) > 0
}

// ItemCount returns how many of the item the player carries.
func (p *Player) ItemCount(id string) int {
	for _, it := range p.Inventory {
		if it.ID == id {
			return it.Qty
		}
	}
	return 0
}

// AddItem adds qty of an item, stacking with an existing entry.
func (p *Player) AddItem(id string, qty int) {
	if qty <= 0 {
		return
	}
	for i := range p.Inventory {
		if p.Inventory[i].ID == id {
			p.Inventory[i].Qty += qty
			return
		}
	}
	p.Inventory = append(p.Inventory, ItemStack{ID: id, Qty: qty})
}

// RemoveItem removes up to qty of an item. Entries that reach zero are
// dropped. Returns false if the player had none.
func (p *Player) RemoveItem(id string, qty int) bool {
	for i := range p.Inventory {
		if p.Inventory[i].ID != id {
			continue
		}
		p.Inventory[i].Qty -= qty
		if p.Inventory[i].Qty <= 0 {
			p.Inventory = append(p.Inventory[:i], p.Inventory[i+1:]...)
		}
		return true
	}
	return false
}

// Damage lowers hp, clamping at zero. Returns remaining hp.
func (p *Player) Damage(amount int) int {
	p.HP -= amount
	if p.HP < 0 {
		p.HP = 0
	}
	return p.HP
}

// Heal raises hp up to MaxHP. Returns current hp.
func (p *Player) Heal(amount int) int {
	p.HP += amount
	if p.HP > p.MaxHP {
		p.HP = p.MaxHP
	}
	return p.HP
}

// Alive reports whether the player has hp left.
func (p *Player) Alive() bool {
	return p.HP > 0
}

// Clone returns a deep copy for saving.
func (p *Player) Clone() *Player {
	c := *p
	c.Skills = make(map[string]int, len(p.Skills))
	for k, v := range p.Skills {
		c.Skills[k] = v
	}
	c.Inventory = append([]ItemStack{}, p.Inventory...)
	return &c
}

// Normalize fills nil collections after decoding.
func (p *Player) Normalize() {
	if p.Skills == nil {
		p.Skills = map[string]int{}
	}
	if p.Inventory == nil {
		p.Inventory = []ItemStack{}
	}
	if p.MaxHP <= 0 {
		p.MaxHP = DefaultMaxHP
	}
}

// Pos returns the player's ground position.
func (p *Player) Pos() types.Vec2 { return p.Position }

// Heading returns the player's facing yaw.
func (p *Player) Heading() float64 { return p.Facing }
