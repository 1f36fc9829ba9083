package game

// WeaponKind identifies the weapon variant
type WeaponKind uint8

const (
	WeaponBasic WeaponKind = iota
	WeaponLaser
	WeaponPlasma
	WeaponRailgun
)

// WeaponDef holds the stats and cosmetic parameters of a weapon kind
type WeaponDef struct {
	Name          string
	Cooldown      int64 // ms
	Damage        int
	Speed         float64 // units/tick
	ExplosionSize float64
	Trail         bool
	Pulse         bool
	Spiral        bool
	FlashCount    int
	FlashSize     float64
	FlashDuration int64 // ms
	TrailLifetime int64 // ms
}

var weaponDefs = [4]WeaponDef{
	// Basic: starting blaster, no trail
	{
		Name: "basic", Cooldown: 150, Damage: 1, Speed: 1.5, ExplosionSize: 0.08,
		FlashCount: 5, FlashSize: 0.2, FlashDuration: 300, TrailLifetime: 300,
	},
	// Laser: fast thin beams
	{
		Name: "laser", Cooldown: 100, Damage: 1, Speed: 2.5, ExplosionSize: 0.05,
		Trail: true, Pulse: true,
		FlashCount: 8, FlashSize: 0.3, FlashDuration: 200, TrailLifetime: 300,
	},
	// Plasma: slow heavy orbs
	{
		Name: "plasma", Cooldown: 200, Damage: 3, Speed: 1.2, ExplosionSize: 0.15,
		Trail: true, Pulse: true, Spiral: true,
		FlashCount: 12, FlashSize: 0.4, FlashDuration: 400, TrailLifetime: 500,
	},
	// Railgun: very fast rounds
	{
		Name: "railgun", Cooldown: 80, Damage: 2, Speed: 3.5, ExplosionSize: 0.1,
		Trail: true,
		FlashCount: 6, FlashSize: 0.25, FlashDuration: 150, TrailLifetime: 200,
	},
}

// GetWeaponDef returns the definition for a weapon kind
func GetWeaponDef(kind WeaponKind) WeaponDef {
	if int(kind) >= len(weaponDefs) {
		return weaponDefs[WeaponBasic]
	}
	return weaponDefs[kind]
}

func (k WeaponKind) String() string {
	return GetWeaponDef(k).Name
}

// KindForTier maps an upgrade tier to its weapon kind. The mapping has
// period 3: 1,4,7… laser, 2,5,8… plasma, 3,6,9… railgun.
func KindForTier(tier int) WeaponKind {
	switch tier % 3 {
	case 1:
		return WeaponLaser
	case 2:
		return WeaponPlasma
	default:
		return WeaponRailgun
	}
}

// Weapon is the player's gun. Cooldown is derived from the kind and the
// active effects on every call and is never stored.
type Weapon struct {
	Tier     int
	Kind     WeaponKind
	lastShot int64
	hasShot  bool
}

// NewWeapon returns the starting weapon: tier 1, basic
func NewWeapon() Weapon {
	return Weapon{Tier: 1, Kind: WeaponBasic}
}

// Upgrade bumps the tier and switches to the kind for the new tier
func (w *Weapon) Upgrade() {
	w.Tier++
	w.Kind = KindForTier(w.Tier)
}

// Damage is the per-projectile damage of the current kind
func (w *Weapon) Damage() int {
	return GetWeaponDef(w.Kind).Damage
}

// Cooldown returns the current minimum time between shots in ms
func (w *Weapon) Cooldown(effects *EffectLedger) int64 {
	cd := GetWeaponDef(w.Kind).Cooldown
	if effects != nil && effects.Active(EffectRapidFire) {
		cd = RapidFireCooldown
	}
	if cd < 1 {
		cd = 1
	}
	return cd
}

// Ready reports whether a shot may be fired at now
func (w *Weapon) Ready(now int64, effects *EffectLedger) bool {
	return !w.hasShot || now-w.lastShot >= w.Cooldown(effects)
}

// MarkFired records a shot at now
func (w *Weapon) MarkFired(now int64) {
	w.lastShot = now
	w.hasShot = true
}
