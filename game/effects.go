package game

// EffectKind identifies a timed effect
type EffectKind uint8

const (
	EffectShield EffectKind = iota
	EffectRapidFire
	EffectTripleShot
	effectCount
)

var effectNames = [effectCount]string{"shield", "rapidfire", "tripleshot"}

func (k EffectKind) String() string {
	if k >= effectCount {
		return "unknown"
	}
	return effectNames[k]
}

// EffectLedger tracks the remaining time of active timed effects. An effect
// is active exactly while it has an entry.
type EffectLedger struct {
	remaining [effectCount]int64
	active    [effectCount]bool
}

// Set starts (or restarts) an effect with the given duration in ms.
// A non-positive duration removes the entry.
func (l *EffectLedger) Set(kind EffectKind, ms int64) {
	if kind >= effectCount {
		return
	}
	if ms <= 0 {
		l.remaining[kind] = 0
		l.active[kind] = false
		return
	}
	l.remaining[kind] = ms
	l.active[kind] = true
}

// Active reports whether the effect has an entry
func (l *EffectLedger) Active(kind EffectKind) bool {
	return kind < effectCount && l.active[kind]
}

// Remaining returns the remaining ms, or 0 when inactive
func (l *EffectLedger) Remaining(kind EffectKind) int64 {
	if !l.Active(kind) {
		return 0
	}
	return l.remaining[kind]
}

// RemainingSeconds rounds the remaining time up to whole seconds
func (l *EffectLedger) RemainingSeconds(kind EffectKind) int {
	ms := l.Remaining(kind)
	return int((ms + 999) / 1000)
}

// Tick counts every entry down by delta ms and removes the ones that ran
// out. The expired kinds are returned in kind order.
func (l *EffectLedger) Tick(delta int64) []EffectKind {
	var expired []EffectKind
	for k := EffectKind(0); k < effectCount; k++ {
		if !l.active[k] {
			continue
		}
		l.remaining[k] -= delta
		if l.remaining[k] <= 0 {
			l.remaining[k] = 0
			l.active[k] = false
			expired = append(expired, k)
		}
	}
	return expired
}

// Clear removes every entry
func (l *EffectLedger) Clear() {
	*l = EffectLedger{}
}
