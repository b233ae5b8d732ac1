// Package scoring implements DraftKings classic NFL scoring, including
// the yardage bonus tiers and the DST points-allowed brackets.
package scoring

// Rules holds the per-event point weights. DraftKings values are the
// default; the struct exists so alternate sites can be slotted in.
type Rules struct {
	PassYard      float64
	PassTD        float64
	Interception  float64
	RushYard      float64
	RecYard       float64
	Reception     float64
	TD            float64
	FumbleLost    float64
	Pass300Bonus  float64
	Pass400Bonus  float64
	Rush100Bonus  float64
	Rec100Bonus   float64
	Sack          float64
	DefInt        float64
	FumbleRecover float64
	DefTD         float64
}

// DraftKings returns the classic NFL slate scoring rules.
func DraftKings() Rules {
	return Rules{
		PassYard:      0.04,
		PassTD:        4,
		Interception:  -1,
		RushYard:      0.1,
		RecYard:       0.1,
		Reception:     1,
		TD:            6,
		FumbleLost:    -1,
		Pass300Bonus:  3,
		Pass400Bonus:  3,
		Rush100Bonus:  3,
		Rec100Bonus:   3,
		Sack:          1,
		DefInt:        2,
		FumbleRecover: 2,
		DefTD:         6,
	}
}

// PassingPoints scores a passing stat line. The 400-yard bonus stacks
// on top of the 300-yard bonus.
func (r Rules) PassingPoints(yards float64, tds, ints int) float64 {
	pts := yards*r.PassYard + float64(tds)*r.PassTD + float64(ints)*r.Interception
	if yards >= 300 {
		pts += r.Pass300Bonus
	}
	if yards >= 400 {
		pts += r.Pass400Bonus
	}
	return pts
}

// RushingPoints scores a rushing stat line including the century bonus.
func (r Rules) RushingPoints(yards float64, tds int) float64 {
	pts := yards*r.RushYard + float64(tds)*r.TD
	if yards >= 100 {
		pts += r.Rush100Bonus
	}
	return pts
}

// ReceivingPoints scores a receiving stat line including full PPR and
// the century bonus.
func (r Rules) ReceivingPoints(yards float64, receptions, tds int) float64 {
	pts := yards*r.RecYard + float64(receptions)*r.Reception + float64(tds)*r.TD
	if yards >= 100 {
		pts += r.Rec100Bonus
	}
	return pts
}

// DSTPoints scores a defense/special teams line.
func (r Rules) DSTPoints(sacks, ints, fumbles, tds int, pointsAllowed float64) float64 {
	pts := float64(sacks)*r.Sack +
		float64(ints)*r.DefInt +
		float64(fumbles)*r.FumbleRecover +
		float64(tds)*r.DefTD
	return pts + pointsAllowedBracket(pointsAllowed)
}

// pointsAllowedBracket is the DraftKings points-allowed tier table.
func pointsAllowedBracket(pa float64) float64 {
	switch {
	case pa <= 0:
		return 10
	case pa <= 6:
		return 7
	case pa <= 13:
		return 4
	case pa <= 20:
		return 1
	case pa <= 27:
		return 0
	case pa <= 34:
		return -1
	default:
		return -4
	}
}
