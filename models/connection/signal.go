package connection

// Kind is the first field of every frame.
type Kind uint8

const (
	KindShot Kind = iota
	KindResult
	KindReady
	KindWin
	KindSpecial
	KindSpecialResult
)

const (
	fieldSeparator = ":"

	tokenShot          = "SHOT"
	tokenResult        = "RESULT"
	tokenReady         = "READY"
	tokenWin           = "WIN"
	tokenSpecial       = "SPECIAL"
	tokenSpecialResult = "SPECIAL_RESULT"

	outcomeHit  = "HIT"
	outcomeMiss = "MISS"
)

// Number of fields of each kind, the kind token included.
var fieldCount = map[Kind]int{
	KindShot:          3,
	KindResult:        4,
	KindReady:         1,
	KindWin:           1,
	KindSpecial:       4,
	KindSpecialResult: 2,
}

var kindByToken = map[string]Kind{
	tokenShot:          KindShot,
	tokenResult:        KindResult,
	tokenReady:         KindReady,
	tokenWin:           KindWin,
	tokenSpecial:       KindSpecial,
	tokenSpecialResult: KindSpecialResult,
}

func (k Kind) String() string {
	switch k {
	case KindShot:
		return tokenShot
	case KindResult:
		return tokenResult
	case KindReady:
		return tokenReady
	case KindWin:
		return tokenWin
	case KindSpecial:
		return tokenSpecial
	case KindSpecialResult:
		return tokenSpecialResult
	default:
		return "UNKNOWN"
	}
}

func outcome(hit bool) string {
	if hit {
		return outcomeHit
	}
	return outcomeMiss
}
