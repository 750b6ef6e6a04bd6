package engine

// CardKind tags which deck a card came from.
type CardKind string

const (
	KindTrial  CardKind = "trial"
	KindFate   CardKind = "fate"
	KindChance CardKind = "chance"
	KindEvent  CardKind = "event"
)

// Card is implemented by every card variant. The orchestrator switches on the
// concrete type; each variant carries only the fields its effect needs.
type Card interface {
	Kind() CardKind
}

// TrialCard is a four-option quiz question.
type TrialCard struct {
	ID          string    `yaml:"id" json:"id"`
	Question    string    `yaml:"question" json:"question"`
	Options     [4]string `yaml:"options" json:"options"`
	AnswerIndex int       `yaml:"answer" json:"answerIndex"`
	Analysis    string    `yaml:"analysis" json:"analysis"`
	Quote       string    `yaml:"quote" json:"quote"`
	Generated   bool      `yaml:"-" json:"generated,omitempty"` // Produced by a quiz generator; never pooled.
}

func (TrialCard) Kind() CardKind { return KindTrial }

// Correct reports whether choice is the right option.
func (c TrialCard) Correct(choice int) bool { return choice == c.AnswerIndex }

// FateEffect is applied to the drawing player.
type FateEffect struct {
	MeatDelta  int  `yaml:"meat,omitempty" json:"meat,omitempty"`
	Pause      bool `yaml:"pause,omitempty" json:"pause,omitempty"`
	Teleport   *int `yaml:"teleport,omitempty" json:"teleport,omitempty"`
	Protection bool `yaml:"protection,omitempty" json:"protection,omitempty"`
}

// FateCard is drawn on FATE tiles.
type FateCard struct {
	ID          string     `yaml:"id" json:"id"`
	Title       string     `yaml:"title" json:"title"`
	Description string     `yaml:"description" json:"description"`
	Narrative   string     `yaml:"narrative" json:"narrative"`
	Effect      FateEffect `yaml:"effect" json:"effect"`
}

func (FateCard) Kind() CardKind { return KindFate }

// ChanceSpecial labels a chance card with a scripted mini-game. Specials are
// validated on load and shown to players; the orchestrator does not act on them.
type ChanceSpecial string

const (
	SpecialNone                        ChanceSpecial = ""
	SpecialRollOddEven                 ChanceSpecial = "ROLL_DICE_ODD_EVEN"
	SpecialShareExampleMeatOrPause     ChanceSpecial = "SHARE_EXAMPLE_MEAT_OR_PAUSE"
	SpecialShareZiluSpecialty          ChanceSpecial = "SHARE_ZILU_SPECIALTY"
	SpecialRollLowLoseHighGain         ChanceSpecial = "ROLL_DICE_1_3_LOSE_4_6_GAIN"
	SpecialRollHighMoveStartGain       ChanceSpecial = "ROLL_DICE_5_6_MOVE_START_GAIN_2"
	SpecialKongziLoseMeatOrPause       ChanceSpecial = "KONGZI_LOSE_MEAT_OR_PAUSE"
	SpecialSwapOrDiceBattle            ChanceSpecial = "SWAP_ZILU_OR_KONGZI_DICE_BATTLE"
	SpecialRollCompareNearest          ChanceSpecial = "ROLL_DICE_COMPARE_NEAREST_GAIN_MEAT_OR_PAUSE"
	SpecialRollSixGainTwo              ChanceSpecial = "ROLL_DICE_6_GAIN_2"
	SpecialShareExampleMeatOrLoseMeat  ChanceSpecial = "SHARE_EXAMPLE_MEAT_OR_LOSE_MEAT"
	SpecialShareExperienceMeat         ChanceSpecial = "SHARE_EXPERIENCE_MEAT"
	SpecialEvenMoveFurthestGiveNearest ChanceSpecial = "EVEN_MOVE_FURTHEST_GIVE_MEAT_NEAREST_GAIN_MEAT"
)

var chanceSpecials = map[ChanceSpecial]struct{}{
	SpecialNone:                        {},
	SpecialRollOddEven:                 {},
	SpecialShareExampleMeatOrPause:     {},
	SpecialShareZiluSpecialty:          {},
	SpecialRollLowLoseHighGain:         {},
	SpecialRollHighMoveStartGain:       {},
	SpecialKongziLoseMeatOrPause:       {},
	SpecialSwapOrDiceBattle:            {},
	SpecialRollCompareNearest:          {},
	SpecialRollSixGainTwo:              {},
	SpecialShareExampleMeatOrLoseMeat:  {},
	SpecialShareExperienceMeat:         {},
	SpecialEvenMoveFurthestGiveNearest: {},
}

// Valid reports whether s belongs to the closed set of specials.
func (s ChanceSpecial) Valid() bool {
	_, ok := chanceSpecials[s]
	return ok
}

// ChanceEffect is applied to the drawing player unless TargetPlayer names a seat.
type ChanceEffect struct {
	MeatDelta    int           `yaml:"meat,omitempty" json:"meat,omitempty"`
	Pause        bool          `yaml:"pause,omitempty" json:"pause,omitempty"`
	Teleport     *int          `yaml:"teleport,omitempty" json:"teleport,omitempty"`
	Special      ChanceSpecial `yaml:"special,omitempty" json:"special,omitempty"`
	TargetPlayer *int          `yaml:"target,omitempty" json:"targetPlayer,omitempty"`
}

// ChanceCard is drawn on CHANCE tiles.
type ChanceCard struct {
	ID        string       `yaml:"id" json:"id"`
	Title     string       `yaml:"title" json:"title"`
	Narrative string       `yaml:"narrative" json:"narrative"`
	Challenge string       `yaml:"challenge" json:"challenge"`
	Effect    ChanceEffect `yaml:"effect" json:"effect"`
}

func (ChanceCard) Kind() CardKind { return KindChance }

// EventEffect is the outcome of a narrative tile event.
type EventEffect string

const (
	EventPause    EventEffect = "PAUSE"
	EventLoseMeat EventEffect = "LOSE_MEAT"
	EventGainMeat EventEffect = "GAIN_MEAT"
)

// Valid reports whether e is a known event effect.
func (e EventEffect) Valid() bool {
	return e == EventPause || e == EventLoseMeat || e == EventGainMeat
}

// EventCard is the canned narrative bound to an EVENT tile by key.
type EventCard struct {
	Key         string      `yaml:"key" json:"key"`
	Title       string      `yaml:"title" json:"title"`
	Body        string      `yaml:"body" json:"body"`
	EffectLabel string      `yaml:"label" json:"effectLabel"`
	Effect      EventEffect `yaml:"effect" json:"effect"`
}

func (EventCard) Kind() CardKind { return KindEvent }
