package core

// CommunicationStyle describes how the assistant should talk to a user.
type CommunicationStyle string

const (
	StyleDirect     CommunicationStyle = "direct"
	StyleSupportive CommunicationStyle = "supportive"
	StyleAnalytical CommunicationStyle = "analytical"
	StyleEmpathetic CommunicationStyle = "empathetic"
)

// Valid reports whether s is one of the known communication styles.
func (s CommunicationStyle) Valid() bool {
	switch s {
	case StyleDirect, StyleSupportive, StyleAnalytical, StyleEmpathetic:
		return true
	}
	return false
}

// EmotionalState is the user's coarse emotional baseline tracked across turns.
type EmotionalState string

const (
	StateStable    EmotionalState = "stable"
	StateAnxious   EmotionalState = "anxious"
	StateDepressed EmotionalState = "depressed"
	StateExcited   EmotionalState = "excited"
	StateConfused  EmotionalState = "confused"
)

// Valid reports whether s is one of the known emotional states.
func (s EmotionalState) Valid() bool {
	switch s {
	case StateStable, StateAnxious, StateDepressed, StateExcited, StateConfused:
		return true
	}
	return false
}

// Approach is the conversational approach the user responds best to.
type Approach string

const (
	ApproachCBT           Approach = "cbt"
	ApproachHumanistic    Approach = "humanistic"
	ApproachBehavioral    Approach = "behavioral"
	ApproachPsychodynamic Approach = "psychodynamic"
)

// Valid reports whether a is one of the known approaches.
func (a Approach) Valid() bool {
	switch a {
	case ApproachCBT, ApproachHumanistic, ApproachBehavioral, ApproachPsychodynamic:
		return true
	}
	return false
}

// TraitVector is a user's evolving personality profile: five continuous
// Big Five traits, each clamped to [0,1], plus three categorical fields.
// It is mutated only through the trait tracker's ApplyDelta.
type TraitVector struct {
	Openness          float64 `json:"openness"`
	Conscientiousness float64 `json:"conscientiousness"`
	Extraversion      float64 `json:"extraversion"`
	Agreeableness     float64 `json:"agreeableness"`
	Neuroticism       float64 `json:"neuroticism"`

	Style    CommunicationStyle `json:"communication_style"`
	State    EmotionalState     `json:"emotional_state"`
	Approach Approach           `json:"preferred_approach"`
}

// NeutralTraits returns the default vector assigned to a user on first
// contact: 0.5 for every continuous trait and neutral categorical values.
func NeutralTraits() TraitVector {
	return TraitVector{
		Openness:          0.5,
		Conscientiousness: 0.5,
		Extraversion:      0.5,
		Agreeableness:     0.5,
		Neuroticism:       0.5,
		Style:             StyleSupportive,
		State:             StateStable,
		Approach:          ApproachHumanistic,
	}
}

// TraitDelta is a bounded per-turn adjustment to a TraitVector. Continuous
// fields are added to the current values; categorical fields replace the
// current value only when non-empty.
type TraitDelta struct {
	Openness          float64 `json:"openness,omitempty"`
	Conscientiousness float64 `json:"conscientiousness,omitempty"`
	Extraversion      float64 `json:"extraversion,omitempty"`
	Agreeableness     float64 `json:"agreeableness,omitempty"`
	Neuroticism       float64 `json:"neuroticism,omitempty"`

	Style    CommunicationStyle `json:"communication_style,omitempty"`
	State    EmotionalState     `json:"emotional_state,omitempty"`
	Approach Approach           `json:"preferred_approach,omitempty"`
}

// IsZero reports whether the delta would leave a vector unchanged.
func (d *TraitDelta) IsZero() bool {
	if d == nil {
		return true
	}
	return d.Openness == 0 && d.Conscientiousness == 0 && d.Extraversion == 0 &&
		d.Agreeableness == 0 && d.Neuroticism == 0 &&
		d.Style == "" && d.State == "" && d.Approach == ""
}

// Clamp01 clamps v to the [0,1] range every continuous trait lives in.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
