package domain

// DefaultReversedProbability is the per-card chance of a reversed draw.
const DefaultReversedProbability = 0.3

// Settings is the user preference record.
type Settings struct {
	Theme                   string  `json:"theme" validate:"oneof=dark light"`
	Language                string  `json:"language" validate:"oneof=zh en"`
	ReversedCardProbability float64 `json:"reversedCardProbability" validate:"gte=0,lte=1"`
	AutoSave                bool    `json:"autoSave"`
	SoundEnabled            bool    `json:"soundEnabled"`
	CardSize                string  `json:"cardSize" validate:"oneof=small medium large"`
	AnimationsEnabled       bool    `json:"animationsEnabled"`
	AutoReveal              bool    `json:"autoReveal"`
}

// DefaultSettings returns the first-run preferences.
func DefaultSettings() Settings {
	return Settings{
		Theme:                   "dark",
		Language:                "zh",
		ReversedCardProbability: DefaultReversedProbability,
		AutoSave:                true,
		SoundEnabled:            true,
		CardSize:                "medium",
		AnimationsEnabled:       true,
		AutoReveal:              false,
	}
}

// SettingsPatch is a partial update; nil fields are left unchanged.
type SettingsPatch struct {
	Theme                   *string  `json:"theme,omitempty"`
	Language                *string  `json:"language,omitempty"`
	ReversedCardProbability *float64 `json:"reversedCardProbability,omitempty"`
	AutoSave                *bool    `json:"autoSave,omitempty"`
	SoundEnabled            *bool    `json:"soundEnabled,omitempty"`
	CardSize                *string  `json:"cardSize,omitempty"`
	AnimationsEnabled       *bool    `json:"animationsEnabled,omitempty"`
	AutoReveal              *bool    `json:"autoReveal,omitempty"`
}

// Apply returns s with every non-nil field of p copied over.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.Language != nil {
		s.Language = *p.Language
	}
	if p.ReversedCardProbability != nil {
		s.ReversedCardProbability = *p.ReversedCardProbability
	}
	if p.AutoSave != nil {
		s.AutoSave = *p.AutoSave
	}
	if p.SoundEnabled != nil {
		s.SoundEnabled = *p.SoundEnabled
	}
	if p.CardSize != nil {
		s.CardSize = *p.CardSize
	}
	if p.AnimationsEnabled != nil {
		s.AnimationsEnabled = *p.AnimationsEnabled
	}
	if p.AutoReveal != nil {
		s.AutoReveal = *p.AutoReveal
	}
	return s
}
