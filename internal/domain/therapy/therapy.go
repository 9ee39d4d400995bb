package therapy

type Category string

const (
	CategoryDetoxification Category = "Detoxification"
	CategoryRejuvenation   Category = "Rejuvenation"
	CategoryTherapeutic    Category = "Therapeutic"
	CategoryPreventive     Category = "Preventive"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryDetoxification, CategoryRejuvenation, CategoryTherapeutic, CategoryPreventive:
		return true
	}
	return false
}

// UnknownName is shown in read models for a dangling therapyTypeId.
const UnknownName = "Unknown Therapy"

type TherapyType struct {
	ID                      string   `json:"id" yaml:"id"`
	Name                    string   `json:"name" yaml:"name"`
	Description             string   `json:"description" yaml:"description"`
	Duration                int      `json:"duration" yaml:"duration"` // minutes
	Price                   float64  `json:"price" yaml:"price"`
	PreparationInstructions []string `json:"preparationInstructions" yaml:"preparationInstructions"`
	PostCareInstructions    []string `json:"postCareInstructions" yaml:"postCareInstructions"`
	Category                Category `json:"category" yaml:"category"`
	Contraindications       []string `json:"contraindications" yaml:"contraindications"`
	Benefits                []string `json:"benefits" yaml:"benefits"`
}

// Validate checks the fields a catalog entry cannot do without.
func (t *TherapyType) Validate() error {
	if !t.Category.IsValid() {
		return ErrInvalidCategory
	}
	if t.Duration < 15 || t.Duration > 480 {
		return ErrInvalidDuration
	}
	if t.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}

func (t *TherapyType) Apply(cmd *UpdateTherapyCommand) error {
	next := *t
	if cmd.Name != nil {
		next.Name = *cmd.Name
	}
	if cmd.Description != nil {
		next.Description = *cmd.Description
	}
	if cmd.Duration != nil {
		next.Duration = *cmd.Duration
	}
	if cmd.Price != nil {
		next.Price = *cmd.Price
	}
	if cmd.PreparationInstructions != nil {
		next.PreparationInstructions = *cmd.PreparationInstructions
	}
	if cmd.PostCareInstructions != nil {
		next.PostCareInstructions = *cmd.PostCareInstructions
	}
	if cmd.Category != nil {
		next.Category = *cmd.Category
	}
	if cmd.Contraindications != nil {
		next.Contraindications = *cmd.Contraindications
	}
	if cmd.Benefits != nil {
		next.Benefits = *cmd.Benefits
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*t = next
	return nil
}

type UpdateTherapyCommand struct {
	Name                    *string   `json:"name"`
	Description             *string   `json:"description"`
	Duration                *int      `json:"duration"`
	Price                   *float64  `json:"price"`
	PreparationInstructions *[]string `json:"preparationInstructions"`
	PostCareInstructions    *[]string `json:"postCareInstructions"`
	Category                *Category `json:"category"`
	Contraindications       *[]string `json:"contraindications"`
	Benefits                *[]string `json:"benefits"`
}
