package entity

import "github.com/Online-Ugyvitel/ddata-core/internal/domain/model"

// DefaultTagColor is used when a tag payload carries no color.
const DefaultTagColor = "#cccccc"

// Tag is a label chip attached to other records.
type Tag struct {
	model.Base
	ID      model.ID
	Name    string
	Color   string
	Counter int64
}

var tagRules = model.Rules{}.
	Add("name", model.RuleRequired, model.RuleString).
	Add("color", model.RuleString).
	Add("counter", model.RuleInteger, model.RuleNullable)

// NewTag returns an empty Tag.
func NewTag() *Tag {
	return &Tag{}
}

// APIEndpoint implements model.Record.
func (*Tag) APIEndpoint() string { return "/tag" }

// ModelName implements model.Record.
func (*Tag) ModelName() string { return "Tag" }

// ValidationRules implements model.Record.
func (*Tag) ValidationRules() model.Rules { return tagRules }

// Fields implements model.Record. Color keeps the truthiness policy so that
// an empty color coming from older clients still renders with the default.
func (t *Tag) Fields() model.Fields {
	return model.Fields{
		model.IDField("id", &t.ID),
		model.String("name", &t.Name, ""),
		model.String("color", &t.Color, DefaultTagColor).Truthy(),
		model.Int("counter", &t.Counter, 0),
	}
}

// Init hydrates t from data in place and returns t.
func (t *Tag) Init(data any) *Tag {
	return model.Init(t, data)
}

// PrepareToSave returns the plain payload of t.
func (t *Tag) PrepareToSave() model.Payload {
	return model.PrepareToSave(t)
}

// Validate recomputes the validation state of t.
func (t *Tag) Validate() bool {
	return model.Validate(t)
}
