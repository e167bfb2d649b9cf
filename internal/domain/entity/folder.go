package entity

import (
	"errors"

	"github.com/Online-Ugyvitel/ddata-core/internal/domain/model"
)

// Folder is a node of the document folder hierarchy.
type Folder struct {
	model.Base
	ID            model.ID
	ParentID      model.ID
	Description   string
	Name          string
	IsHighlighted bool
	URI           string
}

var folderRules = model.Rules{}.
	Add("id", model.RuleInteger, model.RuleNullable).
	Add("parent_id", model.RuleInteger, model.RuleNullable).
	Add("name", model.RuleRequired, model.RuleString).
	Add("description", model.RuleString, model.RuleNullable).
	Add("uri", model.RuleString, model.RuleNullable)

// NewFolder returns an empty Folder. The zero value is equally usable.
func NewFolder() *Folder {
	return &Folder{}
}

// APIEndpoint implements model.Record.
func (*Folder) APIEndpoint() string { return "/folder" }

// ModelName implements model.Record.
func (*Folder) ModelName() string { return "Folder" }

// ValidationRules implements model.Record.
func (*Folder) ValidationRules() model.Rules { return folderRules }

// Fields implements model.Record.
func (f *Folder) Fields() model.Fields {
	return model.Fields{
		model.IDField("id", &f.ID),
		model.IDField("parent_id", &f.ParentID),
		model.String("description", &f.Description, ""),
		model.String("name", &f.Name, ""),
		model.Bool("is_highlighted", &f.IsHighlighted, false),
		model.String("uri", &f.URI, ""),
	}
}

// Init hydrates f from data in place and returns f.
func (f *Folder) Init(data any) *Folder {
	return model.Init(f, data)
}

// PrepareToSave returns the plain payload of f.
func (f *Folder) PrepareToSave() model.Payload {
	return model.PrepareToSave(f)
}

// Validate recomputes the validation state of f.
func (f *Folder) Validate() bool {
	return model.Validate(f)
}

// ExtraValidation checks the URI format, which the rule table cannot express.
func (f *Folder) ExtraValidation() []model.FieldError {
	err := ValidateURI(f.URI)
	if err == nil {
		return nil
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return []model.FieldError{{Field: ve.Field, Message: ve.Message}}
	}
	return []model.FieldError{{Field: "uri", Message: err.Error()}}
}

// IsRoot reports whether the folder has no parent.
func (f *Folder) IsRoot() bool {
	return f.ParentID.IsZero()
}

// FolderNode is a folder together with its sub-folders, as returned by the
// folder tree endpoint.
type FolderNode struct {
	model.Base
	Folder   model.Optional[*Folder]
	Children []*FolderNode
}

var folderNodeRules = model.Rules{}.
	Add("folder", model.RuleRequired)

// NewFolderNode returns an empty FolderNode.
func NewFolderNode() *FolderNode {
	return &FolderNode{}
}

// APIEndpoint implements model.Record.
func (*FolderNode) APIEndpoint() string { return "/folder/tree" }

// ModelName implements model.Record.
func (*FolderNode) ModelName() string { return "FolderNode" }

// ValidationRules implements model.Record.
func (*FolderNode) ValidationRules() model.Rules { return folderNodeRules }

// Fields implements model.Record.
func (n *FolderNode) Fields() model.Fields {
	return model.Fields{
		model.Nested("folder", &n.Folder, NewFolder),
		model.List("children", &n.Children, NewFolderNode),
	}
}

// Init hydrates n from data in place and returns n.
func (n *FolderNode) Init(data any) *FolderNode {
	return model.Init(n, data)
}

// PrepareToSave returns the plain payload of the whole tree below n.
func (n *FolderNode) PrepareToSave() model.Payload {
	return model.PrepareToSave(n)
}

// Validate recomputes the validation state of n. Children are not validated.
func (n *FolderNode) Validate() bool {
	return model.Validate(n)
}

// Walk calls fn for every folder in the tree, depth first, with its depth.
func (n *FolderNode) Walk(fn func(f *Folder, depth int)) {
	n.walk(fn, 0)
}

func (n *FolderNode) walk(fn func(f *Folder, depth int), depth int) {
	if f, ok := n.Folder.Get(); ok {
		fn(f, depth)
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}
