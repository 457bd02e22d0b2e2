package catalog

// View is a Definition rendered for one locale, shaped for encoding.
type View struct {
	Name        string      `json:"name"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Locale      Locale      `json:"locale"`
	Dir         string      `json:"dir"`
	Fields      []FieldView `json:"fields,omitempty"`
}

// FieldView is a FieldSpec rendered for one locale.
type FieldView struct {
	Name        string       `json:"name"`
	Type        FieldType    `json:"type"`
	Label       string       `json:"label"`
	Placeholder string       `json:"placeholder,omitempty"`
	Required    bool         `json:"required,omitempty"`
	Options     []OptionView `json:"options,omitempty"`
}

// OptionView is an Option rendered for one locale.
type OptionView struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// View renders d for l.
func (d *Definition) View(l Locale) View {
	v := View{
		Name:        d.Name,
		Title:       d.Title.In(l),
		Description: d.Description.In(l),
		Locale:      l,
		Dir:         l.Dir(),
		Fields:      make([]FieldView, 0, len(d.Fields)),
	}
	for _, f := range d.Fields {
		fv := FieldView{
			Name:        f.Name,
			Type:        f.Type,
			Label:       f.Label.In(l),
			Placeholder: f.Placeholder.In(l),
			Required:    f.Required,
		}
		for _, o := range f.Options {
			fv.Options = append(fv.Options, OptionView{Value: o.Value, Label: o.Label.In(l)})
		}
		v.Fields = append(v.Fields, fv)
	}
	return v
}

// Summary renders d for l without its fields.
func (d *Definition) Summary(l Locale) View {
	return View{
		Name:        d.Name,
		Title:       d.Title.In(l),
		Description: d.Description.In(l),
		Locale:      l,
		Dir:         l.Dir(),
	}
}
