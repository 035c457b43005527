package supler

// RenderHint tells frontends how to present a field. Name is free-form;
// the engine knows "password", "textarea", "radio", "dropdown", "checkbox",
// "table", "list", "hidden" and "date". Rows and Cols apply to textareas.
type RenderHint struct {
	Name string
	Rows int
	Cols int
}

var (
	HintPassword = RenderHint{Name: "password"}
	HintRadio    = RenderHint{Name: "radio"}
	HintDropdown = RenderHint{Name: "dropdown"}
	HintCheckbox = RenderHint{Name: "checkbox"}
	HintTable    = RenderHint{Name: "table"}
	HintList     = RenderHint{Name: "list"}
	HintHidden   = RenderHint{Name: "hidden"}
	HintDate     = RenderHint{Name: "date"}
)

// HintTextarea renders a multi-line text input; zero sizes are omitted.
func HintTextarea(rows, cols int) RenderHint {
	return RenderHint{Name: "textarea", Rows: rows, Cols: cols}
}

func (h RenderHint) toJSON() map[string]any {
	out := map[string]any{"name": h.Name}
	if h.Rows > 0 {
		out["rows"] = h.Rows
	}
	if h.Cols > 0 {
		out["cols"] = h.Cols
	}
	return out
}
