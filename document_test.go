package supler_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tidwall/gjson"

	supler "github.com/reoring/supler"
	"github.com/reoring/supler/i18n"
)

func TestGenerateJSON_DocumentShape(t *testing.T) {
	var c counters
	doc := supler.NewInitial(userForm(&c), alice()).GenerateJSON().(map[string]any)
	for _, k := range []string{"is_supler_form", "main_form", "errors", "custom_data"} {
		if _, ok := doc[k]; !ok {
			t.Fatalf("missing %q in %v", k, doc)
		}
	}
	if _, ok := doc[supler.KeyMeta]; ok {
		t.Fatalf("empty meta must be omitted")
	}
	if doc["custom_data"] != nil {
		t.Fatalf("unexpected custom data %v", doc["custom_data"])
	}
}

func TestGenerateJSON_ScalarField(t *testing.T) {
	var c counters
	fields := userForm(&c).GenerateJSON(alice())["fields"].([]any)
	want := map[string]any{
		"name":        "name",
		"type":        "string",
		"label":       "label_name",
		"path":        "name",
		"enabled":     true,
		"value":       "Alice",
		"empty_value": "",
		"validate":    map[string]any{"required": true, "min_length": 2},
	}
	if diff := cmp.Diff(want, fields[0]); diff != "" {
		t.Fatalf("name field mismatch (-want +got):\n%s", diff)
	}
	admin := fields[3].(map[string]any)
	if admin["enabled"] != false {
		t.Fatalf("admin must render disabled: %v", admin)
	}
}

func TestGenerateJSON_Marshalled(t *testing.T) {
	var c counters
	raw, err := supler.NewInitial(userForm(&c), alice()).MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	doc := gjson.ParseBytes(raw)
	if !doc.Get("is_supler_form").Bool() {
		t.Fatalf("missing marker: %s", raw)
	}
	if got := doc.Get("main_form.fields.#.name").String(); got != `["name","age","email","admin","home","addresses","save","strict","reset","note","summary"]` {
		t.Fatalf("unexpected field order %s", got)
	}
	home := doc.Get(`main_form.fields.#(name=="home")`)
	if home.Get("multiple").Bool() || home.Get("value.fields.1.path").String() != "home.zip" {
		t.Fatalf("unexpected subform: %s", home.Raw)
	}
	if got := doc.Get(`main_form.fields.#(name=="summary").value`).String(); got != "Alice (alice@example.com)" {
		t.Fatalf("unexpected static value %q", got)
	}
	if got := doc.Get(`main_form.fields.#(name=="save").validation_scope.name`).String(); got != "filled" {
		t.Fatalf("unexpected action scope %q", got)
	}
}

func TestGenerateJSON_ListElements(t *testing.T) {
	var c counters
	raw, err := supler.NewInitial(userForm(&c), alice()).MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	list := gjson.GetBytes(raw, `main_form.fields.#(name=="addresses")`)
	if !list.Get("multiple").Bool() || list.Get("validate.max_items").Int() != 3 {
		t.Fatalf("unexpected list: %s", list.Raw)
	}
	paths := list.Get("value.0.fields.#.path").String()
	if paths != `["addresses[0].street","addresses[0].zip","addresses[0].remove"]` {
		t.Fatalf("unexpected element paths %s", paths)
	}
}

func TestGenerateJSON_ExcludedFieldOmitted(t *testing.T) {
	var c counters
	u := alice()
	u.Name = "nomad"
	fields := userForm(&c).GenerateJSON(u)["fields"].([]any)
	for _, fd := range fields {
		if fd.(map[string]any)["name"] == "home" {
			t.Fatalf("excluded subform rendered")
		}
	}
	if _, ok := userForm(&c).ValuesJSON(u)["home"]; ok {
		t.Fatalf("excluded subform in values")
	}
}

func TestGenerateJSON_ErrorsTranslated(t *testing.T) {
	var c counters
	d, err := supler.NewInitial(userForm(&c), user{Name: "Alice", Home: address{Street: "x"}}).
		Process(context.Background(), []byte(`{}`))
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	doc := d.GenerateJSON().(map[string]any)
	want := []any{map[string]any{"path": "age", "code": "required", "message": "value is required"}}
	if diff := cmp.Diff(want, doc["errors"]); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMeta_RoundTrip(t *testing.T) {
	var c counters
	fwo := supler.NewInitial(userForm(&c), alice())
	d, err := fwo.Process(context.Background(), []byte(`{"supler_meta":{"rev":"7","n":1}}`))
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	f := asForm(t, d)
	if v, _ := f.Meta().Get("rev"); v != "7" {
		t.Fatalf("meta not kept: %v", f.Meta().ToMap())
	}
	doc := f.GenerateJSON().(map[string]any)
	if diff := cmp.Diff(map[string]any{"rev": "7", "n": "1"}, doc[supler.KeyMeta]); diff != "" {
		t.Fatalf("meta mismatch (-want +got):\n%s", diff)
	}

	d, err = fwo.Process(context.Background(), []byte(`{"supler_meta":{"rev":"8"},"supler_action":"save"}`))
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if v, _ := asForm(t, d).Meta().Get("rev"); v != "8" {
		t.Fatalf("meta must survive actions")
	}

	if _, err := fwo.Process(context.Background(), []byte(`{"supler_meta":{"a":[1]}}`)); err == nil {
		t.Fatalf("expected error for structured meta value")
	}
}

func TestConfig_Translator(t *testing.T) {
	var c counters
	tr := i18n.Dict(map[string]string{"label_name": "<b>Name</b>"}, i18n.Builtin("ja"))
	form := userForm(&c).WithConfig(&supler.Config{Translator: tr, SanitizeMessages: true})

	first := form.GenerateJSON(alice())["fields"].([]any)[0].(map[string]any)
	if first["label"] != "Name" {
		t.Fatalf("markup must be stripped: %q", first["label"])
	}

	raw := form.WithConfig(&supler.Config{Translator: tr})
	first = raw.GenerateJSON(alice())["fields"].([]any)[0].(map[string]any)
	if first["label"] != "<b>Name</b>" {
		t.Fatalf("unexpected label %q", first["label"])
	}

	errs := supler.NewInitial(form, user{}).DoValidate(supler.ValidateFilled).GenerateJSON().(map[string]any)["errors"].([]any)
	if msg := errs[0].(map[string]any)["message"]; msg != "必須項目です" {
		t.Fatalf("unexpected message %q", msg)
	}
}
