package supler

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

// Reserved payload keys. They are never treated as field values.
const (
	KeyModalPath = "supler_modal_path"
	KeyAction    = "supler_action"
	KeyShowModal = "supler_show_modal"
)

var reservedKeys = []string{KeyModalPath, KeyAction, KeyShowModal, KeyMeta}

// Payload is an incoming request body split into field values and the
// reserved markers that steer processing.
type Payload struct {
	values    map[string]any
	modalPath *Path
	action    *Path
	showModal *Path
	meta      Meta
}

// ParsePayload decodes a raw JSON request body. The body must be a JSON object.
// Numbers are kept as json.Number so codecs decide their precision.
func ParsePayload(raw []byte) (*Payload, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrInvalidPayload)
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrInvalidPayload)
	}

	p := &Payload{}
	var err error
	if p.modalPath, err = markerPath(doc, KeyModalPath); err != nil {
		return nil, err
	}
	if p.action, err = markerPath(doc, KeyAction); err != nil {
		return nil, err
	}
	if p.showModal, err = markerPath(doc, KeyShowModal); err != nil {
		return nil, err
	}
	if p.meta, err = metaFromJSON(doc); err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var values map[string]any
	if err := dec.Decode(&values); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	for _, k := range reservedKeys {
		delete(values, k)
	}
	p.values = values
	return p, nil
}

// NewPayload builds a payload programmatically from plain field values.
func NewPayload(values map[string]any) *Payload {
	cp := make(map[string]any, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return &Payload{values: cp}
}

// WithAction returns a copy requesting the action at p.
func (p *Payload) WithAction(path Path) *Payload {
	cp := *p
	cp.action = &path
	return &cp
}

// WithShowModal returns a copy requesting the modal at path to be shown.
func (p *Payload) WithShowModal(path Path) *Payload {
	cp := *p
	cp.showModal = &path
	return &cp
}

// WithModalPath returns a copy targeting the modal at path with its values.
func (p *Payload) WithModalPath(path Path) *Payload {
	cp := *p
	cp.modalPath = &path
	return &cp
}

// WithMeta returns a copy carrying m.
func (p *Payload) WithMeta(m Meta) *Payload {
	cp := *p
	cp.meta = m
	return &cp
}

// Values returns the field values (reserved keys removed).
func (p *Payload) Values() map[string]any { return p.values }

// Meta returns the meta sent with the payload.
func (p *Payload) Meta() Meta { return p.meta }

// ModalPath returns the modal targeted by the values, if any.
func (p *Payload) ModalPath() (Path, bool) { return derefPath(p.modalPath) }

// Action returns the requested action path, if any.
func (p *Payload) Action() (Path, bool) { return derefPath(p.action) }

// ShowModal returns the modal requested to be shown, if any.
func (p *Payload) ShowModal() (Path, bool) { return derefPath(p.showModal) }

// forModal strips the modal marker so the modal form sees a plain payload.
func (p *Payload) forModal() *Payload {
	cp := *p
	cp.modalPath = nil
	return &cp
}

func derefPath(p *Path) (Path, bool) {
	if p == nil {
		return EmptyPath, false
	}
	return *p, true
}

func markerPath(doc gjson.Result, key string) (*Path, error) {
	node := doc.Get(key)
	if !node.Exists() || node.Type == gjson.Null {
		return nil, nil
	}
	if node.Type != gjson.String {
		return nil, fmt.Errorf("%w: %s must be a string", ErrInvalidPayload, key)
	}
	p, err := ParsePath(node.Str)
	if err != nil {
		return nil, err
	}
	if p.IsEmpty() {
		return nil, nil
	}
	return &p, nil
}
