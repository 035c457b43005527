package supler

import (
	"context"
	"fmt"

	"github.com/reoring/supler/internal/ctxlog"
)

// ApplyKind discriminates ApplyResult.
type ApplyKind uint8

const (
	// ApplyParent: values were applied to the form's own object.
	ApplyParent ApplyKind = iota + 1
	// ApplyModal: values were applied to a modal form; the outer object is untouched.
	ApplyModal
)

// ApplyResult is the outcome of applying a submission.
type ApplyResult[T any] struct {
	kind      ApplyKind
	parent    *FormWithObject[T]
	modalPath Path
	modal     processor
}

func (r ApplyResult[T]) Kind() ApplyKind { return r.kind }

// Parent returns the updated form for ApplyParent results.
func (r ApplyResult[T]) Parent() (*FormWithObject[T], bool) {
	return r.parent, r.kind == ApplyParent
}

// Modal returns the modal path and the modal form with values applied for
// ApplyModal results.
func (r ApplyResult[T]) Modal() (Path, Data, bool) {
	if r.kind != ApplyModal {
		return Path{}, nil, false
	}
	return r.modalPath, r.modal, true
}

// processor is a FormWithObject with its object type erased, so modal forms
// of any type can be driven from the outer form.
type processor interface {
	Data
	apply(p *Payload) processor
	steps(ctx context.Context, p *Payload) (Data, error)
	withMeta(m Meta) processor
}

func (f *FormWithObject[T]) apply(p *Payload) processor { return f.applied(p) }
func (f *FormWithObject[T]) withMeta(m Meta) processor   { return f.WithMeta(m) }
func (f *FormWithObject[T]) steps(ctx context.Context, p *Payload) (Data, error) {
	return f.runSteps(ctx, p)
}

// applied writes the payload values onto a copy of the object. Validation
// errors, custom data and meta of the receiver are dropped; meta is taken
// from the payload.
func (f *FormWithObject[T]) applied(p *Payload) *FormWithObject[T] {
	obj, errs := f.form.applyValues(EmptyPath, f.obj, p.Values())
	return &FormWithObject[T]{
		kind:      DataWithErrors,
		form:      f.form,
		obj:       obj,
		applyErrs: errs,
		meta:      p.Meta(),
	}
}

// ApplyJSONValues parses raw and applies it; see ApplyPayload.
func (f *FormWithObject[T]) ApplyJSONValues(ctx context.Context, raw []byte) (ApplyResult[T], error) {
	p, err := ParsePayload(raw)
	if err != nil {
		return ApplyResult[T]{}, err
	}
	return f.ApplyPayload(ctx, p)
}

// ApplyPayload applies submitted values. With a modal marker the values go
// to the modal form at that path instead; a marker that does not address a
// modal field fails with ErrModalNotFound or ErrNotModal.
func (f *FormWithObject[T]) ApplyPayload(ctx context.Context, p *Payload) (ApplyResult[T], error) {
	mp, ok := p.ModalPath()
	if !ok {
		return ApplyResult[T]{kind: ApplyParent, parent: f.applied(p)}, nil
	}
	m, err := f.openModal(mp)
	if err != nil {
		return ApplyResult[T]{}, err
	}
	return ApplyResult[T]{kind: ApplyModal, modalPath: mp, modal: m.apply(p.forModal())}, nil
}

func (f *FormWithObject[T]) openModal(mp Path) (processor, error) {
	info, ok := f.form.lookup(mp)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModalNotFound, mp)
	}
	if info.Kind() != FieldModal {
		return nil, fmt.Errorf("%w: %s is a %s field", ErrNotModal, mp, info.Kind())
	}
	m, ok := f.form.findModal(EmptyPath, f.obj, mp, f.form.cfg)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModalNotFound, mp)
	}
	return m, nil
}

// Process parses raw and runs one request round trip; see ProcessPayload.
func (f *FormWithObject[T]) Process(ctx context.Context, raw []byte) (Data, error) {
	p, err := ParsePayload(raw)
	if err != nil {
		return nil, err
	}
	return f.ProcessPayload(ctx, p)
}

// ProcessPayload applies the submitted values, then either runs the
// requested action (only when validation under the action's scope passes),
// shows the requested modal (without validation), or validates the filled
// fields. Submissions addressed to a modal run the same steps on the modal
// form and are wrapped in a *ModalWithObject unless the modal's action
// returned custom data only.
//
// The returned error is non-nil only for malformed requests (matching
// ErrMalformedRequest) or failing actions.
func (f *FormWithObject[T]) ProcessPayload(ctx context.Context, p *Payload) (Data, error) {
	log := ctxlog.FromContext(ctx, f.form.Config().Logger)
	res, err := f.ApplyPayload(ctx, p)
	if err != nil {
		log.Debug("supler: rejected request", "error", err)
		return nil, err
	}
	switch res.kind {
	case ApplyModal:
		log.Debug("supler: modal submitted", "branch", "modal_apply", "path", res.modalPath.String())
		inner, err := res.modal.steps(ctx, p.forModal())
		if err != nil {
			return nil, err
		}
		if inner.Kind() == DataCustomOnly {
			return inner, nil
		}
		return &ModalWithObject{path: res.modalPath, inner: inner}, nil
	case ApplyParent:
		return res.parent.runSteps(ctx, p)
	default:
		return nil, fmt.Errorf("supler: unknown apply result kind %d", res.kind)
	}
}

func (f *FormWithObject[T]) runSteps(ctx context.Context, p *Payload) (Data, error) {
	log := ctxlog.FromContext(ctx, f.form.Config().Logger)

	if ap, ok := p.Action(); ok {
		if a, found := f.form.findAction(EmptyPath, f.obj, ap); found {
			validated := f.DoValidate(a.scope)
			if validated.HasErrors() {
				log.Debug("supler: action blocked by errors", "branch", "action_blocked",
					"path", ap.String(), "scope", a.scope.Name(), "errors", len(validated.Errors()))
				return validated, nil
			}
			log.Debug("supler: running action", "branch", "action", "path", ap.String())
			r, err := a.Run(ctx)
			if err != nil {
				return nil, fmt.Errorf("supler: action %s: %w", ap, err)
			}
			return f.actionData(r), nil
		}
		log.Debug("supler: action not found", "path", ap.String())
	}

	if sp, ok := p.ShowModal(); ok {
		if m, found := f.form.findModal(EmptyPath, f.obj, sp, f.form.cfg); found {
			log.Debug("supler: showing modal", "branch", "modal_show", "path", sp.String())
			return &ModalWithObject{path: sp, inner: m.withMeta(f.meta)}, nil
		}
		log.Debug("supler: modal not found", "path", sp.String())
	}

	log.Debug("supler: validating submission", "branch", "submit")
	return f.DoValidate(ValidateFilled), nil
}

func (f *FormWithObject[T]) actionData(r ActionResult[T]) Data {
	switch {
	case r.hasObj:
		out := NewInitial(f.form, r.obj).WithMeta(f.meta)
		if r.hasCustom {
			out = out.WithCustomData(r.custom)
		}
		return out
	case r.hasCustom:
		return NewCustomDataOnly(r.custom)
	default:
		return NewInitial(f.form, f.obj).WithMeta(f.meta)
	}
}
