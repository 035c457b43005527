// Package supler provides:
//
// - Declarative form descriptions over Go structs (Form, Field and its builders)
// - One request round trip per call: apply submitted JSON, validate, run an action or open a modal (Process)
// - A stable error model via FieldErrors (field path, code, params, translated message)
// - JSON documents for client-side renderers (GenerateJSON) and a JSON Schema of the submitted values
//
// Design policy:
// - Forms are immutable and shared; every result is a new value.
// - Malformed requests are Go errors matching ErrMalformedRequest; user input problems are FieldErrors.
// - Codecs live under codec/, validators under rules/, translations under i18n/, HTTP glue under middleware/.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  form := supler.NewForm[Person](
//      supler.Scalar(func(p *Person) *string { return &p.Name }, codec.String()).Required(),
//      supler.Action("save", save).ValidateWith(supler.ValidateAll),
//  )
//  data, err := supler.NewInitial(form, person).Process(ctx, body)
//  out, err := data.MarshalJSON()
//
// Actions reach application services through the context:
//
//  ctx = supler.WithService[Store](ctx, store)
//  store, err := supler.RequireService[Store](ctx)
package supler
