package supler_test

import (
	"context"

	supler "github.com/reoring/supler"
	"github.com/reoring/supler/codec"
	"github.com/reoring/supler/rules"
)

type address struct {
	Street string `json:"street"`
	Zip    string `json:"zip"`
}

type user struct {
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Email     string    `json:"email"`
	Admin     bool      `json:"admin"`
	Home      address   `json:"home"`
	Addresses []address `json:"addresses"`
}

type note struct {
	Text string `json:"text"`
}

// counters records which actions ran.
type counters struct {
	save, strict, reset, remove, noteSaved int
}

var addressForm = supler.NewForm[address](
	supler.Scalar(func(a *address) *string { return &a.Street }, codec.String()).Required(),
	supler.Scalar(func(a *address) *string { return &a.Zip }, codec.String()).
		Validate(rules.Pattern(`\d{2}-\d{3}`)),
)

func noteForm(c *counters) *supler.Form[note] {
	return supler.NewForm[note](
		supler.Scalar(func(n *note) *string { return &n.Text }, codec.String()).
			Required().Validate(rules.MaxLength(10)),
		supler.Action("keep", func(_ context.Context, n note) (supler.ActionResult[note], error) {
			c.noteSaved++
			n.Text += "!"
			return supler.Updated(n), nil
		}).ValidateWith(supler.ValidateAll),
	)
}

func userForm(c *counters) *supler.Form[user] {
	return supler.NewForm[user](
		supler.Scalar(func(u *user) *string { return &u.Name }, codec.String()).
			Label("label_name").Required().Validate(rules.MinLength(2)),
		supler.Scalar(func(u *user) *int { return &u.Age }, codec.Int()).
			Required().Validate(rules.Min(0)),
		supler.Scalar(func(u *user) *string { return &u.Email }, codec.String()).
			Validate(rules.Email()),
		supler.Scalar(func(u *user) *bool { return &u.Admin }, codec.Bool()).
			EnabledIf(func(u user) bool { return u.Name == "root" }),
		supler.Subform(func(u *user) *address { return &u.Home }, addressForm).
			IncludedIf(func(u user) bool { return u.Name != "nomad" }),
		supler.SubformList(func(u *user) *[]address { return &u.Addresses }, addressForm).
			MaxItems(3).
			ItemActions(supler.NewItemAction("remove", func(_ context.Context, u user, i int, _ address) (supler.ActionResult[user], error) {
				c.remove++
				out := append([]address(nil), u.Addresses[:i]...)
				u.Addresses = append(out, u.Addresses[i+1:]...)
				return supler.Updated(u), nil
			})),
		supler.Action("save", func(_ context.Context, u user) (supler.ActionResult[user], error) {
			c.save++
			return supler.Updated(u).WithCustomData(map[string]any{"saved": true}), nil
		}).ValidateWith(supler.ValidateFilled),
		supler.Action("strict", func(_ context.Context, u user) (supler.ActionResult[user], error) {
			c.strict++
			return supler.Updated(u), nil
		}).ValidateWith(supler.ValidateAll),
		supler.Action("reset", func(context.Context, user) (supler.ActionResult[user], error) {
			c.reset++
			return supler.CustomResult[user](map[string]any{"x": 1}), nil
		}),
		supler.Modal("note", func(u user) note { return note{Text: u.Name} }, noteForm(c)),
		supler.Static("summary", func(u user) string { return u.Name + " (" + u.Email + ")" }, codec.String()),
	)
}

func alice() user {
	return user{
		Name:      "Alice",
		Age:       30,
		Email:     "alice@example.com",
		Home:      address{Street: "Main 1", Zip: "00-001"},
		Addresses: []address{{Street: "Side 2", Zip: "00-002"}},
	}
}
