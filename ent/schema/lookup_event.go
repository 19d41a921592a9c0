package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// LookupEvent records one word the learner asked the tutor about.
type LookupEvent struct {
	ent.Schema
}

func (LookupEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (LookupEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").NotEmpty(),
		field.String("word").NotEmpty(),
		field.Text("definition").Default(""),
		field.Bool("success"),
		field.String("error_message").Default(""),
	}
}
