package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// SessionEvent records a quiz cycle starting, completing or being quit.
type SessionEvent struct {
	ent.Schema
}

func (SessionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (SessionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("UUID grouping events in a session"),
		field.Enum("action").
			Values("start", "complete", "quit"),
		field.String("mode").Default(""),
		field.Int("questions").
			Default(0).
			Comment("Questions answered (complete and quit only)"),
		field.Int("correct").Default(0),
		field.Int("mistakes").
			Default(0).
			Comment("Words left to review when the cycle ended"),
	}
}
