package codecs

import (
	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/cfgcache/internal/engine/codec"
)

const taskOwner = "domain.Task"

// taskCodec tracks tasks in the pass-wide identity table, so a task reached from inside
// another task's isolate still decodes to the one shared instance. Name, project and
// dependencies are written in the enclosing isolate; the rest of the state in an isolate
// owned by the task.
type taskCodec struct {
	registry *codec.Registry
}

func (c *taskCodec) Encode(ctx *codec.WriteContext, v any) error {
	t := v.(*domain.Task)
	return ctx.EncodePreservingGlobalIdentityOf(t, func() error {
		return ctx.WithProperty(domain.TraceTask, t.Path(), "", func() error {
			if err := writeField(ctx, "Name", t.Name); err != nil {
				return err
			}
			if err := writeField(ctx, "Project", t.Project); err != nil {
				return err
			}
			if err := writeField(ctx, "Dependencies", t.Dependencies); err != nil {
				return err
			}
			ctx.PushIsolate(t, c.registry)
			defer ctx.Pop()
			if err := writeField(ctx, "Command", t.Command); err != nil {
				return err
			}
			if err := writeField(ctx, "Inputs", t.Inputs); err != nil {
				return err
			}
			if err := writeField(ctx, "Outputs", t.Outputs); err != nil {
				return err
			}
			if err := writeField(ctx, "Environment", t.Environment); err != nil {
				return err
			}
			return writeField(ctx, "Action", t.Action)
		})
	})
}

func (c *taskCodec) Decode(ctx *codec.ReadContext) (any, error) {
	return ctx.DecodePreservingGlobalIdentity(func(id int) (any, error) {
		t := &domain.Task{}
		ctx.RegisterGlobalInstance(id, t)
		var err error
		if t.Name, err = readField[domain.InternedString](ctx, "Name"); err != nil {
			return nil, err
		}
		err = ctx.WithProperty(domain.TraceTask, t.Path(), "", func() error {
			return c.decodeState(ctx, t)
		})
		if err != nil {
			return nil, err
		}
		return t, nil
	})
}

func (c *taskCodec) decodeState(ctx *codec.ReadContext, t *domain.Task) error {
	var err error
	if t.Project, err = readField[*domain.Project](ctx, "Project"); err != nil {
		return err
	}
	if t.Dependencies, err = readField[[]*domain.Task](ctx, "Dependencies"); err != nil {
		return err
	}
	ctx.PushIsolate(t, c.registry)
	defer ctx.Pop()
	if t.Command, err = readField[[]string](ctx, "Command"); err != nil {
		return err
	}
	if t.Inputs, err = readField[domain.FileCollection](ctx, "Inputs"); err != nil {
		return err
	}
	if t.Outputs, err = readField[[]domain.InternedString](ctx, "Outputs"); err != nil {
		return err
	}
	if t.Environment, err = readField[map[string]string](ctx, "Environment"); err != nil {
		return err
	}
	t.Action, err = readField[*domain.Closure](ctx, "Action")
	return err
}

func writeField(ctx *codec.WriteContext, name string, v any) error {
	return ctx.WithProperty(domain.TraceField, name, taskOwner, func() error {
		return ctx.Write(v)
	})
}

func readField[T any](ctx *codec.ReadContext, name string) (T, error) {
	var v T
	err := ctx.WithProperty(domain.TraceField, name, taskOwner, func() error {
		var err error
		v, err = readAs[T](ctx)
		return err
	})
	return v, err
}
