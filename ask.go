package troupe

import "context"

// Ask sends msg to target and blocks for the first reply of shape R
// (spec.md §4.6). It only ever makes sense from inside a Handler, where
// scene names the asking actor: asking yourself deadlocks forever since
// nothing else can drive your own mailbox, so it fails fast with
// ErrSelfAsk instead (P6). Any messages taken off the mailbox while
// scanning for a match are replayed, in their original order, ahead of
// whatever arrived in the meantime (P3).
func Ask[R any, S any](scene *Scene[S], target ID, msg any) (R, error) {
	return askCtx[R](context.Background(), scene, target, msg)
}

// AskCtx is Ask bounded by ctx; if ctx is done before a matching reply
// arrives, stashed messages are still replayed and ctx.Err() is returned
// (spec.md §9 open question "should Ask honour a deadline" — resolved
// yes).
func AskCtx[R any, S any](ctx context.Context, scene *Scene[S], target ID, msg any) (R, error) {
	return askCtx[R](ctx, scene, target, msg)
}

func askCtx[R any, S any](ctx context.Context, scene *Scene[S], target ID, msg any) (R, error) {
	var zero R
	self := scene.c.self

	if target == self.id {
		return zero, ErrSelfAsk
	}

	if err := scene.c.stage.sayToID(target, self.id, true, msg); err != nil {
		return zero, err
	}

	var stashed []envelope
	for {
		e, status := self.box.takeCtx(ctx)
		switch status {
		case takeClosed:
			self.box.pushFront(stashed)
			return zero, ErrNoMatch
		case takeCancelled:
			self.box.pushFront(stashed)
			return zero, ctx.Err()
		}

		if reply, ok := e.msg.(R); ok {
			self.box.pushFront(stashed)
			return reply, nil
		}
		stashed = append(stashed, e)
	}
}
