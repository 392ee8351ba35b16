package river

import "context"

// Pipe drives w.Write(r.Read()) until end, writes the end item, and
// returns w. If w.Write fails with a StopError carrying None or Silent,
// that is a graceful early stop and is swallowed; a StopError carrying Err
// still propagates as an error, as does any non-StopError failure — both
// after stopping r with the triggering reason (spec §4.6).
func Pipe[T any](ctx context.Context, r Reader[T], w Writer[T]) (Writer[T], error) {
	for {
		item, err := r.Read(ctx)
		if err != nil {
			_ = r.Stop(StopErr(err))
			return w, err
		}
		if item.End {
			_ = w.Write(ctx, item)
			return w, nil
		}
		if werr := w.Write(ctx, item); werr != nil {
			if reason, ok := AsStopReason(werr); ok {
				_ = r.Stop(reason)
				if reason.IsErr() {
					return w, reason.Err()
				}
				return w, nil
			}
			_ = r.Stop(StopErr(werr))
			return w, werr
		}
	}
}
