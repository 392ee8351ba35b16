package river

import "context"

// PeekableReader augments Reader with Peek and Unread, per spec §4.3.
type PeekableReader[T any] interface {
	Reader[T]

	// Peek reads the next value without consuming it for the next Read.
	Peek(ctx context.Context) (Item[T], error)

	// Unread pushes v back onto a LIFO stack; the next Read drains the
	// stack before pulling upstream.
	Unread(v T)
}

type peekable[T any] struct {
	upstream Reader[T]
	stack    []T
	peeked   *Item[T]
}

// Peekable wraps r with a one-deep peek and an arbitrary-depth unread
// stack. Read always drains the unread stack first.
func Peekable[T any](r Reader[T]) PeekableReader[T] {
	return &peekable[T]{upstream: r}
}

func (p *peekable[T]) Read(ctx context.Context) (Item[T], error) {
	if n := len(p.stack); n > 0 {
		v := p.stack[n-1]
		p.stack = p.stack[:n-1]
		return Of(v), nil
	}
	if p.peeked != nil {
		item := *p.peeked
		p.peeked = nil
		return item, nil
	}
	return p.upstream.Read(ctx)
}

func (p *peekable[T]) Peek(ctx context.Context) (Item[T], error) {
	if n := len(p.stack); n > 0 {
		return Of(p.stack[n-1]), nil
	}
	if p.peeked != nil {
		return *p.peeked, nil
	}
	item, err := p.upstream.Read(ctx)
	if err != nil {
		return Item[T]{End: true}, err
	}
	p.peeked = &item
	return item, nil
}

func (p *peekable[T]) Unread(v T) {
	p.stack = append(p.stack, v)
}

func (p *peekable[T]) Stop(reason StopReason) error {
	return p.upstream.Stop(reason)
}

func (p *peekable[T]) Headers() Headers {
	return p.upstream.Headers()
}
