package element

// Reducer folds an action into a state.
type Reducer func(state, action any) any

// Dispatch enqueues an action on a state hook. It is safe to retain and call
// after the render that returned it, but only from the reconciler's goroutine.
type Dispatch func(action any)

// EffectFunc runs after commit and may return a cleanup function that runs
// before the next execution of the effect or when the component unmounts.
type EffectFunc func() func()

// StateInitializer, passed as the initial value to UseState, is invoked once
// on mount to produce the initial state.
type StateInitializer func() any

// StateUpdater, passed to a UseState dispatch, is applied to the previous
// state instead of replacing it.
type StateUpdater func(prev any) any

// Hooks is the per-render hook capability handed to a component's render
// function. Calls must happen in the same order on every render.
type Hooks interface {
	// UseReducer returns the current state and a dispatch function. On mount
	// the state is init(initialArg), or initialArg when init is nil.
	UseReducer(reducer Reducer, initialArg any, init func(any) any) (any, Dispatch)
	// UseState is UseReducer with a reducer that replaces the state, or
	// applies a StateUpdater.
	UseState(initial any) (any, Dispatch)
	// UseEffect schedules create to run after commit. A nil deps runs the
	// effect after every commit; an empty non-nil deps runs it once.
	UseEffect(create EffectFunc, deps []any)
}

// BasicStateReducer is the reducer used by UseState.
func BasicStateReducer(state, action any) any {
	switch fn := action.(type) {
	case StateUpdater:
		return fn(state)
	case func(any) any:
		return fn(state)
	}
	return action
}

// Deps builds an effect dependency list. Deps() with no values returns an
// empty non-nil list, meaning the effect runs only on mount.
func Deps(values ...any) []any {
	if values == nil {
		return []any{}
	}
	return values
}

// Setter updates a typed state cell returned by UseState.
//
// Example:
//
//	count, setCount := element.UseState(h, 0)
//	onClick := func() { setCount.Update(func(n int) int { return n + 1 }) }
type Setter[T any] struct {
	dispatch Dispatch
}

// Set replaces the state with value.
func (s Setter[T]) Set(value T) {
	s.dispatch(value)
}

// Update applies transform to the latest state when the update is processed.
func (s Setter[T]) Update(transform func(T) T) {
	s.dispatch(StateUpdater(func(prev any) any {
		return transform(as[T](prev))
	}))
}

// Dispatch returns the underlying untyped dispatch function.
func (s Setter[T]) Dispatch() Dispatch {
	return s.dispatch
}

// UseState is the typed form of Hooks.UseState.
func UseState[T any](h Hooks, initial T) (T, Setter[T]) {
	v, dispatch := h.UseState(initial)
	return as[T](v), Setter[T]{dispatch: dispatch}
}

// UseLazyState is UseState with an initializer invoked only on mount.
func UseLazyState[T any](h Hooks, init func() T) (T, Setter[T]) {
	v, dispatch := h.UseState(StateInitializer(func() any { return init() }))
	return as[T](v), Setter[T]{dispatch: dispatch}
}

// UseReducer is the typed form of Hooks.UseReducer.
//
// Example:
//
//	type action struct{ delta int }
//	n, dispatch := element.UseReducer(h, func(s int, a action) int { return s + a.delta }, 0)
//	dispatch(action{delta: 1})
func UseReducer[S, A any](h Hooks, reducer func(S, A) S, initial S) (S, func(A)) {
	r := func(state, action any) any {
		return reducer(as[S](state), as[A](action))
	}
	v, dispatch := h.UseReducer(r, initial, nil)
	return as[S](v), func(a A) { dispatch(a) }
}

// UseEffect is shorthand for h.UseEffect(create, deps).
func UseEffect(h Hooks, create func() func(), deps []any) {
	h.UseEffect(create, deps)
}

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}
