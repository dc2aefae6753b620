package core

import "github.com/go-drift/fiber/pkg/element"

// HostConfig is the set of host-platform operations the reconciler drives.
// Instances and containers are opaque to the reconciler. The handle passed to
// CreateInstance, CreateTextInstance and CommitUpdate is the owning *Fiber.
//
// All methods are called from the reconciler's goroutine. Creation methods
// run during render; the mutation methods run during commit.
type HostConfig interface {
	CreateInstance(typ string, props element.Props, handle any) any
	CreateTextInstance(text string, handle any) any
	AppendInitialChild(parent, child any)
	// FinalizeInitialChildren applies the initial props once all children are
	// appended. Returning true requests a commit-time mount hook, which this
	// reconciler does not support.
	FinalizeInitialChildren(instance any, typ string, props element.Props) bool

	AppendChild(parent, child any)
	InsertBefore(parent, child, before any)
	AppendChildToContainer(container, child any)
	InsertInContainerBefore(container, child, before any)
	RemoveChild(parent, child any)

	// PrepareUpdate diffs oldProps against newProps. It returns nil when
	// nothing changed; a non-nil payload is handed back to CommitUpdate.
	PrepareUpdate(instance any, typ string, oldProps, newProps element.Props) any
	CommitUpdate(instance, payload any, typ string, oldProps, newProps element.Props, handle any)
	CommitTextUpdate(instance any, oldText, newText string)

	// ShouldSetTextContent reports whether the host renders props' children
	// as direct text content instead of child instances.
	ShouldSetTextContent(typ string, props element.Props) bool
	ResetTextContent(instance any)

	// ScheduleMicrotask runs fn after the current synchronous turn.
	ScheduleMicrotask(fn func())
}
