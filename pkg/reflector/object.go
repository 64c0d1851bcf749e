package reflector

import "fmt"

// Object is the capability contract every mirrored type must satisfy.
//
// The reflector never interprets an object's payload; it only needs a stable
// identity (name plus optional namespace) and the object's contribution to
// the resume version. Kubernetes API types satisfy this interface through
// their embedded ObjectMeta.
type Object interface {
	// GetName returns the object's name.
	GetName() string

	// GetNamespace returns the object's namespace, or the empty string for
	// cluster-scoped objects.
	GetNamespace() string

	// GetResourceVersion returns the resume version this object was observed
	// at, or the empty string when the remote did not provide one.
	GetResourceVersion() string
}

// ObjectID identifies a mirrored object by name and, for namespaced
// resources, its namespace. It is the cache key of the mirror.
type ObjectID struct {
	Name      string
	Namespace string // empty for cluster-scoped objects
}

// IDFor derives the identity of an object.
func IDFor(o Object) ObjectID {
	return ObjectID{Name: o.GetName(), Namespace: o.GetNamespace()}
}

// Less defines a total order over identities: cluster-scoped before
// namespaced, then by name, then by namespace. The order is what makes the
// mirror's iteration deterministic.
func (id ObjectID) Less(other ObjectID) bool {
	if (id.Namespace == "") != (other.Namespace == "") {
		return id.Namespace == ""
	}
	if id.Name != other.Name {
		return id.Name < other.Name
	}
	return id.Namespace < other.Namespace
}

// String renders the identity as "name [namespace]", or just "name" for
// cluster-scoped objects.
func (id ObjectID) String() string {
	if id.Namespace == "" {
		return id.Name
	}
	return fmt.Sprintf("%s [%s]", id.Name, id.Namespace)
}
