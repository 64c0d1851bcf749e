package reflector

import "testing"

func TestObjectID_Less(t *testing.T) {
	tests := []struct {
		name string
		a, b ObjectID
		want bool
	}{
		{
			name: "cluster-scoped sorts before namespaced",
			a:    ObjectID{Name: "zz"},
			b:    ObjectID{Name: "aa", Namespace: "x"},
			want: true,
		},
		{
			name: "namespaced sorts after cluster-scoped",
			a:    ObjectID{Name: "aa", Namespace: "x"},
			b:    ObjectID{Name: "zz"},
			want: false,
		},
		{
			name: "same scope orders by name",
			a:    ObjectID{Name: "a", Namespace: "x"},
			b:    ObjectID{Name: "b", Namespace: "x"},
			want: true,
		},
		{
			name: "same name orders by namespace",
			a:    ObjectID{Name: "a", Namespace: "x"},
			b:    ObjectID{Name: "a", Namespace: "y"},
			want: true,
		},
		{
			name: "equal identities are not less",
			a:    ObjectID{Name: "a", Namespace: "x"},
			b:    ObjectID{Name: "a", Namespace: "x"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Less(tt.b); got != tt.want {
				t.Errorf("%v.Less(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestObjectID_String(t *testing.T) {
	namespaced := ObjectID{Name: "web", Namespace: "prod"}
	if got := namespaced.String(); got != "web [prod]" {
		t.Errorf("expected %q, got %q", "web [prod]", got)
	}

	clusterScoped := ObjectID{Name: "node-1"}
	if got := clusterScoped.String(); got != "node-1" {
		t.Errorf("expected %q, got %q", "node-1", got)
	}
}

func TestIDFor(t *testing.T) {
	o := obj("web", "prod", "3", "v1")
	id := IDFor(o)
	if id.Name != "web" || id.Namespace != "prod" {
		t.Errorf("got unexpected identity: %+v", id)
	}
}
