package resolve

// Binding is the declared association between an attribute identifier and a
// service name. Bindings are descriptive metadata only: declaring one never
// touches the registry or any resolution state.
type Binding struct {
	attribute string
	service   string
}

// Attribute returns the bound attribute identifier.
func (b Binding) Attribute() string {
	return b.attribute
}

// Service returns the service name the attribute resolves through.
func (b Binding) Service() string {
	return b.service
}

// Bindings is the per-type binding table, built once when the owning type is
// defined (typically a package-level variable) and treated as immutable
// afterwards. Each owning object keeps its own cells regardless of where the
// bindings were declared, so a type embedding another host type and declaring
// its own bindings never shares resolution state with it.
type Bindings struct {
	registry *Registry
	byAttr   map[string]Binding
}

// Declare starts a binding table resolving against registry.
// A nil registry selects the process-wide default.
func Declare(registry *Registry) *Bindings {
	if registry == nil {
		registry = Default()
	}
	return &Bindings{
		registry: registry,
		byAttr:   make(map[string]Binding, 8),
	}
}

// Bind declares attribute as resolvable. The service name defaults to the
// attribute identifier itself; an explicit name overrides it.
func (bs *Bindings) Bind(attribute string, service ...string) *Bindings {
	name := attribute
	if len(service) > 0 && service[0] != "" {
		name = service[0]
	}
	bs.byAttr[attribute] = Binding{attribute: attribute, service: name}
	return bs
}

// Describe returns the binding descriptor for attribute. This is the
// type-level access path: no owning object, no resolution, no side effects.
// Returns UnboundAttributeError if the attribute was never declared.
func (bs *Bindings) Describe(attribute string) (Binding, error) {
	binding, ok := bs.byAttr[attribute]
	if !ok {
		return Binding{}, &UnboundAttributeError{Attribute: attribute}
	}
	return binding, nil
}
