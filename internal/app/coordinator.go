package app

// Coordinator bundles the registry with the components that act on
// it, so adapters get wired against one object.
type Coordinator struct {
	Registry  *Registry
	Lifecycle *Lifecycle
	Broadcast *Broadcaster
	Relay     *Relay
}

func NewCoordinator() *Coordinator {
	reg := NewRegistry()
	return &Coordinator{
		Registry:  reg,
		Lifecycle: NewLifecycle(reg),
		Broadcast: NewBroadcaster(reg),
		Relay:     NewRelay(reg),
	}
}
