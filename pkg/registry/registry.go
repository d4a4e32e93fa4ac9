package registry

import (
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/bayesnet/pkg/domain"
	"github.com/aretw0/bayesnet/pkg/network"
)

// Factory builds a network. It is called at most once per registration.
type Factory func() (*network.BayesianNetwork, error)

// DynamicFactory builds a dynamic network.
type DynamicFactory func() (*network.DynamicBayesianNetwork, error)

type entry struct {
	description string
	build       Factory
	buildDyn    DynamicFactory

	built bool
	bn    *network.BayesianNetwork
	dbn   *network.DynamicBayesianNetwork
	err   error
}

// Registry manages the available networks by name.
// Networks are built lazily on first use and shared afterwards; they are
// read-only, so concurrent callers may use the same instance.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*entry),
	}
}

// Register adds a network to the registry.
// If a network with the same name exists, it is overwritten.
func (r *Registry) Register(name, description string, fn Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = &entry{description: description, build: fn}
}

// RegisterDynamic adds a dynamic network to the registry.
func (r *Registry) RegisterDynamic(name, description string, fn DynamicFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = &entry{description: description, buildDyn: fn}
}

func (r *Registry) resolve(name string) (*entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNetworkNotFound, name)
	}
	if !e.built {
		if e.buildDyn != nil {
			e.dbn, e.err = e.buildDyn()
			if e.err == nil {
				e.bn = e.dbn.BayesianNetwork
			}
		} else {
			e.bn, e.err = e.build()
		}
		e.built = true
	}
	if e.err != nil {
		return nil, fmt.Errorf("build network %s: %w", name, e.err)
	}
	return e, nil
}

// Get returns the named network, building it on first use.
// Returns domain.ErrNetworkNotFound if the name is not registered.
// For a dynamic network this is its embedded two-slice network.
func (r *Registry) Get(name string) (*network.BayesianNetwork, error) {
	e, err := r.resolve(name)
	if err != nil {
		return nil, err
	}
	return e.bn, nil
}

// GetDynamic returns the named dynamic network. The boolean is false when
// the network exists but is not dynamic.
func (r *Registry) GetDynamic(name string) (*network.DynamicBayesianNetwork, bool, error) {
	e, err := r.resolve(name)
	if err != nil {
		return nil, false, err
	}
	return e.dbn, e.dbn != nil, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Info describes the named network.
func (r *Registry) Info(name string) (domain.NetworkInfo, error) {
	e, err := r.resolve(name)
	if err != nil {
		return domain.NetworkInfo{}, err
	}
	info := Describe(name, e.bn)
	info.Description = e.description
	if e.dbn != nil {
		info.Dynamic = true
		roles := make(map[*domain.RandomVariable]string)
		for _, rv := range e.dbn.X0() {
			roles[rv] = "X0"
		}
		for _, rv := range e.dbn.X1() {
			roles[rv] = "X1"
		}
		for _, rv := range e.dbn.E1() {
			roles[rv] = "E1"
		}
		for i, rv := range e.bn.VariablesInTopologicalOrder() {
			info.Variables[i].Role = roles[rv]
		}
	}
	return info, nil
}

// Infos describes every registered network, sorted by name.
func (r *Registry) Infos() ([]domain.NetworkInfo, error) {
	names := r.Names()
	infos := make([]domain.NetworkInfo, 0, len(names))
	for _, name := range names {
		info, err := r.Info(name)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Describe renders a network's structure as text, in topological order.
func Describe(name string, bn *network.BayesianNetwork) domain.NetworkInfo {
	info := domain.NetworkInfo{Name: name}
	for _, n := range bn.Nodes() {
		rv := n.RandomVariable()
		vi := domain.VariableInfo{Name: rv.Name()}
		for _, v := range rv.Domain().Values() {
			vi.Values = append(vi.Values, fmt.Sprint(v))
		}
		for _, p := range n.Parents() {
			vi.Parents = append(vi.Parents, p.RandomVariable().Name())
		}
		info.Order = append(info.Order, rv.Name())
		info.Variables = append(info.Variables, vi)
	}
	return info
}
