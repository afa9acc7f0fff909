package model

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/bindgen/internal/config"
	"github.com/roach88/bindgen/internal/fixture"
	"github.com/roach88/bindgen/internal/ir"
	"github.com/roach88/bindgen/internal/naming"
)

// Model is the version-unified object model built from one IR snapshot.
//
// It is the build context: every interface, class, member and enum holds a
// pointer back to the Model that created it. Derived views are computed on
// first use and cached; the caches are populated once and never change.
type Model struct {
	snap        *ir.Snapshot
	cfg         config.Config
	conv        naming.Convention
	types       naming.TypeMapper
	classifier  naming.Classifier
	fixtures    fixture.Source
	logger      *slog.Logger
	concurrency int

	versions  []WireVersion
	protocols []ir.Protocol // target protocols, ascending version
	rules     []ClassRule

	virtual        map[string]bool
	enumBlacklist  map[string]bool
	skipClasses    map[string]bool
	writeBlacklist map[string]map[string]bool
	entryBlacklist map[string]map[string]bool

	ifaceOnce   sync.Once
	interfaces  []*Interface
	ifaceByName map[string]*Interface
	ifaceByWire map[string]*Interface

	enumOnce   sync.Once
	enums      []*Enum
	enumByName map[string]*Enum
	enumByWire map[string]*Enum

	factoryOnce sync.Once
	factory     *Factory

	diagMu sync.Mutex
	diags  []Diagnostic
}

// New prepares a model over snap without computing any view.
func New(snap *ir.Snapshot, opts ...Option) (*Model, error) {
	if snap == nil {
		return nil, fmt.Errorf("nil snapshot")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	m := &Model{
		snap:           snap,
		cfg:            o.cfg,
		conv:           o.cfg.Convention(),
		types:          o.types,
		classifier:     o.classifier,
		fixtures:       o.fixtures,
		logger:         o.logger,
		concurrency:    o.concurrency,
		virtual:        config.Set(o.cfg.VirtualInterfaces),
		enumBlacklist:  config.Set(o.cfg.EnumBlacklist),
		skipClasses:    config.Set(o.cfg.SkipClasses),
		writeBlacklist: setMap(o.cfg.WriteBlacklist),
		entryBlacklist: setMap(o.cfg.EnumEntryBlacklist),
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.types == nil {
		m.types = naming.NewTypeMapper(m.conv, o.cfg.TypeOverrides)
	}
	if m.classifier == nil {
		m.classifier = o.cfg.Classifier()
	}
	m.rules = ClassRules(m.conv, m.classifier)

	if err := m.selectProtocols(); err != nil {
		return nil, err
	}
	return m, nil
}

// Build creates the model and warms every view.
// Any invariant violation aborts the build with a *BuildError; no partial
// model is returned.
func Build(ctx context.Context, snap *ir.Snapshot, opts ...Option) (*Model, error) {
	m, err := New(snap, opts...)
	if err != nil {
		return nil, err
	}
	if err := m.Warm(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

func setMap(in map[string][]string) map[string]map[string]bool {
	out := make(map[string]map[string]bool, len(in))
	for k, names := range in {
		out[k] = config.Set(names)
	}
	return out
}

// selectProtocols resolves the target versions and orders their protocols.
func (m *Model) selectProtocols() error {
	seen := make(map[int]bool)
	for _, p := range m.snap.Protocols {
		if seen[p.WireVersion] {
			return fmt.Errorf("duplicate protocol for wire version %d", p.WireVersion)
		}
		seen[p.WireVersion] = true
	}

	targets := make(map[int]bool)
	for _, v := range m.snap.TargetVersions() {
		if targets[v] {
			continue
		}
		if !seen[v] {
			return fmt.Errorf("target version %d has no protocol", v)
		}
		targets[v] = true
		m.versions = append(m.versions, WireVersion(v))
	}

	for _, p := range m.snap.Sorted() {
		if targets[p.WireVersion] {
			m.protocols = append(m.protocols, p)
		}
	}
	return nil
}

// Versions returns the target versions in ascending order.
func (m *Model) Versions() []WireVersion {
	return append([]WireVersion(nil), m.versions...)
}

// Config returns the configuration the model was built with.
func (m *Model) Config() config.Config {
	return m.cfg
}

// Convention returns the naming convention in use.
func (m *Model) Convention() naming.Convention {
	return m.conv
}

// Interfaces returns every interface in first-seen order, scanning versions
// in ascending order.
func (m *Model) Interfaces() []*Interface {
	m.ifaceOnce.Do(m.buildInterfaces)
	return m.interfaces
}

func (m *Model) buildInterfaces() {
	var order []string
	groups := make(map[string][]versionedIR)
	for _, p := range m.protocols {
		v := WireVersion(p.WireVersion)
		for _, c := range p.Classes {
			if _, ok := groups[c.Name]; !ok {
				order = append(order, c.Name)
			}
			groups[c.Name] = append(groups[c.Name], versionedIR{version: v, class: c})
		}
	}

	// Alias targets may live in versions outside the target list.
	all := make(map[string]map[WireVersion]ir.Class)
	for _, p := range m.snap.Sorted() {
		v := WireVersion(p.WireVersion)
		for _, c := range p.Classes {
			if all[c.Name] == nil {
				all[c.Name] = make(map[WireVersion]ir.Class)
			}
			if _, dup := all[c.Name][v]; !dup {
				all[c.Name][v] = c
			}
		}
	}

	m.ifaceByName = make(map[string]*Interface, len(order))
	m.ifaceByWire = make(map[string]*Interface, len(order))
	for _, wire := range order {
		iface := newInterface(m, wire, groups[wire], all[wire])
		m.interfaces = append(m.interfaces, iface)
		m.ifaceByWire[wire] = iface
		if _, dup := m.ifaceByName[iface.Name]; !dup {
			m.ifaceByName[iface.Name] = iface
		}
	}
}

// Interface looks an interface up by semantic name ("OFFlowAdd").
func (m *Model) Interface(name string) (*Interface, error) {
	m.Interfaces()
	if iface, ok := m.ifaceByName[name]; ok {
		return iface, nil
	}
	return nil, &NotFoundError{Kind: "interface", Key: name}
}

// InterfaceByWireName looks an interface up by canonical name ("of_flow_add").
func (m *Model) InterfaceByWireName(wire string) (*Interface, error) {
	m.Interfaces()
	if iface, ok := m.ifaceByWire[wire]; ok {
		return iface, nil
	}
	return nil, &NotFoundError{Kind: "interface", Key: wire}
}

// Enums returns every non-blacklisted enum in first-seen order, scanning
// versions in ascending order.
func (m *Model) Enums() []*Enum {
	m.enumOnce.Do(m.buildEnums)
	return m.enums
}

func (m *Model) buildEnums() {
	var order []string
	groups := make(map[string][]versionedEnum)
	for _, p := range m.protocols {
		v := WireVersion(p.WireVersion)
		for _, e := range p.Enums {
			if _, ok := groups[e.Name]; !ok {
				order = append(order, e.Name)
			}
			groups[e.Name] = append(groups[e.Name], versionedEnum{version: v, enum: e})
		}
	}

	m.enumByName = make(map[string]*Enum, len(order))
	m.enumByWire = make(map[string]*Enum, len(order))
	for _, wire := range order {
		if m.enumBlacklist[m.conv.EnumName(wire)] {
			continue
		}
		e := newEnum(m, wire, groups[wire])
		m.enums = append(m.enums, e)
		m.enumByWire[wire] = e
		if _, dup := m.enumByName[e.Name]; !dup {
			m.enumByName[e.Name] = e
		}
	}
}

// EnumByName looks an enum up by semantic name ("OFPortFeatures").
func (m *Model) EnumByName(name string) (*Enum, error) {
	m.Enums()
	if e, ok := m.enumByName[name]; ok {
		return e, nil
	}
	return nil, &NotFoundError{Kind: "enum", Key: name}
}

// EnumByWireName looks an enum up by canonical name ("ofp_port_features").
func (m *Model) EnumByWireName(wire string) (*Enum, error) {
	m.Enums()
	if e, ok := m.enumByWire[wire]; ok {
		return e, nil
	}
	return nil, &NotFoundError{Kind: "enum", Key: wire}
}

// Warm computes every derived view, fanning interfaces out over a bounded
// group of goroutines. It is safe to call more than once.
func (m *Model) Warm(ctx context.Context) error {
	enums := m.Enums()
	ifaces := m.Interfaces()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)
	for _, iface := range ifaces {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return iface.warm()
		})
	}
	if err := g.Wait(); err != nil {
		m.logger.Error("model build failed", "error", err)
		return err
	}

	m.Factory()
	m.logger.Debug("model built",
		"versions", len(m.versions),
		"interfaces", len(ifaces),
		"enums", len(enums),
		"diagnostics", len(m.Diagnostics()))
	return nil
}

// diagnose records and logs a degraded resolution.
func (m *Model) diagnose(d Diagnostic) {
	m.diagMu.Lock()
	m.diags = append(m.diags, d)
	m.diagMu.Unlock()

	m.logger.Warn(d.Message,
		"interface", d.Interface,
		"member", d.Member,
		"version", d.Version.String())
}

// Diagnostics returns the recorded degraded resolutions in a stable order.
func (m *Model) Diagnostics() []Diagnostic {
	m.diagMu.Lock()
	out := append([]Diagnostic(nil), m.diags...)
	m.diagMu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Interface != b.Interface {
			return a.Interface < b.Interface
		}
		if a.Member != b.Member {
			return a.Member < b.Member
		}
		if a.Version != b.Version {
			return a.Version < b.Version
		}
		return a.Message < b.Message
	})
	return out
}

// ShouldGenerate reports whether the emitter writes an independent class body
// for c.
func (m *Model) ShouldGenerate(c *VersionedClass) bool {
	iface := c.Interface()
	switch {
	case iface.IsVirtual(), c.IsAlias(), m.skipClasses[iface.Name]:
		return false
	case strings.HasPrefix(iface.Name, m.conv.TypePrefix+"MatchV"):
		return true
	}
	wire := iface.WireName
	return m.classifier.IsMessage(wire) ||
		m.classifier.IsOXM(wire) ||
		m.classifier.IsAction(wire) ||
		m.classifier.IsInstruction(wire)
}

type versionedIR struct {
	version WireVersion
	class   ir.Class
}

type versionedEnum struct {
	version WireVersion
	enum    ir.Enum
}
