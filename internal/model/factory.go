package model

// Factory is the aggregate entry point over every interface.
type Factory struct {
	Name       string
	Interfaces []*Interface
	Classes    []*FactoryClass
}

// FactoryClass is the entry point for one wire version.
type FactoryClass struct {
	Name      string // "OFFactoryVer13"
	Namespace string // "ver13"
	Version   WireVersion

	// Classes are the non-virtual classes defined in Version, in interface order.
	Classes []*VersionedClass
}

// Factory returns the aggregate factory view.
func (m *Model) Factory() *Factory {
	m.factoryOnce.Do(func() {
		f := &Factory{
			Name:       m.conv.TypePrefix + "Factory",
			Interfaces: m.Interfaces(),
		}
		for _, v := range m.versions {
			fc := &FactoryClass{
				Name:      f.Name + "Ver" + v.Label(),
				Namespace: "ver" + v.Label(),
				Version:   v,
			}
			for _, iface := range f.Interfaces {
				if iface.IsVirtual() {
					continue
				}
				if c, ok := iface.classes[v]; ok {
					fc.Classes = append(fc.Classes, c)
				}
			}
			f.Classes = append(f.Classes, fc)
		}
		m.factory = f
	})
	return m.factory
}

// Class returns the factory class for v.
func (f *Factory) Class(v WireVersion) (*FactoryClass, error) {
	for _, fc := range f.Classes {
		if fc.Version == v {
			return fc, nil
		}
	}
	return nil, &NotFoundError{Kind: "factory class", Scope: f.Name, Key: "version " + v.Qualified()}
}
