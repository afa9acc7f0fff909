package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryClasses(t *testing.T) {
	m := buildModel(t, richSnapshot())
	f := m.Factory()

	assert.Equal(t, "OFFactory", f.Name)
	assert.Len(t, f.Interfaces, len(m.Interfaces()))
	require.Len(t, f.Classes, 2)

	v10 := f.Classes[0]
	assert.Equal(t, "OFFactoryVer10", v10.Name)
	assert.Equal(t, "ver10", v10.Namespace)
	assert.Equal(t, WireVersion(1), v10.Version)

	var names []string
	for _, c := range v10.Classes {
		names = append(names, c.Name())
	}
	// of_action is virtual and has no concrete class.
	assert.Equal(t, []string{
		"OFHelloVer10",
		"OFTableModVer10",
		"OFMatchV1Ver10",
		"OFActionOutputVer10",
		"OFPortDescVer10",
	}, names)

	v11, err := f.Class(2)
	require.NoError(t, err)
	assert.Len(t, v11.Classes, 2)

	_, err = f.Class(9)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Same(t, f, m.Factory())
}
