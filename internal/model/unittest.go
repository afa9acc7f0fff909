package model

import (
	"context"
	"errors"

	"github.com/roach88/bindgen/internal/fixture"
)

// UnitTest is the conformance fixture view of one versioned class.
type UnitTest struct {
	class *VersionedClass
}

// Name is the name of the generated test ("OFFlowAddVer13Test").
func (u *UnitTest) Name() string {
	return u.class.Name() + "Test"
}

// Key identifies the fixture: version label and canonical name without the
// common wire prefix.
func (u *UnitTest) Key() fixture.Key {
	return fixture.Key{
		Version: u.class.Version.Label(),
		Name:    u.class.model.conv.ShortName(u.class.WireName()),
	}
}

// DataFile is the relative fixture path ("of13/flow_add.data").
func (u *UnitTest) DataFile() string {
	return u.Key().Path()
}

// HasTestData reports whether a fixture exists. A model without a fixture
// source has none.
func (u *UnitTest) HasTestData(ctx context.Context) (bool, error) {
	src := u.class.model.fixtures
	if src == nil {
		return false, nil
	}
	return src.Exists(ctx, u.Key())
}

// TestData returns the raw fixture. ok is false when no fixture exists.
func (u *UnitTest) TestData(ctx context.Context) (data []byte, ok bool, err error) {
	src := u.class.model.fixtures
	if src == nil {
		return nil, false, nil
	}
	data, err = src.Read(ctx, u.Key())
	if errors.Is(err, fixture.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}
