package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"work-equipment-service/pkg/constants"
)

func TestSetLossFlagClearsReusable(t *testing.T) {
	var f RemovalFlags
	f.SetReusable(true)

	for _, flag := range constants.AllRemovalFlags {
		f = RemovalFlags{}
		f.SetReusable(true)
		f.Set(flag, true)

		assert.False(t, f.Reusable, "flag %s must revoke reusable", flag)
		assert.True(t, f.Get(flag))
	}
}

func TestSetReusableClearsEveryLossFlag(t *testing.T) {
	f := RemovalFlags{Lost: true, AdapterLost: true, RemoteLost: true, CableLost: true, CradleLost: true}
	f.SetReusable(true)

	assert.True(t, f.Reusable)
	assert.False(t, f.AnyLoss())
}

func TestClearingFlagKeepsReusableOff(t *testing.T) {
	var f RemovalFlags
	f.Set(constants.FlagEquipmentLoss, true)
	f.Set(constants.FlagEquipmentLoss, false)

	assert.False(t, f.AnyLoss())
	assert.False(t, f.Reusable)
}

func TestIsCustomerOwned(t *testing.T) {
	cases := []struct {
		name string
		eq   Equipment
		want bool
	}{
		{"explicit ownership", Equipment{Ownership: OwnershipCustomer}, true},
		{"lease code", Equipment{LeaseCode: constants.LeaseCodeCustomerOwned}, true},
		{"voip flag", Equipment{VoipCustomerOwned: constants.VoipCustomerOwnedYes}, true},
		{"customer modem class", Equipment{ModelCode: constants.ClassCodeCustomerModem}, true},
		{"carrier unit", Equipment{Ownership: OwnershipCarrier, LeaseCode: "10"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.eq.IsCustomerOwned())
		})
	}
}

func TestDraftEnsureMaps(t *testing.T) {
	d := &Draft{WorkItemID: "W1"}
	d.EnsureMaps()

	assert.NotNil(t, d.Installed)
	assert.NotNil(t, d.MarkedForRemoval)
	assert.NotNil(t, d.RemovalStatus)
	assert.NotNil(t, d.RemovableCandidates)
}

func TestBindingFor(t *testing.T) {
	d := NewDraft("W1")
	d.Installed["SC-1"] = InstalledBinding{
		ContractBaselineID: "SC-1",
		ActualUnit:         Equipment{EquipmentID: "E1"},
	}

	baselineID, binding := d.BindingFor("E1")
	assert.Equal(t, "SC-1", baselineID)
	assert.NotNil(t, binding)

	baselineID, binding = d.BindingFor("E-missing")
	assert.Empty(t, baselineID)
	assert.Nil(t, binding)
}
