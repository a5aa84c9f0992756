package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransferStatusClassification(t *testing.T) {
	active := map[TransferStatus]bool{
		TransferStatusPendingAllocation: false,
		TransferStatusBedsAllocated:     true,
		TransferStatusApproved:          true,
		TransferStatusDispatched:        true,
		TransferStatusPartiallyArrived:  true,
		TransferStatusCompleted:         false,
		TransferStatusRejected:          false,
		TransferStatusCancelled:         false,
	}
	for status, want := range active {
		assert.Equal(t, want, status.IsActive(), "IsActive(%s)", status)
	}

	terminal := map[TransferStatus]bool{
		TransferStatusPendingAllocation: false,
		TransferStatusBedsAllocated:     false,
		TransferStatusDispatched:        false,
		TransferStatusCompleted:         true,
		TransferStatusRejected:          true,
		TransferStatusCancelled:         true,
	}
	for status, want := range terminal {
		assert.Equal(t, want, status.IsTerminal(), "IsTerminal(%s)", status)
	}
}

func TestAllArrived(t *testing.T) {
	assert.False(t, (&TransferRequest{}).AllArrived(), "a request with no members has nobody arrived")

	request := &TransferRequest{Members: []TransferRequestMember{
		{PersonType: PersonTypeTechnician, PersonID: 1, Arrived: true},
		{PersonType: PersonTypeTechnician, PersonID: 2},
	}}
	assert.False(t, request.AllArrived())

	request.Members[1].Arrived = true
	assert.True(t, request.AllArrived())
}

func TestMemberFor(t *testing.T) {
	request := &TransferRequest{Members: []TransferRequestMember{
		{PersonType: PersonTypeTechnician, PersonID: 7},
		{PersonType: PersonTypeExternal, PersonID: 7},
	}}

	member := request.MemberFor(PersonRef{Type: PersonTypeExternal, ID: 7})
	assert.NotNil(t, member)
	assert.Equal(t, PersonTypeExternal, member.PersonType)

	assert.Nil(t, request.MemberFor(PersonRef{Type: PersonTypeTechnician, ID: 8}))
}
