package payroll

import (
	"github.com/gogo/protobuf/proto"
	ledger "github.com/iov-one/openpayroll"
)

// Configuration is the payroll global parameters, see codec.proto.
type Configuration struct {
	Metadata      *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Owner         ledger.Address   `protobuf:"bytes,2,opt,name=owner,proto3,casttype=github.com/iov-one/openpayroll.Address" json:"owner,omitempty"`
	PendingOwner  ledger.Address   `protobuf:"bytes,3,opt,name=pending_owner,proto3,casttype=github.com/iov-one/openpayroll.Address" json:"pending_owner,omitempty"`
	Periodicity   int64            `protobuf:"varint,4,opt,name=periodicity,proto3" json:"periodicity,omitempty"`
	BasePayment   uint64           `protobuf:"varint,5,opt,name=base_payment,proto3" json:"base_payment,omitempty"`
	InitialBlock  int64            `protobuf:"varint,6,opt,name=initial_block,proto3" json:"initial_block,omitempty"`
	PausedBlockAt int64            `protobuf:"varint,7,opt,name=paused_block_at,proto3" json:"paused_block_at,omitempty"`
	Treasury      ledger.Address   `protobuf:"bytes,8,opt,name=treasury,proto3,casttype=github.com/iov-one/openpayroll.Address" json:"treasury,omitempty"`
}

func (m *Configuration) Reset()         { *m = Configuration{} }
func (m *Configuration) String() string { return proto.CompactTextString(m) }
func (*Configuration) ProtoMessage()    {}

// WeightEntry is a weight of a single multiplier, see codec.proto.
type WeightEntry struct {
	MultiplierID uint64 `protobuf:"varint,1,opt,name=multiplier_id,proto3" json:"multiplier_id,omitempty"`
	Weight       uint64 `protobuf:"varint,2,opt,name=weight,proto3" json:"weight,omitempty"`
}

func (m *WeightEntry) Reset()         { *m = WeightEntry{} }
func (m *WeightEntry) String() string { return proto.CompactTextString(m) }
func (*WeightEntry) ProtoMessage()    {}

// Beneficiary is a payroll participant, see codec.proto.
type Beneficiary struct {
	Metadata               *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Address                ledger.Address   `protobuf:"bytes,2,opt,name=address,proto3,casttype=github.com/iov-one/openpayroll.Address" json:"address,omitempty"`
	Weights                []*WeightEntry   `protobuf:"bytes,3,rep,name=weights,proto3" json:"weights,omitempty"`
	UnclaimedPayments      uint64           `protobuf:"varint,4,opt,name=unclaimed_payments,proto3" json:"unclaimed_payments,omitempty"`
	LastUpdatedPeriodBlock int64            `protobuf:"varint,5,opt,name=last_updated_period_block,proto3" json:"last_updated_period_block,omitempty"`
}

func (m *Beneficiary) Reset()         { *m = Beneficiary{} }
func (m *Beneficiary) String() string { return proto.CompactTextString(m) }
func (*Beneficiary) ProtoMessage()    {}

// Multiplier is a named weight factor, see codec.proto.
type Multiplier struct {
	Metadata        *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	ID              uint64           `protobuf:"varint,2,opt,name=id,proto3" json:"id,omitempty"`
	Name            string           `protobuf:"bytes,3,opt,name=name,proto3" json:"name,omitempty"`
	ValidUntilBlock int64            `protobuf:"varint,4,opt,name=valid_until_block,proto3" json:"valid_until_block,omitempty"`
}

func (m *Multiplier) Reset()         { *m = Multiplier{} }
func (m *Multiplier) String() string { return proto.CompactTextString(m) }
func (*Multiplier) ProtoMessage()    {}

// ClaimsInPeriod is the settlement tally of the current period, see codec.proto.
type ClaimsInPeriod struct {
	Metadata    *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Period      int64            `protobuf:"varint,2,opt,name=period,proto3" json:"period,omitempty"`
	TotalClaims uint64           `protobuf:"varint,3,opt,name=total_claims,proto3" json:"total_claims,omitempty"`
	Settled     [][]byte         `protobuf:"bytes,4,rep,name=settled,proto3" json:"settled,omitempty"`
}

func (m *ClaimsInPeriod) Reset()         { *m = ClaimsInPeriod{} }
func (m *ClaimsInPeriod) String() string { return proto.CompactTextString(m) }
func (*ClaimsInPeriod) ProtoMessage()    {}

// BeneficiaryIndex is beneficiary addresses in registration order, see codec.proto.
type BeneficiaryIndex struct {
	Metadata  *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Addresses [][]byte         `protobuf:"bytes,2,rep,name=addresses,proto3" json:"addresses,omitempty"`
}

func (m *BeneficiaryIndex) Reset()         { *m = BeneficiaryIndex{} }
func (m *BeneficiaryIndex) String() string { return proto.CompactTextString(m) }
func (*BeneficiaryIndex) ProtoMessage()    {}

// RegisterBeneficiaryMsg is registers a new beneficiary, see codec.proto.
type RegisterBeneficiaryMsg struct {
	Metadata *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Address  ledger.Address   `protobuf:"bytes,2,opt,name=address,proto3,casttype=github.com/iov-one/openpayroll.Address" json:"address,omitempty"`
	Weights  []*WeightEntry   `protobuf:"bytes,3,rep,name=weights,proto3" json:"weights,omitempty"`
}

func (m *RegisterBeneficiaryMsg) Reset()         { *m = RegisterBeneficiaryMsg{} }
func (m *RegisterBeneficiaryMsg) String() string { return proto.CompactTextString(m) }
func (*RegisterBeneficiaryMsg) ProtoMessage()    {}

// UpdateBeneficiaryMsg is replaces the weights of a beneficiary, see codec.proto.
type UpdateBeneficiaryMsg struct {
	Metadata *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Address  ledger.Address   `protobuf:"bytes,2,opt,name=address,proto3,casttype=github.com/iov-one/openpayroll.Address" json:"address,omitempty"`
	Weights  []*WeightEntry   `protobuf:"bytes,3,rep,name=weights,proto3" json:"weights,omitempty"`
}

func (m *UpdateBeneficiaryMsg) Reset()         { *m = UpdateBeneficiaryMsg{} }
func (m *UpdateBeneficiaryMsg) String() string { return proto.CompactTextString(m) }
func (*UpdateBeneficiaryMsg) ProtoMessage()    {}

// RemoveBeneficiaryMsg is removes a beneficiary, see codec.proto.
type RemoveBeneficiaryMsg struct {
	Metadata *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Address  ledger.Address   `protobuf:"bytes,2,opt,name=address,proto3,casttype=github.com/iov-one/openpayroll.Address" json:"address,omitempty"`
}

func (m *RemoveBeneficiaryMsg) Reset()         { *m = RemoveBeneficiaryMsg{} }
func (m *RemoveBeneficiaryMsg) String() string { return proto.CompactTextString(m) }
func (*RemoveBeneficiaryMsg) ProtoMessage()    {}

// AddMultiplierMsg is creates a new multiplier, see codec.proto.
type AddMultiplierMsg struct {
	Metadata *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Name     string           `protobuf:"bytes,2,opt,name=name,proto3" json:"name,omitempty"`
}

func (m *AddMultiplierMsg) Reset()         { *m = AddMultiplierMsg{} }
func (m *AddMultiplierMsg) String() string { return proto.CompactTextString(m) }
func (*AddMultiplierMsg) ProtoMessage()    {}

// DeactivateMultiplierMsg is schedules a multiplier expiration, see codec.proto.
type DeactivateMultiplierMsg struct {
	Metadata     *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	MultiplierID uint64           `protobuf:"varint,2,opt,name=multiplier_id,proto3" json:"multiplier_id,omitempty"`
}

func (m *DeactivateMultiplierMsg) Reset()         { *m = DeactivateMultiplierMsg{} }
func (m *DeactivateMultiplierMsg) String() string { return proto.CompactTextString(m) }
func (*DeactivateMultiplierMsg) ProtoMessage()    {}

// DeleteMultiplierMsg is removes an expired multiplier, see codec.proto.
type DeleteMultiplierMsg struct {
	Metadata     *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	MultiplierID uint64           `protobuf:"varint,2,opt,name=multiplier_id,proto3" json:"multiplier_id,omitempty"`
}

func (m *DeleteMultiplierMsg) Reset()         { *m = DeleteMultiplierMsg{} }
func (m *DeleteMultiplierMsg) String() string { return proto.CompactTextString(m) }
func (*DeleteMultiplierMsg) ProtoMessage()    {}

// UpdateBasePaymentMsg is changes the base payment, see codec.proto.
type UpdateBasePaymentMsg struct {
	Metadata    *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	BasePayment uint64           `protobuf:"varint,2,opt,name=base_payment,proto3" json:"base_payment,omitempty"`
}

func (m *UpdateBasePaymentMsg) Reset()         { *m = UpdateBasePaymentMsg{} }
func (m *UpdateBasePaymentMsg) String() string { return proto.CompactTextString(m) }
func (*UpdateBasePaymentMsg) ProtoMessage()    {}

// UpdatePeriodicityMsg is changes the period length, see codec.proto.
type UpdatePeriodicityMsg struct {
	Metadata    *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Periodicity int64            `protobuf:"varint,2,opt,name=periodicity,proto3" json:"periodicity,omitempty"`
}

func (m *UpdatePeriodicityMsg) Reset()         { *m = UpdatePeriodicityMsg{} }
func (m *UpdatePeriodicityMsg) String() string { return proto.CompactTextString(m) }
func (*UpdatePeriodicityMsg) ProtoMessage()    {}

// PauseMsg is suspends claims, see codec.proto.
type PauseMsg struct {
	Metadata *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
}

func (m *PauseMsg) Reset()         { *m = PauseMsg{} }
func (m *PauseMsg) String() string { return proto.CompactTextString(m) }
func (*PauseMsg) ProtoMessage()    {}

// ResumeMsg is resumes claims, see codec.proto.
type ResumeMsg struct {
	Metadata *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
}

func (m *ResumeMsg) Reset()         { *m = ResumeMsg{} }
func (m *ResumeMsg) String() string { return proto.CompactTextString(m) }
func (*ResumeMsg) ProtoMessage()    {}

// TransferOwnershipMsg is nominates a new owner, see codec.proto.
type TransferOwnershipMsg struct {
	Metadata *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	NewOwner ledger.Address   `protobuf:"bytes,2,opt,name=new_owner,proto3,casttype=github.com/iov-one/openpayroll.Address" json:"new_owner,omitempty"`
}

func (m *TransferOwnershipMsg) Reset()         { *m = TransferOwnershipMsg{} }
func (m *TransferOwnershipMsg) String() string { return proto.CompactTextString(m) }
func (*TransferOwnershipMsg) ProtoMessage()    {}

// AcceptOwnershipMsg is is sent by the nominee to take over the ownership, see codec.proto.
type AcceptOwnershipMsg struct {
	Metadata *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
}

func (m *AcceptOwnershipMsg) Reset()         { *m = AcceptOwnershipMsg{} }
func (m *AcceptOwnershipMsg) String() string { return proto.CompactTextString(m) }
func (*AcceptOwnershipMsg) ProtoMessage()    {}

// ClaimMsg is pays out a part of the owed balance, see codec.proto.
type ClaimMsg struct {
	Metadata *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Address  ledger.Address   `protobuf:"bytes,2,opt,name=address,proto3,casttype=github.com/iov-one/openpayroll.Address" json:"address,omitempty"`
	Amount   uint64           `protobuf:"varint,3,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (m *ClaimMsg) Reset()         { *m = ClaimMsg{} }
func (m *ClaimMsg) String() string { return proto.CompactTextString(m) }
func (*ClaimMsg) ProtoMessage()    {}

// AmountResponse is is returned by amount queries, see codec.proto.
type AmountResponse struct {
	Amount uint64 `protobuf:"varint,1,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (m *AmountResponse) Reset()         { *m = AmountResponse{} }
func (m *AmountResponse) String() string { return proto.CompactTextString(m) }
func (*AmountResponse) ProtoMessage()    {}

// AddressesResponse is is returned by address list queries, see codec.proto.
type AddressesResponse struct {
	Addresses [][]byte `protobuf:"bytes,1,rep,name=addresses,proto3" json:"addresses,omitempty"`
}

func (m *AddressesResponse) Reset()         { *m = AddressesResponse{} }
func (m *AddressesResponse) String() string { return proto.CompactTextString(m) }
func (*AddressesResponse) ProtoMessage()    {}

// HeightResponse is is returned by block height queries, see codec.proto.
type HeightResponse struct {
	Height int64 `protobuf:"varint,1,opt,name=height,proto3" json:"height,omitempty"`
}

func (m *HeightResponse) Reset()         { *m = HeightResponse{} }
func (m *HeightResponse) String() string { return proto.CompactTextString(m) }
func (*HeightResponse) ProtoMessage()    {}
